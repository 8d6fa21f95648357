package idp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
)

// Exchanger trades an API key for a bearer token.
//
//go:generate mockgen -source=exchanger.go -package idp -destination exchanger_mock.go Exchanger
type Exchanger interface {
	Exchange(ctx context.Context, apiKey string) (domain.Grant, error)
}

// OAuthExchanger performs the refresh_token grant against the realm token endpoint.
// The API key is the refresh token; client_id travels in the form body.
type OAuthExchanger struct {
	config *oauth2.Config
	client *http.Client
}

// NewOAuthExchanger creates an exchanger for tokenURL. A nil client means http.DefaultClient.
func NewOAuthExchanger(tokenURL string, client *http.Client) *OAuthExchanger {
	return &OAuthExchanger{
		config: &oauth2.Config{
			ClientID: ClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client: client,
	}
}

// Exchange posts grant_type=refresh_token&client_id=ast-app&refresh_token={apiKey}.
func (e *OAuthExchanger) Exchange(ctx context.Context, apiKey string) (domain.Grant, error) {
	if e.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, e.client)
	}

	tok, err := e.config.TokenSource(ctx, &oauth2.Token{RefreshToken: apiKey}).Token()
	if err != nil {
		return domain.Grant{}, classifyTokenError(err)
	}

	return domain.Grant{
		AccessToken: tok.AccessToken,
		ExpiresIn:   expiresIn(tok),
	}, nil
}

// expiresIn reads expires_in from the raw response; zero when absent.
func expiresIn(tok *oauth2.Token) time.Duration {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return 0
}

func classifyTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		details := "token endpoint rejected the API key"
		if retrieveErr.Response != nil {
			details = fmt.Sprintf("token endpoint returned %d", retrieveErr.Response.StatusCode)
		}
		if retrieveErr.ErrorCode != "" {
			details += " (" + retrieveErr.ErrorCode + ")"
		}
		return domain.ErrAuthentication.WithDetails(details)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return domain.ErrAuthentication.WithCause(domain.ErrNetwork.WithCause(err))
	}

	return domain.ErrAuthentication.WithCause(err)
}
