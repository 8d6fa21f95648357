package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
	"github.com/yndnr/ast-keyaudit/internal/telemetry/logger"
)

// TokenSource hands out bearer tokens for admin calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// AdminClient reads from the Keycloak admin API of one tenant realm.
type AdminClient struct {
	endpoints *Endpoints
	tokens    TokenSource
	client    *http.Client
	log       logger.Logger
}

// NewAdminClient creates an admin API client. A nil client means http.DefaultClient.
func NewAdminClient(endpoints *Endpoints, tokens TokenSource, client *http.Client, log logger.Logger) *AdminClient {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AdminClient{
		endpoints: endpoints,
		tokens:    tokens,
		client:    client,
		log:       log,
	}
}

type clientRepresentation struct {
	ID       string `json:"id"`
	ClientID string `json:"clientId"`
}

// ResolveClientID returns the internal id of the ast-app client.
// Transport failures are NetworkErrors; everything else, including an empty
// result, is a LookupError.
func (c *AdminClient) ResolveClientID(ctx context.Context) (string, error) {
	c.log.Debug("Getting client ID for " + ClientID + "...")

	var clients []clientRepresentation
	if err := c.getJSON(ctx, c.endpoints.ClientsURL(), &clients); err != nil {
		return "", err
	}
	if len(clients) == 0 {
		return "", domain.ErrLookup.WithDetailsf("no clients found with clientId=%s", ClientID)
	}

	id := clients[0].ID
	if id == "" {
		return "", domain.ErrLookup.WithDetails("client ID not found in response")
	}

	c.log.Debug("Found client ID: "+id, "client_id", id)
	return id, nil
}

// ListAPIKeySessions returns the offline sessions of clientID in server order.
// The single page the server returns is the whole result.
func (c *AdminClient) ListAPIKeySessions(ctx context.Context, clientID string) ([]domain.Session, error) {
	c.log.Debug("Getting API keys...")

	var sessions []domain.Session
	if err := c.getJSON(ctx, c.endpoints.OfflineSessionsURL(clientID), &sessions); err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}

	c.log.Debug(fmt.Sprintf("Found %d API keys", len(sessions)), "key_count", len(sessions))
	return sessions, nil
}

// getJSON performs an authenticated GET and decodes the JSON body into target.
func (c *AdminClient) getJSON(ctx context.Context, rawURL string, target any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.ErrLookup.WithDetailsf("create request for %s", rawURL).WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.ErrNetwork.WithDetailsf("GET %s", rawURL).WithCause(err)
	}
	return parseResponse(resp, target)
}

// parseResponse parses a JSON response body into the target.
func parseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keycloak error bodies: {"error":"...","error_description":"..."}
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		details := fmt.Sprintf("%s %s returned %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode)
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			details += ": " + errResp.Error
			if errResp.Description != "" {
				details += " (" + errResp.Description + ")"
			}
		}
		return domain.ErrLookup.WithDetails(details)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return domain.ErrLookup.WithDetailsf("parse response of %s", resp.Request.URL.Path).WithCause(err)
	}
	return nil
}
