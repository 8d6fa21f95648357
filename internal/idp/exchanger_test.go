package idp

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
	"github.com/yndnr/ast-keyaudit/internal/idp/idptest"
)

func newTestExchanger(t *testing.T, fake *idptest.Server) *OAuthExchanger {
	t.Helper()
	e, err := NewEndpoints("https://ast.checkmarx.net", "acme")
	require.NoError(t, err)
	return NewOAuthExchanger(e.TokenURL(), NewHTTPClient(fake.Transport(), nil))
}

func TestOAuthExchanger_Exchange(t *testing.T) {
	fake := idptest.New("acme")
	defer fake.Close()

	grant, err := newTestExchanger(t, fake).Exchange(context.Background(), "my-api-key")
	require.NoError(t, err)

	assert.Equal(t, "tok1", grant.AccessToken)
	assert.Equal(t, 600*time.Second, grant.ExpiresIn)

	forms := fake.TokenForms()
	require.Len(t, forms, 1)
	assert.Equal(t, "refresh_token", forms[0].Get("grant_type"))
	assert.Equal(t, "ast-app", forms[0].Get("client_id"))
	assert.Equal(t, "my-api-key", forms[0].Get("refresh_token"))
	assert.Empty(t, forms[0].Get("client_secret"))
}

func TestOAuthExchanger_ExpiresIn(t *testing.T) {
	tests := []struct {
		name string
		body any
		want time.Duration
	}{
		{"number", map[string]any{"access_token": "t", "expires_in": 300}, 300 * time.Second},
		{"string", map[string]any{"access_token": "t", "expires_in": "120"}, 120 * time.Second},
		{"absent", map[string]any{"access_token": "t"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := idptest.New("acme")
			defer fake.Close()
			fake.SetToken(idptest.Response{Status: http.StatusOK, Body: tt.body})

			grant, err := newTestExchanger(t, fake).Exchange(context.Background(), "k")
			require.NoError(t, err)
			assert.Equal(t, tt.want, grant.ExpiresIn)
		})
	}
}

func TestOAuthExchanger_Failures(t *testing.T) {
	tests := []struct {
		name     string
		resp     idptest.Response
		contains string
	}{
		{
			name:     "invalid grant",
			resp:     idptest.Response{Status: http.StatusBadRequest, Body: map[string]string{"error": "invalid_grant", "error_description": "Offline session not active"}},
			contains: "400 (invalid_grant)",
		},
		{
			name:     "server error",
			resp:     idptest.Response{Status: http.StatusInternalServerError, Body: "{}"},
			contains: "500",
		},
		{
			name:     "missing access token",
			resp:     idptest.Response{Status: http.StatusOK, Body: map[string]any{"expires_in": 600}},
			contains: "access_token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := idptest.New("acme")
			defer fake.Close()
			fake.SetToken(tt.resp)

			_, err := newTestExchanger(t, fake).Exchange(context.Background(), "k")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrAuthentication)
			assert.NotErrorIs(t, err, domain.ErrNetwork)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestOAuthExchanger_NetworkFailure(t *testing.T) {
	fake := idptest.New("acme")
	ex := newTestExchanger(t, fake)
	fake.Close()

	_, err := ex.Exchange(context.Background(), "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}
