package idp

import (
	"context"
	"time"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
	"github.com/yndnr/ast-keyaudit/internal/telemetry/logger"
	"github.com/yndnr/ast-keyaudit/internal/telemetry/metric"
)

// TokenManager caches the bearer token obtained for the configured API key.
// It is not safe for concurrent use; the audit pipeline is sequential.
type TokenManager struct {
	exchanger Exchanger
	apiKey    string
	now       func() time.Time
	log       logger.Logger
	metrics   *metric.Registry

	token *domain.Token
}

// TokenOption configures a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) {
		m.now = now
	}
}

// WithTokenLogger sets the logger for the debug trace.
func WithTokenLogger(l logger.Logger) TokenOption {
	return func(m *TokenManager) {
		m.log = l
	}
}

// WithTokenMetrics records exchanges in r.
func WithTokenMetrics(r *metric.Registry) TokenOption {
	return func(m *TokenManager) {
		m.metrics = r
	}
}

// NewTokenManager creates a manager that exchanges apiKey through ex on demand.
func NewTokenManager(ex Exchanger, apiKey string, opts ...TokenOption) *TokenManager {
	m := &TokenManager{
		exchanger: ex,
		apiKey:    apiKey,
		now:       time.Now,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// EnsureAuthenticated makes sure a token with more than a minute of validity is cached.
// It performs at most one exchange and none while the cached token is still usable.
func (m *TokenManager) EnsureAuthenticated(ctx context.Context) error {
	now := m.now()
	if m.token.UsableAt(now) {
		m.log.Debug("Token still valid.")
		return nil
	}

	m.log.Debug("Authenticating with API key...")
	grant, err := m.exchanger.Exchange(ctx, m.apiKey)
	if err != nil {
		m.metrics.TokenExchanged(false)
		if !domain.IsDomainError(err, "") {
			err = domain.ErrAuthentication.WithCause(err)
		}
		return err
	}
	if grant.AccessToken == "" {
		m.metrics.TokenExchanged(false)
		return domain.ErrAuthentication.WithDetails("access token not found in the response")
	}

	m.token = domain.NewToken(grant, now)
	m.metrics.TokenExchanged(true)

	m.log.Debug("Authenticated successfully.", "token_exp", m.token.ExpiresAt.Format(time.RFC3339))
	if info, ok := DescribeToken(grant.AccessToken); ok {
		m.log.Debug("Token principal", "token_user", info.Username, "token_sub", info.Subject, "client", info.ClientID)
	}
	return nil
}

// Token returns a bearer token that is valid for at least another minute.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	if err := m.EnsureAuthenticated(ctx); err != nil {
		return "", err
	}
	return m.token.Value, nil
}

// Current returns the cached token, nil before the first exchange.
func (m *TokenManager) Current() *domain.Token {
	return m.token
}
