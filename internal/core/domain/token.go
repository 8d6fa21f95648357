// Package domain defines the core domain models for ast-keyaudit.
package domain

import "time"

const (
	// DefaultTokenLifetime applies when the token endpoint omits expires_in.
	DefaultTokenLifetime = 600 * time.Second

	// TokenRefreshMargin is how long before expiry a token stops being reused.
	TokenRefreshMargin = 60 * time.Second
)

// Grant is the outcome of one token endpoint exchange.
type Grant struct {
	AccessToken string
	// ExpiresIn is zero when the endpoint did not say.
	ExpiresIn time.Duration
}

// Lifetime returns the grant lifetime, falling back to DefaultTokenLifetime.
func (g Grant) Lifetime() time.Duration {
	if g.ExpiresIn <= 0 {
		return DefaultTokenLifetime
	}
	return g.ExpiresIn
}

// Token is a bearer token held in memory for the lifetime of one run.
// A refreshed token replaces the old value; tokens are never mutated.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// NewToken builds a token from a grant issued at now.
// ExpiresAt is truncated to whole seconds.
func NewToken(g Grant, now time.Time) *Token {
	return &Token{
		Value:     g.AccessToken,
		ExpiresAt: now.Add(g.Lifetime()).Truncate(time.Second),
	}
}

// UsableAt reports whether the token can still be presented at now,
// i.e. more than TokenRefreshMargin of validity remains.
func (t *Token) UsableAt(now time.Time) bool {
	if t == nil || t.Value == "" {
		return false
	}
	return now.Before(t.ExpiresAt.Add(-TokenRefreshMargin))
}
