package idp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
	"github.com/yndnr/ast-keyaudit/internal/telemetry/metric"
)

// fakeClock is a settable clock for the refresh margin tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newManager(t *testing.T, ex Exchanger, clock *fakeClock) *TokenManager {
	t.Helper()
	return NewTokenManager(ex, "api-key", WithClock(clock.Now))
}

func TestTokenManager_FirstCallAuthenticates(t *testing.T) {
	ctrl := gomock.NewController(t)
	ex := NewMockExchanger(ctrl)
	clock := &fakeClock{now: time.Unix(1_000_000, 0)}

	ex.EXPECT().Exchange(gomock.Any(), "api-key").Return(domain.Grant{AccessToken: "tok1", ExpiresIn: 600 * time.Second}, nil).Times(1)

	m := newManager(t, ex, clock)
	require.Nil(t, m.Current())

	tok, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok1", tok)
	assert.Equal(t, clock.now.Add(600*time.Second), m.Current().ExpiresAt)
}

func TestTokenManager_ValidTokenSkipsNetwork(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
	}{
		{"immediately", 0},
		{"after 5 minutes", 5 * time.Minute},
		{"61 seconds before expiry", 600*time.Second - 61*time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ex := NewMockExchanger(ctrl)
			clock := &fakeClock{now: time.Unix(1_000_000, 0)}

			ex.EXPECT().Exchange(gomock.Any(), gomock.Any()).Return(domain.Grant{AccessToken: "tok1", ExpiresIn: 600 * time.Second}, nil).Times(1)

			m := newManager(t, ex, clock)
			require.NoError(t, m.EnsureAuthenticated(context.Background()))
			first := m.Current()

			clock.Advance(tt.advance)
			require.NoError(t, m.EnsureAuthenticated(context.Background()))
			assert.Same(t, first, m.Current())
		})
	}
}

func TestTokenManager_ExpiringTokenIsReplaced(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
	}{
		{"exactly 60 seconds left", 540 * time.Second},
		{"30 seconds left", 570 * time.Second},
		{"expired", time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ex := NewMockExchanger(ctrl)
			clock := &fakeClock{now: time.Unix(1_000_000, 0)}

			gomock.InOrder(
				ex.EXPECT().Exchange(gomock.Any(), "api-key").Return(domain.Grant{AccessToken: "tok1", ExpiresIn: 600 * time.Second}, nil),
				ex.EXPECT().Exchange(gomock.Any(), "api-key").Return(domain.Grant{AccessToken: "tok2", ExpiresIn: 600 * time.Second}, nil),
			)

			m := newManager(t, ex, clock)
			require.NoError(t, m.EnsureAuthenticated(context.Background()))
			first := m.Current()

			clock.Advance(tt.advance)
			tok, err := m.Token(context.Background())
			require.NoError(t, err)

			assert.Equal(t, "tok2", tok)
			assert.NotSame(t, first, m.Current())
			assert.Equal(t, "tok1", first.Value, "old token must not be mutated")
			assert.Equal(t, clock.now.Add(600*time.Second), m.Current().ExpiresAt)
		})
	}
}

func TestTokenManager_DefaultLifetime(t *testing.T) {
	ctrl := gomock.NewController(t)
	ex := NewMockExchanger(ctrl)
	clock := &fakeClock{now: time.Unix(1_000_000, 0)}

	ex.EXPECT().Exchange(gomock.Any(), gomock.Any()).Return(domain.Grant{AccessToken: "tok1"}, nil)

	m := newManager(t, ex, clock)
	require.NoError(t, m.EnsureAuthenticated(context.Background()))
	assert.Equal(t, clock.now.Add(domain.DefaultTokenLifetime), m.Current().ExpiresAt)
}

func TestTokenManager_Failures(t *testing.T) {
	tests := []struct {
		name  string
		grant domain.Grant
		err   error
		isNet bool
	}{
		{"plain error is wrapped", domain.Grant{}, errors.New("boom"), false},
		{"domain error kept", domain.Grant{}, domain.ErrAuthentication.WithCause(domain.ErrNetwork), true},
		{"empty access token", domain.Grant{ExpiresIn: time.Minute}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ex := NewMockExchanger(ctrl)
			clock := &fakeClock{now: time.Unix(1_000_000, 0)}
			reg := metric.NewRegistry()

			ex.EXPECT().Exchange(gomock.Any(), gomock.Any()).Return(tt.grant, tt.err)

			m := NewTokenManager(ex, "api-key", WithClock(clock.Now), WithTokenMetrics(reg))
			_, err := m.Token(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrAuthentication)
			assert.Equal(t, tt.isNet, errors.Is(err, domain.ErrNetwork))
			assert.Nil(t, m.Current())
			assert.Equal(t, 1.0, testutil.ToFloat64(reg.TokenExchanges.WithLabelValues("error")))
		})
	}
}

func TestTokenManager_RecordsExchanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	ex := NewMockExchanger(ctrl)
	clock := &fakeClock{now: time.Unix(1_000_000, 0)}
	reg := metric.NewRegistry()

	ex.EXPECT().Exchange(gomock.Any(), gomock.Any()).Return(domain.Grant{AccessToken: "tok1", ExpiresIn: 600 * time.Second}, nil).Times(2)

	m := NewTokenManager(ex, "api-key", WithClock(clock.Now), WithTokenMetrics(reg))
	for i := 0; i < 3; i++ {
		require.NoError(t, m.EnsureAuthenticated(context.Background()))
	}
	clock.Advance(10 * time.Minute)
	require.NoError(t, m.EnsureAuthenticated(context.Background()))

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.TokenExchanges.WithLabelValues("ok")))
}
