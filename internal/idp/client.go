package idp

import (
	"net/http"
	"time"

	"github.com/yndnr/ast-keyaudit/internal/infra/buildinfo"
	"github.com/yndnr/ast-keyaudit/internal/telemetry/metric"
)

// DefaultTimeout bounds every identity provider request.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient returns the client shared by the token exchange and the admin API.
// base may be nil; metrics may be nil.
func NewHTTPClient(base http.RoundTripper, metrics *metric.Registry) *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
		Transport: &userAgentTransport{
			agent: buildinfo.UserAgent(),
			next:  metrics.InstrumentTransport(base),
		},
	}
}

type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(req)
}
