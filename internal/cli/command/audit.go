package command

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/ast-keyaudit/internal/cli/config"
	"github.com/yndnr/ast-keyaudit/internal/core/domain"
	"github.com/yndnr/ast-keyaudit/internal/idp"
	"github.com/yndnr/ast-keyaudit/internal/report"
	"github.com/yndnr/ast-keyaudit/internal/telemetry/logger"
	"github.com/yndnr/ast-keyaudit/internal/telemetry/metric"
)

// Auditor runs one audit with a fixed configuration.
type Auditor struct {
	cfg       *config.Config
	log       logger.Logger
	transport http.RoundTripper
	location  *time.Location
	now       func() time.Time
	metrics   *metric.Registry
}

// AuditorOption configures an Auditor.
type AuditorOption func(*Auditor)

// WithLogger sets the progress and trace logger.
func WithLogger(l logger.Logger) AuditorOption {
	return func(a *Auditor) {
		a.log = l
	}
}

// WithAuditTransport sets the HTTP transport; nil means http.DefaultTransport.
func WithAuditTransport(rt http.RoundTripper) AuditorOption {
	return func(a *Auditor) {
		a.transport = rt
	}
}

// WithReportLocation sets the zone report timestamps are rendered in.
func WithReportLocation(loc *time.Location) AuditorOption {
	return func(a *Auditor) {
		a.location = loc
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AuditorOption {
	return func(a *Auditor) {
		a.now = now
	}
}

// NewAuditor creates an auditor for cfg, which must be valid.
func NewAuditor(cfg *config.Config, opts ...AuditorOption) *Auditor {
	a := &Auditor{
		cfg:      cfg,
		log:      logger.Nop(),
		location: time.Local,
		now:      time.Now,
		metrics:  metric.NewRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Metrics returns the registry the run records into.
func (a *Auditor) Metrics() *metric.Registry {
	return a.metrics
}

// Run resolves the client, lists its API key sessions and writes the report.
// The report file is only touched once the sessions are known. When a
// metrics file is configured it is written on success and on failure.
func (a *Auditor) Run(ctx context.Context) (err error) {
	runID := ulid.Make().String()
	ctx = logger.WithRunID(logger.WithLogger(ctx, a.log), runID)
	trace := logger.L(ctx)

	defer func() {
		if err != nil {
			trace.Debug("Audit failed", "error_code", domain.GetErrorCode(err))
		}
		if werr := a.metrics.WriteTextfile(a.cfg.MetricsFile); werr != nil {
			trace.Warn("Writing metrics file failed", "path", a.cfg.MetricsFile, "error", werr)
			if err == nil {
				err = fmt.Errorf("write metrics file: %w", werr)
			}
		}
	}()

	trace.Debug(fmt.Sprintf("Starting audit with a %d-character API key", len(a.cfg.APIKey)),
		"base_url", a.cfg.BaseURL,
		"tenant", a.cfg.Tenant,
		"output", a.cfg.Output,
		"format", a.cfg.Format,
	)

	endpoints, err := idp.NewEndpoints(a.cfg.BaseURL, a.cfg.Tenant)
	if err != nil {
		return err
	}
	trace.Debug("Token endpoint", "token_url", endpoints.TokenURL())

	formatter, err := report.NewFormatter(a.cfg.ReportFormat(), report.WithLocation(a.location))
	if err != nil {
		return err
	}

	client := idp.NewHTTPClient(a.transport, a.metrics)
	tokens := idp.NewTokenManager(
		idp.NewOAuthExchanger(endpoints.TokenURL(), client),
		a.cfg.APIKey,
		idp.WithClock(a.now),
		idp.WithTokenLogger(trace),
		idp.WithTokenMetrics(a.metrics),
	)
	admin := idp.NewAdminClient(endpoints, tokens, client, trace)

	a.log.Info("Getting client ID...")
	clientID, err := admin.ResolveClientID(ctx)
	if err != nil {
		return err
	}

	a.log.Info("Getting API keys...")
	sessions, err := admin.ListAPIKeySessions(ctx, clientID)
	if err != nil {
		return err
	}

	a.log.Info(fmt.Sprintf("Writing %d API keys to %s...", len(sessions), a.cfg.Output))
	n, err := report.WriteFile(a.cfg.Output, formatter, sessions)
	if err != nil {
		return err
	}

	a.metrics.Exported(n, a.now())
	a.log.Info("Done!")
	return nil
}
