package command

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ast-keyaudit/internal/cli/config"
	"github.com/yndnr/ast-keyaudit/internal/infra/buildinfo"
	"github.com/yndnr/ast-keyaudit/internal/telemetry/logger"
)

// Option customizes the application, mostly for tests.
type Option func(*appOptions)

type appOptions struct {
	transport http.RoundTripper
	location  *time.Location
	stdout    io.Writer
	now       func() time.Time
}

// WithTransport sets the HTTP transport used for identity provider calls.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *appOptions) {
		o.transport = rt
	}
}

// WithLocation sets the zone report timestamps are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(o *appOptions) {
		o.location = loc
	}
}

// WithOutput sets where progress lines go. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *appOptions) {
		o.stdout = w
	}
}

// WithNow replaces time.Now.
func WithNow(now func() time.Time) Option {
	return func(o *appOptions) {
		o.now = now
	}
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"base-url":     "base_url",
	"tenant":       "tenant",
	"api-key":      "api_key",
	"output":       "output",
	"format":       "format",
	"debug":        "debug",
	"metrics-file": "metrics_file",
}

// App creates the CLI application.
func App(opts ...Option) *cli.App {
	o := appOptions{
		location: time.Local,
		stdout:   os.Stdout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &cli.App{
		Name:      "ast-keyaudit",
		Usage:     "Export the active API keys of a tenant to a report",
		UsageText: "ast-keyaudit --base-url URL --tenant NAME --api-key KEY [--output api_keys.csv]",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Writer:    o.stdout,
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(explicitFlags(c), c.String("config"), c.String("env-file"))
			if err != nil {
				return err
			}

			auditor := NewAuditor(cfg,
				WithLogger(newLogger(o.stdout, cfg.Debug)),
				WithAuditTransport(o.transport),
				WithReportLocation(o.location),
				WithClock(o.now),
			)
			return auditor.Run(c.Context)
		},
	}
}

// globalFlags returns the CLI flags. Environment variables are read by the
// config loader, not by the flags, so that precedence stays in one place.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "tenant platform URL, e.g. https://ast.checkmarx.net (env KEYAUDIT_BASE_URL)",
		},
		&cli.StringFlag{
			Name:  "tenant",
			Usage: "tenant (realm) name (env KEYAUDIT_TENANT)",
		},
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "API key used to authenticate (env KEYAUDIT_API_KEY)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "report destination (env KEYAUDIT_OUTPUT)",
			Value:   config.DefaultOutput,
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "report format: csv, json, yaml, table (env KEYAUDIT_FORMAT)",
			Value:   "csv",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "print trace lines (env KEYAUDIT_DEBUG)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "dotenv file applied to the environment, ignored when absent",
			Value: config.DefaultEnvFile,
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "write run metrics in Prometheus text format to this file (env KEYAUDIT_METRICS_FILE)",
		},
	}
}

// explicitFlags returns the flags set on the command line, keyed for the
// config loader. Flag defaults are left to the loader's defaults.
func explicitFlags(c *cli.Context) map[string]any {
	flags := make(map[string]any)
	for name, key := range flagKeys {
		if !c.IsSet(name) {
			continue
		}
		if name == "debug" {
			flags[key] = c.Bool(name)
			continue
		}
		flags[key] = c.String(name)
	}
	return flags
}

func newLogger(w io.Writer, debug bool) logger.Logger {
	cfg := logger.DefaultConfig()
	cfg.Output = w
	cfg.NoColor = w != os.Stdout
	if debug {
		cfg.Level = "debug"
	}
	return logger.New(cfg)
}
