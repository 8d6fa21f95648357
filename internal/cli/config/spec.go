package config

import (
	"strings"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
	"github.com/yndnr/ast-keyaudit/internal/report"
)

// Config is the configuration of one audit run. It is not modified after Load.
type Config struct {
	BaseURL     string `koanf:"base_url" yaml:"base_url"`
	Tenant      string `koanf:"tenant" yaml:"tenant"`
	APIKey      string `koanf:"api_key" yaml:"api_key"`
	Output      string `koanf:"output" yaml:"output"`
	Format      string `koanf:"format" yaml:"format"`
	Debug       bool   `koanf:"debug" yaml:"debug"`
	MetricsFile string `koanf:"metrics_file" yaml:"metrics_file"`

	// Where the values came from; set by Load, never read from sources.
	ConfigFile string `koanf:"-" yaml:"-"`
	EnvFile    string `koanf:"-" yaml:"-"`
}

const (
	DefaultOutput  = "api_keys.csv"
	DefaultEnvFile = ".env"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: DefaultOutput,
		Format: string(report.FormatCSV),
	}
}

// defaultValues is Default as a koanf map.
func defaultValues() map[string]any {
	d := Default()
	return map[string]any{
		"output": d.Output,
		"format": d.Format,
		"debug":  d.Debug,
	}
}

// Validate returns a ConfigurationError naming every missing required value,
// or the unknown report format.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.BaseURL) == "" {
		missing = append(missing, "base-url")
	}
	if strings.TrimSpace(c.Tenant) == "" {
		missing = append(missing, "tenant")
	}
	if c.APIKey == "" {
		missing = append(missing, "api-key")
	}
	if strings.TrimSpace(c.Output) == "" {
		missing = append(missing, "output")
	}
	if len(missing) > 0 {
		return domain.ErrConfiguration.WithDetailsf("missing required %s", strings.Join(missing, ", "))
	}

	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}
	return nil
}

// ReportFormat returns the parsed report format. Call after Validate.
func (c *Config) ReportFormat() report.Format {
	f, _ := report.ParseFormat(c.Format)
	return f
}
