package config

import (
	"github.com/yndnr/ast-keyaudit/internal/core/domain"
	"github.com/yndnr/ast-keyaudit/internal/infra/confloader"
)

// Load merges configuration with priority flags > KEYAUDIT_* env > configFile > defaults
// and validates the result.
//
// flags holds the flags the user set explicitly, keyed like the koanf tags.
// envFile is applied to the environment first and ignored when absent;
// configFile must exist when given.
func Load(flags map[string]any, configFile, envFile string) (*Config, error) {
	l := confloader.NewLoader(
		confloader.WithDefaults(defaultValues()),
		confloader.WithConfigFile(configFile),
		confloader.WithEnvFile(envFile),
	)

	cfg := &Config{}
	if err := l.Load(cfg, flags); err != nil {
		return nil, domain.ErrConfiguration.WithCause(err)
	}
	cfg.ConfigFile = configFile
	cfg.EnvFile = envFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
