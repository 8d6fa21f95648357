// Package config provides the ast-keyaudit run configuration.
//
//   - spec.go: Config struct, defaults and validation
//   - loader.go: merging flags, environment, dotenv and YAML file
package config
