// Package confloader merges configuration from several sources with koanf.
//
// Priority (highest to lowest):
//
//  1. Explicitly set command-line flags
//  2. Environment variables (after an optional dotenv file is applied)
//  3. The YAML configuration file
//  4. Defaults
//
// Keys are flat snake_case names such as base_url. The environment
// variable for a key is the prefix followed by the upper-cased key,
// e.g. KEYAUDIT_BASE_URL.
package confloader
