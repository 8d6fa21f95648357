// Package logger provides leveled logging for ast-keyaudit.
//
// This package wraps zerolog behind a small key/value interface:
//
//   - logger.go: Logger interface, zerolog-backed implementation, package default
//   - context.go: logger and run id propagation through context.Context
//   - redact.go: redaction of secrets (API keys, bearer tokens) in log fields
//
// Progress lines are written at info level; --debug lowers the level to debug,
// which adds the step-by-step trace without changing behaviour.
package logger
