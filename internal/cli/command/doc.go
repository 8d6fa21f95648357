// Package command provides the ast-keyaudit command line.
//
//   - root.go: the urfave/cli application, flags and config loading
//   - audit.go: the audit pipeline run by the application
//
// A run resolves the ast-app client of the tenant realm, lists its offline
// sessions (one per active API key) and writes them to the report file.
// Any failure ends the run; main maps it to exit status 1.
package command
