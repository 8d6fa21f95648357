// Package buildinfo exposes build information for ast-keyaudit.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/ast-keyaudit/internal/infra/buildinfo.Version=v1.0.0"
//
// GoVersion falls back to the runtime version when not injected.
package buildinfo
