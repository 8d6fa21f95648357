// Package domain defines the core domain models for ast-keyaudit.
//
// Domain models are plain values without IO dependencies:
//
//   - session.go: offline session records as reported by the identity provider
//   - token.go: bearer token, token grant and expiry checks
//   - errors.go: DomainError and the failure taxonomy
package domain
