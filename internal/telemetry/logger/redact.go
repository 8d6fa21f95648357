// Package logger provides leveled logging for ast-keyaudit.
package logger

import (
	"fmt"
	"strings"
)

// Key patterns whose values never reach the log.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"key",
	"credential",
	"authorization",
	"bearer",
}

// Keys that match a pattern but only carry identifiers.
var allowedKeys = map[string]bool{
	"key_count":  true,
	"token_url":  true,
	"token_sub":  true,
	"token_user": true,
	"token_exp":  true,
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactValue returns value, or a mask when key suggests a secret.
// Empty values are kept so a missing credential stays visible.
func redactValue(key string, value any) any {
	keyLower := strings.ToLower(key)
	if allowedKeys[keyLower] {
		return value
	}
	for _, pattern := range sensitiveKeyPatterns {
		if !strings.Contains(keyLower, pattern) {
			continue
		}
		if s := fmt.Sprint(value); s == "" || value == nil {
			return value
		}
		return redactedValue
	}
	return value
}
