package idp

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the debug trace shows about an access token.
type TokenInfo struct {
	Subject   string
	Username  string
	Issuer    string
	ClientID  string
	ExpiresAt time.Time
}

// DescribeToken reads the claims of a JWT access token without verifying it.
// The claims are only logged, never trusted. Opaque tokens return false.
func DescribeToken(raw string) (TokenInfo, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return TokenInfo{}, false
	}

	var info TokenInfo
	info.Subject, _ = claims.GetSubject()
	info.Issuer, _ = claims.GetIssuer()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	info.Username, _ = claims["preferred_username"].(string)
	info.ClientID, _ = claims["azp"].(string)
	return info, true
}
