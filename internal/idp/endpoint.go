package idp

import (
	"net/url"
	"strings"

	"github.com/yndnr/ast-keyaudit/internal/core/domain"
)

const (
	// PlatformSuffix is the host suffix of tenant-facing platform URLs.
	PlatformSuffix = "ast.checkmarx.net"

	// IAMSuffix replaces PlatformSuffix to reach the identity provider.
	IAMSuffix = "iam.checkmarx.net"

	// ClientID is the public client the API keys are issued for.
	ClientID = "ast-app"
)

// Endpoints holds the identity provider URLs of one tenant.
type Endpoints struct {
	IAMBase string
	Tenant  string
}

// NewEndpoints derives the identity provider endpoints from the tenant-facing base URL.
func NewEndpoints(baseURL, tenant string) (*Endpoints, error) {
	iamBase, err := DeriveIAMBase(baseURL)
	if err != nil {
		return nil, err
	}
	tenant = strings.TrimSpace(tenant)
	if tenant == "" {
		return nil, domain.ErrConfiguration.WithDetails("tenant is empty")
	}
	return &Endpoints{IAMBase: iamBase, Tenant: tenant}, nil
}

// DeriveIAMBase maps https://[region.]ast.checkmarx.net to https://[region.]iam.checkmarx.net.
// Path, query and trailing slashes of the input are dropped.
func DeriveIAMBase(baseURL string) (string, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return "", domain.ErrConfiguration.WithDetails("base URL is empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", domain.ErrConfiguration.WithDetailsf("invalid base URL %q", baseURL).WithCause(err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", domain.ErrConfiguration.WithDetailsf("base URL %q must start with https://", baseURL)
	}
	if u.Host == "" || !strings.Contains(u.Host, PlatformSuffix) {
		return "", domain.ErrConfiguration.WithDetailsf("base URL %q is not a %s URL", baseURL, PlatformSuffix)
	}

	host := strings.Replace(u.Host, PlatformSuffix, IAMSuffix, 1)
	return u.Scheme + "://" + host, nil
}

func (e *Endpoints) realm() string {
	return "/realms/" + url.PathEscape(e.Tenant)
}

// TokenURL returns the OpenID Connect token endpoint of the tenant realm.
func (e *Endpoints) TokenURL() string {
	return e.IAMBase + "/auth" + e.realm() + "/protocol/openid-connect/token"
}

// ClientsURL returns the admin endpoint listing clients whose clientId is ClientID.
func (e *Endpoints) ClientsURL() string {
	q := url.Values{"clientId": {ClientID}}
	return e.IAMBase + "/auth/admin" + e.realm() + "/clients?" + q.Encode()
}

// OfflineSessionsURL returns the admin endpoint listing offline sessions of a client.
func (e *Endpoints) OfflineSessionsURL(clientID string) string {
	return e.IAMBase + "/auth/admin" + e.realm() + "/clients/" + url.PathEscape(clientID) + "/offline-sessions"
}
