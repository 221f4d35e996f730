package origin

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/smallbiznis/bookline/internal/config"
	tenantdomain "github.com/smallbiznis/bookline/internal/tenant/domain"
	"go.uber.org/fx"
)

// Guard decides whether a declared Origin is trusted for a tenant and builds
// the CORS headers issued back to trusted callers. An absent origin is not a
// denial here; whether that is acceptable is the orchestrator's call.
type Guard struct {
	platformDomain string
}

func New(cfg config.Config) *Guard {
	return &Guard{platformDomain: cfg.PlatformDomain}
}

var Module = fx.Module("origin.guard",
	fx.Provide(New),
)

// Allowed reports whether the origin's hostname matches the tenant's primary
// domain, its platform subdomain, or any configured alternate. The comparison
// ignores scheme, port and case.
func (g *Guard) Allowed(originHeader string, tenant tenantdomain.Tenant) bool {
	host, ok := Hostname(originHeader)
	if !ok {
		return false
	}
	for _, allowed := range g.allowedHosts(tenant) {
		if host == allowed {
			return true
		}
	}
	return false
}

// Headers returns the CORS response headers for a trusted origin, or nil when
// the origin is not allowed. Callers must not emit any CORS header on nil.
func (g *Guard) Headers(originHeader string, tenant tenantdomain.Tenant) http.Header {
	if !g.Allowed(originHeader, tenant) {
		return nil
	}
	headers := http.Header{}
	headers.Set("Access-Control-Allow-Origin", strings.TrimSpace(originHeader))
	headers.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	headers.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	headers.Set("Access-Control-Max-Age", "600")
	headers.Set("Vary", "Origin")
	return headers
}

func (g *Guard) allowedHosts(tenant tenantdomain.Tenant) []string {
	hosts := make([]string, 0, 3+len(tenant.AlternateDomains))
	if subdomain := strings.ToLower(strings.TrimSpace(tenant.Subdomain)); subdomain != "" && g.platformDomain != "" {
		hosts = append(hosts, subdomain+"."+g.platformDomain)
	}
	if primary := strings.ToLower(strings.TrimSpace(tenant.Domain)); primary != "" {
		hosts = append(hosts, primary, "www."+primary)
	}
	for _, alternate := range tenant.AlternateDomains {
		if alt := strings.ToLower(strings.TrimSpace(alternate)); alt != "" {
			hosts = append(hosts, alt)
		}
	}
	return hosts
}

// Hostname extracts the lowercased hostname from an Origin header value.
func Hostname(originHeader string) (string, bool) {
	origin := strings.ToLower(strings.TrimSpace(originHeader))
	if origin == "" || origin == "null" {
		return "", false
	}
	if !strings.Contains(origin, "://") {
		origin = "https://" + origin
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}
	host := parsed.Hostname()
	if host == "" {
		return "", false
	}
	return host, true
}
