package origin

import (
	"testing"

	"github.com/smallbiznis/bookline/internal/config"
	tenantdomain "github.com/smallbiznis/bookline/internal/tenant/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func testGuard() *Guard {
	return New(config.Config{PlatformDomain: "bookline.site"})
}

func testTenant() tenantdomain.Tenant {
	return tenantdomain.Tenant{
		Subdomain:        "mytenant",
		Domain:           "mytenant.example.com",
		AlternateDomains: datatypes.NewJSONSlice([]string{"alt.example.org"}),
	}
}

func TestAllowedCaseAndSchemeInsensitive(t *testing.T) {
	guard := testGuard()
	tenant := testTenant()

	assert.True(t, guard.Allowed("https://mytenant.example.com", tenant))
	assert.True(t, guard.Allowed("HTTPS://MyTenant.Example.Com", tenant))
	assert.True(t, guard.Allowed("http://mytenant.example.com:8080", tenant), "port is ignored")
	assert.True(t, guard.Allowed("mytenant.example.com", tenant), "bare hostname")
}

func TestAllowedHostSet(t *testing.T) {
	guard := testGuard()
	tenant := testTenant()

	assert.True(t, guard.Allowed("https://www.mytenant.example.com", tenant))
	assert.True(t, guard.Allowed("https://mytenant.bookline.site", tenant), "platform subdomain")
	assert.True(t, guard.Allowed("https://alt.example.org", tenant), "alternate domain")

	assert.False(t, guard.Allowed("https://othertenant.example.com", tenant))
	assert.False(t, guard.Allowed("https://mytenant.example.com.evil.com", tenant))
	assert.False(t, guard.Allowed("https://evil.bookline.site", tenant))
}

func TestAllowedRejectsEmptyAndNull(t *testing.T) {
	guard := testGuard()
	tenant := testTenant()

	assert.False(t, guard.Allowed("", tenant))
	assert.False(t, guard.Allowed("null", tenant))
}

func TestHeadersOnlyForAllowedOrigins(t *testing.T) {
	guard := testGuard()
	tenant := testTenant()

	headers := guard.Headers("https://mytenant.example.com", tenant)
	assert.NotNil(t, headers)
	assert.Equal(t, "https://mytenant.example.com", headers.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", headers.Get("Vary"))

	assert.Nil(t, guard.Headers("https://evil.example.com", tenant))
	assert.Nil(t, guard.Headers("", tenant))
}

func TestHostname(t *testing.T) {
	host, ok := Hostname("HTTPS://Foo.Example.com:443/path")
	assert.True(t, ok)
	assert.Equal(t, "foo.example.com", host)

	_, ok = Hostname("null")
	assert.False(t, ok)

	_, ok = Hostname("   ")
	assert.False(t, ok)
}
