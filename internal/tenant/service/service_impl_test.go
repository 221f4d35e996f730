package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/bookline/internal/config"
	"github.com/smallbiznis/bookline/internal/tenant/domain"
	"github.com/smallbiznis/bookline/internal/tenant/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupResolverTest(t *testing.T) (*gorm.DB, domain.Resolver, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.Tenant{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	cfg := config.Config{
		PlatformDomain: "bookline.site",
		Intake:         config.IntakeConfig{TenantCacheTTL: time.Minute},
	}
	resolver := New(Params{Cfg: cfg, DB: db, Log: zap.NewNop(), Repo: repository.Provide()})
	return db, resolver, node
}

func createTenant(t *testing.T, db *gorm.DB, tenant domain.Tenant) domain.Tenant {
	t.Helper()
	assert.NoError(t, db.Create(&tenant).Error)
	return tenant
}

func TestResolveByPlatformSubdomain(t *testing.T) {
	db, resolver, node := setupResolverTest(t)
	created := createTenant(t, db, domain.Tenant{
		ID: node.Generate(), Subdomain: "acme", IsActive: true,
	})

	tenant, err := resolver.Resolve(context.Background(), "acme.bookline.site")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, tenant.ID)

	// Scheme, port and www are stripped before matching.
	tenant, err = resolver.Resolve(context.Background(), "https://www.acme.bookline.site:443/booking")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, tenant.ID)
}

func TestResolveByCustomDomain(t *testing.T) {
	db, resolver, node := setupResolverTest(t)
	created := createTenant(t, db, domain.Tenant{
		ID: node.Generate(), Subdomain: "acme",
		Domain:   "booking.acme.com",
		IsActive: true,
	})

	tenant, err := resolver.Resolve(context.Background(), "Booking.ACME.com")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, tenant.ID)
}

func TestResolveByAlternateDomain(t *testing.T) {
	db, resolver, node := setupResolverTest(t)
	created := createTenant(t, db, domain.Tenant{
		ID: node.Generate(), Subdomain: "acme",
		Domain:           "booking.acme.com",
		AlternateDomains: datatypes.NewJSONSlice([]string{"acme-booking.com"}),
		IsActive:         true,
	})

	tenant, err := resolver.Resolve(context.Background(), "acme-booking.com")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, tenant.ID)
}

func TestResolveByTrustedID(t *testing.T) {
	db, resolver, node := setupResolverTest(t)
	created := createTenant(t, db, domain.Tenant{
		ID: node.Generate(), Subdomain: "acme", IsActive: true,
	})

	tenant, err := resolver.Resolve(context.Background(), created.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, created.ID, tenant.ID)
}

func TestResolveUnknownAndInactive(t *testing.T) {
	db, resolver, node := setupResolverTest(t)
	createTenant(t, db, domain.Tenant{
		ID: node.Generate(), Subdomain: "dormant", IsActive: false,
	})

	_, err := resolver.Resolve(context.Background(), "nobody.bookline.site")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Inactive tenants resolve exactly like missing ones.
	_, err = resolver.Resolve(context.Background(), "dormant.bookline.site")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveInvalidHost(t *testing.T) {
	_, resolver, _ := setupResolverTest(t)

	_, err := resolver.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidHost)

	_, err = resolver.Resolve(context.Background(), "localhost")
	assert.ErrorIs(t, err, domain.ErrInvalidHost)
}

func TestResolveServesCachedTenantAfterDeactivation(t *testing.T) {
	db, resolver, node := setupResolverTest(t)
	created := createTenant(t, db, domain.Tenant{
		ID: node.Generate(), Subdomain: "acme", IsActive: true,
	})

	_, err := resolver.Resolve(context.Background(), "acme.bookline.site")
	assert.NoError(t, err)

	// Deactivate behind the cache's back; within the TTL the stale entry
	// still serves.
	assert.NoError(t, db.Model(&domain.Tenant{}).
		Where("id = ?", created.ID).
		Update("is_active", false).Error)

	tenant, err := resolver.Resolve(context.Background(), "acme.bookline.site")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, tenant.ID)
}

func TestNormalizeHost(t *testing.T) {
	host, ok := normalizeHost("HTTPS://WWW.Example.COM:8443/path?q=1")
	assert.True(t, ok)
	assert.Equal(t, "example.com", host)

	_, ok = normalizeHost("nodots")
	assert.False(t, ok)
}
