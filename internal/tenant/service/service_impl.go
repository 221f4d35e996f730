package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/cache"
	"github.com/smallbiznis/bookline/internal/config"
	"github.com/smallbiznis/bookline/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg  config.Config
	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	cfg   config.Config
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	cache cache.Cache[string, domain.Tenant]
}

func New(p Params) domain.Resolver {
	return &Service{
		cfg:   p.Cfg,
		db:    p.DB,
		log:   p.Log.Named("tenant.resolver"),
		repo:  p.Repo,
		cache: cache.NewTTLCache[string, domain.Tenant](),
	}
}

// Resolve maps a trusted tenant ID or a raw host header to an active tenant.
// Cached entries may serve up to the configured TTL after deactivation; that
// staleness is an accepted tradeoff, there is no explicit invalidation.
func (s *Service) Resolve(ctx context.Context, hostOrID string) (domain.Tenant, error) {
	value := strings.TrimSpace(hostOrID)
	if value == "" {
		return domain.Tenant{}, domain.ErrInvalidHost
	}

	if id, err := snowflake.ParseString(value); err == nil && id != 0 {
		return s.resolveByID(ctx, id)
	}

	host, ok := normalizeHost(value)
	if !ok {
		return domain.Tenant{}, domain.ErrInvalidHost
	}

	if tenant, hit := s.cache.Get(host); hit {
		return tenant, nil
	}

	tenant, err := s.lookup(ctx, host)
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant == nil {
		return domain.Tenant{}, domain.ErrNotFound
	}

	s.cache.Set(host, *tenant, s.cfg.Intake.TenantCacheTTL)
	return *tenant, nil
}

func (s *Service) resolveByID(ctx context.Context, id snowflake.ID) (domain.Tenant, error) {
	key := "id:" + id.String()
	if tenant, hit := s.cache.Get(key); hit {
		return tenant, nil
	}

	tenant, err := s.repo.FindActiveByID(ctx, s.db, id)
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant == nil {
		return domain.Tenant{}, domain.ErrNotFound
	}

	s.cache.Set(key, *tenant, s.cfg.Intake.TenantCacheTTL)
	return *tenant, nil
}

func (s *Service) lookup(ctx context.Context, host string) (*domain.Tenant, error) {
	suffix := "." + s.cfg.PlatformDomain
	if strings.HasSuffix(host, suffix) {
		subdomain := strings.TrimSuffix(host, suffix)
		if subdomain == "" || strings.Contains(subdomain, ".") {
			return nil, nil
		}
		return s.repo.FindActiveBySubdomain(ctx, s.db, subdomain)
	}
	return s.repo.FindActiveByDomain(ctx, s.db, host)
}

// normalizeHost strips scheme, port and a leading www. and lowercases the rest.
func normalizeHost(raw string) (string, bool) {
	host := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.Index(host, "://"); idx >= 0 {
		host = host[idx+3:]
	}
	if idx := strings.IndexAny(host, "/?#"); idx >= 0 {
		host = host[:idx]
	}
	if idx := strings.LastIndex(host, ":"); idx >= 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")
	if host == "" || !strings.Contains(host, ".") {
		return "", false
	}
	return host, true
}
