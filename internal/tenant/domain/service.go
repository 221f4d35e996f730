package domain

import (
	"context"
	"errors"
)

// Resolver maps an inbound host header (or a trusted tenant ID) to a tenant.
// A miss is ErrNotFound, never a transport error: callers translate it to 404.
type Resolver interface {
	Resolve(ctx context.Context, hostOrID string) (Tenant, error)
}

var (
	ErrNotFound    = errors.New("tenant_not_found")
	ErrInvalidHost = errors.New("invalid_host")
)
