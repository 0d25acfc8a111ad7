// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"net/http"

	"github.com/shopthread/community-service/internal/authorization"
	"github.com/shopthread/community-service/internal/types"
)

// ResolverInterface derives the active tenant from an incoming request.
type ResolverInterface interface {
	Resolve(req *http.Request) (*types.Tenant, error)
	Middleware() func(http.Handler) http.Handler
}

// BootstrapInterface provisions users and owners for a tenant.
type BootstrapInterface interface {
	EnsureUser(ctx context.Context, tenantID, email string) (*types.User, error)
	RepairOwner(ctx context.Context, tenantID, fallbackEmail string) (*types.User, error)
}

// GuardInterface gates endpoints on the caller's effective capabilities.
// Satisfied by the identity middleware.
type GuardInterface interface {
	RequireCapability(capability authorization.Capability) func(http.Handler) http.Handler
}

var (
	_ ResolverInterface  = (*Resolver)(nil)
	_ BootstrapInterface = (*Bootstrap)(nil)
)
