// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"

	"github.com/shopthread/community-service/internal/types"
)

// Define a private custom type to avoid collisions
type contextKey struct{}

var tenantContextKey = contextKey{}

// WithTenant returns a new context carrying the resolved tenant.
func WithTenant(ctx context.Context, t *types.Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey, t)
}

// FromContext retrieves the resolved tenant from the context.
func FromContext(ctx context.Context) (*types.Tenant, bool) {
	t, ok := ctx.Value(tenantContextKey).(*types.Tenant)
	return t, ok
}
