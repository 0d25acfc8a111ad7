// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"context"

	"github.com/shopthread/community-service/internal/types"
)

type contextKey struct{}

// WithAuthContext attaches the resolved identity to ctx.
func WithAuthContext(ctx context.Context, actx *types.AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, actx)
}

// FromContext returns the identity attached by the authentication middleware.
func FromContext(ctx context.Context) (*types.AuthContext, bool) {
	actx, ok := ctx.Value(contextKey{}).(*types.AuthContext)
	return actx, ok
}
