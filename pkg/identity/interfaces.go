// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"context"
	"net/http"

	"github.com/shopthread/community-service/internal/authorization"
	"github.com/shopthread/community-service/internal/types"
)

// ResolverInterface turns request credentials into an AuthContext.
type ResolverInterface interface {
	Resolve(req *http.Request) (*types.AuthContext, error)
	Capabilities(ctx context.Context, actx *types.AuthContext) (authorization.CapabilitySet, error)
}

var _ ResolverInterface = (*Resolver)(nil)
