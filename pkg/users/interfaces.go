// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package users

import (
	"context"
	"net/http"

	"github.com/shopthread/community-service/internal/authorization"
	"github.com/shopthread/community-service/internal/types"
)

// ServiceInterface covers the member-facing user operations.
type ServiceInterface interface {
	ListUsers(ctx context.Context, tenantID string) ([]*types.User, error)
	SetBanned(ctx context.Context, actor *types.AuthContext, targetID string, banned bool) (*types.User, error)
}

// StorageInterface is the slice of the tenant store this package needs.
type StorageInterface interface {
	GetUserByID(ctx context.Context, tenantID, userID string) (*types.User, error)
	ListUsersByTenant(ctx context.Context, tenantID string) ([]*types.User, error)
	SetUserBanned(ctx context.Context, tenantID, userID string, banned bool) error
}

// GuardInterface gates endpoints on the caller's effective capabilities.
// Satisfied by the identity middleware.
type GuardInterface interface {
	RequireCapability(capability authorization.Capability) func(http.Handler) http.Handler
}

var _ ServiceInterface = (*Service)(nil)
