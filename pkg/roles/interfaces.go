// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package roles

import (
	"context"
	"net/http"

	"github.com/shopthread/community-service/internal/authorization"
	"github.com/shopthread/community-service/internal/types"
)

// ServiceInterface covers role-change application and custom-role management.
type ServiceInterface interface {
	ChangeRole(ctx context.Context, actor *types.AuthContext, targetID string, requested types.Role) (*types.User, error)
	AssignCustomRole(ctx context.Context, actor *types.AuthContext, targetID, roleID string) error
	ListRoles(ctx context.Context, tenantID string) ([]*types.CustomRole, error)
	CreateRole(ctx context.Context, tenantID string, params RoleParams) (*types.CustomRole, error)
	UpdateRole(ctx context.Context, tenantID, roleID string, params RoleParams, paths []string) (*types.CustomRole, error)
	DeleteRole(ctx context.Context, tenantID, roleID string) error
}

// StorageInterface is the slice of the tenant store this package needs.
type StorageInterface interface {
	GetUserByID(ctx context.Context, tenantID, userID string) (*types.User, error)
	UpdateUserRole(ctx context.Context, tenantID, userID string, role types.Role) error
	SetUserCustomRole(ctx context.Context, tenantID, userID, roleID string) error
	GetRoleByID(ctx context.Context, tenantID, roleID string) (*types.CustomRole, error)
	ListRolesByTenant(ctx context.Context, tenantID string) ([]*types.CustomRole, error)
	CreateRole(ctx context.Context, role *types.CustomRole) (*types.CustomRole, error)
	UpdateRole(ctx context.Context, role *types.CustomRole, paths []string) error
	DeleteRole(ctx context.Context, tenantID, roleID string) error
}

// GuardInterface gates endpoints on authentication and on the caller's
// effective capabilities. Satisfied by the identity middleware.
type GuardInterface interface {
	RequireAuth() func(http.Handler) http.Handler
	RequireCapability(capability authorization.Capability) func(http.Handler) http.Handler
}

var _ ServiceInterface = (*Service)(nil)
