// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/shopthread/community-service/internal/types"
)

// TenantStoreInterface is the persistence surface the authorization core
// consumes. Collaborators (content CRUD, GDPR export) share it and must not
// bypass tenant scoping.
type TenantStoreInterface interface {
	FindTenantByDomain(ctx context.Context, domain string) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	CreateTenant(ctx context.Context, domain, name string) (*types.Tenant, error)
	SetTenantOwner(ctx context.Context, tenantID, userID string) error

	FindUserByTenantAndEmail(ctx context.Context, tenantID, email string) (*types.User, error)
	GetUserByID(ctx context.Context, tenantID, userID string) (*types.User, error)
	CreateUser(ctx context.Context, user *types.User) (*types.User, error)
	UpdateUserRole(ctx context.Context, tenantID, userID string, role types.Role) error
	SetUserCustomRole(ctx context.Context, tenantID, userID, roleID string) error
	SetUserBanned(ctx context.Context, tenantID, userID string, banned bool) error
	ListUsersByTenant(ctx context.Context, tenantID string) ([]*types.User, error)
	HasTenantOwner(ctx context.Context, tenantID string) (bool, error)
	CountAdmins(ctx context.Context, tenantID string) (int, error)

	FindRoleByTenantAndName(ctx context.Context, tenantID, name string) (*types.CustomRole, error)
	GetRoleByID(ctx context.Context, tenantID, roleID string) (*types.CustomRole, error)
	ListRolesByTenant(ctx context.Context, tenantID string) ([]*types.CustomRole, error)
	CreateRole(ctx context.Context, role *types.CustomRole) (*types.CustomRole, error)
	CreateDefaultRoles(ctx context.Context, tenantID string) error
	UpdateRole(ctx context.Context, role *types.CustomRole, paths []string) error
	DeleteRole(ctx context.Context, tenantID, roleID string) error
}
