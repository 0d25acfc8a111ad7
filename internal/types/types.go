// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

// Role is one of the three base roles every user holds. Custom roles are
// additive on top of the base role, they never replace it.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
	RoleMember    Role = "MEMBER"
)

// Valid reports whether r is one of the three base roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleMember:
		return true
	}
	return false
}

// AuthMethod records which credential mechanism produced an AuthContext.
type AuthMethod string

const (
	AuthMethodSessionToken  AuthMethod = "session-token"
	AuthMethodCookieSession AuthMethod = "cookie-session"
)

// Tenant is a shop: an isolated customer instance keyed by the domain the
// embedding platform reports. OwnerUserID stays empty until the bootstrap
// protocol has elected the first admin.
type Tenant struct {
	ID          string    `db:"id"`
	Domain      string    `db:"domain"`
	Name        string    `db:"name"`
	OwnerUserID string    `db:"owner_user_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// User identity is scoped per tenant: the same email may exist as distinct
// users under different tenants.
type User struct {
	ID            string    `db:"id"`
	TenantID      string    `db:"tenant_id"`
	Email         string    `db:"email"`
	Role          Role      `db:"role"`
	CustomRoleID  string    `db:"custom_role_id"`
	IsTenantOwner bool      `db:"is_tenant_owner"`
	IsBanned      bool      `db:"is_banned"`
	CreatedAt     time.Time `db:"created_at"`
}

// CustomRole widens a user's base grant with extra permissions. The three
// default roles are created with the tenant and locked against mutation.
type CustomRole struct {
	ID          string    `db:"id"`
	TenantID    string    `db:"tenant_id"`
	Name        string    `db:"name"`
	DisplayName string    `db:"display_name"`
	Color       string    `db:"color"`
	Permissions []string  `db:"permissions"`
	IsDefault   bool      `db:"is_default"`
	CreatedAt   time.Time `db:"created_at"`
}

// AuthContext is the normalized result of identity resolution. It is built
// once per request, passed by value, and never cached across requests.
type AuthContext struct {
	UserID        string
	TenantID      string
	Email         string
	Role          Role
	CustomRoleID  string
	IsTenantOwner bool
	IsBanned      bool
	AuthMethod    AuthMethod
}
