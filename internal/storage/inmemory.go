// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopthread/community-service/internal/authorization"
	"github.com/shopthread/community-service/internal/types"
)

var _ TenantStoreInterface = (*InMemoryTenantStore)(nil)

// InMemoryTenantStore is a storage implementation backed by maps, safe for
// concurrent use. It enforces the same uniqueness rules as the schema (unique
// domain, unique (tenant, email), at most one owner per tenant) so the race
// behavior of bootstrap and lazy tenant creation can be tested without a
// database.
type InMemoryTenantStore struct {
	mu      sync.Mutex
	tenants map[string]*types.Tenant
	users   map[string]*types.User
	roles   map[string]*types.CustomRole
}

func NewInMemoryTenantStore() *InMemoryTenantStore {
	return &InMemoryTenantStore{
		tenants: make(map[string]*types.Tenant),
		users:   make(map[string]*types.User),
		roles:   make(map[string]*types.CustomRole),
	}
}

func (s *InMemoryTenantStore) FindTenantByDomain(ctx context.Context, domain string) (*types.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tenants {
		if t.Domain == domain {
			copied := *t
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryTenantStore) GetTenantByID(ctx context.Context, id string) (*types.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *InMemoryTenantStore) CreateTenant(ctx context.Context, domain, name string) (*types.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tenants {
		if t.Domain == domain {
			return nil, ErrDuplicateKey
		}
	}

	t := &types.Tenant{
		ID:        uuid.NewString(),
		Domain:    domain,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.tenants[t.ID] = t

	copied := *t
	return &copied, nil
}

func (s *InMemoryTenantStore) SetTenantOwner(ctx context.Context, tenantID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || u.TenantID != tenantID {
		return ErrNotFound
	}

	for _, other := range s.users {
		if other.TenantID == tenantID && other.IsTenantOwner && other.ID != userID {
			return ErrOwnerConflict
		}
	}
	u.IsTenantOwner = true

	if t, ok := s.tenants[tenantID]; ok {
		t.OwnerUserID = userID
	}
	return nil
}

func (s *InMemoryTenantStore) FindUserByTenantAndEmail(ctx context.Context, tenantID, email string) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.TenantID == tenantID && u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryTenantStore) GetUserByID(ctx context.Context, tenantID, userID string) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || u.TenantID != tenantID {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *InMemoryTenantStore) CreateUser(ctx context.Context, user *types.User) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.TenantID == user.TenantID && existing.Email == user.Email {
			return nil, ErrDuplicateKey
		}
		// Mirror of the partial unique index on (tenant_id) WHERE is_tenant_owner.
		if user.IsTenantOwner && existing.TenantID == user.TenantID && existing.IsTenantOwner {
			return nil, ErrOwnerConflict
		}
	}

	u := *user
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = &u

	copied := u
	return &copied, nil
}

func (s *InMemoryTenantStore) UpdateUserRole(ctx context.Context, tenantID, userID string, role types.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || u.TenantID != tenantID {
		return ErrNotFound
	}
	u.Role = role
	return nil
}

func (s *InMemoryTenantStore) SetUserCustomRole(ctx context.Context, tenantID, userID, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || u.TenantID != tenantID {
		return ErrNotFound
	}
	if roleID != "" {
		r, ok := s.roles[roleID]
		if !ok || r.TenantID != tenantID {
			return ErrForeignKeyViolation
		}
	}
	u.CustomRoleID = roleID
	return nil
}

func (s *InMemoryTenantStore) SetUserBanned(ctx context.Context, tenantID, userID string, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || u.TenantID != tenantID {
		return ErrNotFound
	}
	u.IsBanned = banned
	return nil
}

func (s *InMemoryTenantStore) ListUsersByTenant(ctx context.Context, tenantID string) ([]*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []*types.User
	for _, u := range s.users {
		if u.TenantID == tenantID {
			copied := *u
			users = append(users, &copied)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (s *InMemoryTenantStore) HasTenantOwner(ctx context.Context, tenantID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.TenantID == tenantID && u.IsTenantOwner {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryTenantStore) CountAdmins(ctx context.Context, tenantID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, u := range s.users {
		if u.TenantID == tenantID && u.Role == types.RoleAdmin {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryTenantStore) FindRoleByTenantAndName(ctx context.Context, tenantID, name string) (*types.CustomRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.roles {
		if r.TenantID == tenantID && r.Name == name {
			copied := *r
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryTenantStore) GetRoleByID(ctx context.Context, tenantID, roleID string) (*types.CustomRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.roles[roleID]
	if !ok || r.TenantID != tenantID {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *InMemoryTenantStore) ListRolesByTenant(ctx context.Context, tenantID string) ([]*types.CustomRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var roles []*types.CustomRole
	for _, r := range s.roles {
		if r.TenantID == tenantID {
			copied := *r
			roles = append(roles, &copied)
		}
	}
	return roles, nil
}

func (s *InMemoryTenantStore) CreateRole(ctx context.Context, role *types.CustomRole) (*types.CustomRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createRoleLocked(role)
}

func (s *InMemoryTenantStore) createRoleLocked(role *types.CustomRole) (*types.CustomRole, error) {
	for _, existing := range s.roles {
		if existing.TenantID == role.TenantID && existing.Name == role.Name {
			return nil, ErrDuplicateKey
		}
	}

	r := *role
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	s.roles[r.ID] = &r

	copied := r
	return &copied, nil
}

func (s *InMemoryTenantStore) CreateDefaultRoles(ctx context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := []struct {
		name        string
		displayName string
		role        types.Role
	}{
		{"admin", "Admin", types.RoleAdmin},
		{"moderator", "Moderator", types.RoleModerator},
		{"member", "Member", types.RoleMember},
	}

	for _, d := range defaults {
		if _, err := s.createRoleLocked(&types.CustomRole{
			TenantID:    tenantID,
			Name:        d.name,
			DisplayName: d.displayName,
			Permissions: authorization.BaseCapabilities(d.role).Names(),
			IsDefault:   true,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryTenantStore) UpdateRole(ctx context.Context, role *types.CustomRole, paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.roles[role.ID]
	if !ok || r.TenantID != role.TenantID {
		return ErrNotFound
	}
	if r.IsDefault {
		return ErrImmutableRole
	}

	for _, p := range paths {
		switch p {
		case "display_name":
			r.DisplayName = role.DisplayName
		case "color":
			r.Color = role.Color
		case "permissions":
			r.Permissions = append([]string(nil), role.Permissions...)
		}
	}
	return nil
}

func (s *InMemoryTenantStore) DeleteRole(ctx context.Context, tenantID, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.roles[roleID]
	if !ok || r.TenantID != tenantID {
		return ErrNotFound
	}
	if r.IsDefault {
		return ErrImmutableRole
	}
	delete(s.roles, roleID)
	return nil
}
