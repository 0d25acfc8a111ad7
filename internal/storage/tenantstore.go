// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shopthread/community-service/internal/authorization"
	"github.com/shopthread/community-service/internal/db"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/internal/types"
)

var _ TenantStoreInterface = (*TenantStore)(nil)

type TenantStore struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewTenantStore(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *TenantStore {
	s := new(TenantStore)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

func (s *TenantStore) FindTenantByDomain(ctx context.Context, domain string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.FindTenantByDomain")
	defer span.End()

	var t types.Tenant
	var owner *string
	err := s.db.Statement(ctx).
		Select("id", "domain", "name", "owner_user_id", "created_at").
		From("tenants").
		Where(sq.Eq{"domain": domain}).
		QueryRowContext(ctx).
		Scan(&t.ID, &t.Domain, &t.Name, &owner, &t.CreatedAt)

	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}

	if owner != nil {
		t.OwnerUserID = *owner
	}

	return &t, nil
}

func (s *TenantStore) GetTenantByID(ctx context.Context, id string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.GetTenantByID")
	defer span.End()

	var t types.Tenant
	var owner *string
	err := s.db.Statement(ctx).
		Select("id", "domain", "name", "owner_user_id", "created_at").
		From("tenants").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx).
		Scan(&t.ID, &t.Domain, &t.Name, &owner, &t.CreatedAt)

	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	if owner != nil {
		t.OwnerUserID = *owner
	}

	return &t, nil
}

func (s *TenantStore) CreateTenant(ctx context.Context, domain, name string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.CreateTenant")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant ID: %w", err)
	}

	var t types.Tenant
	err = s.db.Statement(ctx).
		Insert("tenants").
		Columns("id", "domain", "name").
		Values(id.String(), domain, name).
		Suffix("RETURNING id, domain, name, created_at").
		QueryRowContext(ctx).
		Scan(&t.ID, &t.Domain, &t.Name, &t.CreatedAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to insert tenant: %w", err)
	}

	return &t, nil
}

func (s *TenantStore) SetTenantOwner(ctx context.Context, tenantID, userID string) error {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.SetTenantOwner")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("users").
		Set("is_tenant_owner", true).
		Where(sq.Eq{"tenant_id": tenantID, "id": userID}).
		ExecContext(ctx)

	if err != nil {
		if IsSingleOwnerViolation(err) {
			return ErrOwnerConflict
		}
		return fmt.Errorf("failed to mark owner user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	_, err = s.db.Statement(ctx).
		Update("tenants").
		Set("owner_user_id", userID).
		Where(sq.Eq{"id": tenantID}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to set tenant owner: %w", err)
	}

	return nil
}

func (s *TenantStore) FindUserByTenantAndEmail(ctx context.Context, tenantID, email string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.FindUserByTenantAndEmail")
	defer span.End()

	return s.scanUser(ctx, sq.Eq{"tenant_id": tenantID, "email": email})
}

func (s *TenantStore) GetUserByID(ctx context.Context, tenantID, userID string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.GetUserByID")
	defer span.End()

	return s.scanUser(ctx, sq.Eq{"tenant_id": tenantID, "id": userID})
}

func (s *TenantStore) scanUser(ctx context.Context, where sq.Eq) (*types.User, error) {
	var u types.User
	var customRole *string
	err := s.db.Statement(ctx).
		Select("id", "tenant_id", "email", "role", "custom_role_id", "is_tenant_owner", "is_banned", "created_at").
		From("users").
		Where(where).
		QueryRowContext(ctx).
		Scan(&u.ID, &u.TenantID, &u.Email, &u.Role, &customRole, &u.IsTenantOwner, &u.IsBanned, &u.CreatedAt)

	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if customRole != nil {
		u.CustomRoleID = *customRole
	}

	return &u, nil
}

func (s *TenantStore) CreateUser(ctx context.Context, user *types.User) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.CreateUser")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	var customRole interface{}
	if user.CustomRoleID != "" {
		customRole = user.CustomRoleID
	}

	var u types.User
	err = s.db.Statement(ctx).
		Insert("users").
		Columns("id", "tenant_id", "email", "role", "custom_role_id", "is_tenant_owner", "is_banned").
		Values(id.String(), user.TenantID, user.Email, string(user.Role), customRole, user.IsTenantOwner, user.IsBanned).
		Suffix("RETURNING id, tenant_id, email, role, is_tenant_owner, is_banned, created_at").
		QueryRowContext(ctx).
		Scan(&u.ID, &u.TenantID, &u.Email, &u.Role, &u.IsTenantOwner, &u.IsBanned, &u.CreatedAt)

	if err != nil {
		if IsSingleOwnerViolation(err) {
			return nil, ErrOwnerConflict
		}
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		if IsForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	u.CustomRoleID = user.CustomRoleID
	return &u, nil
}

func (s *TenantStore) UpdateUserRole(ctx context.Context, tenantID, userID string, role types.Role) error {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.UpdateUserRole")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("users").
		Set("role", string(role)).
		Where(sq.Eq{"tenant_id": tenantID, "id": userID}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// SetUserCustomRole assigns a custom role to a user. An empty roleID clears
// the assignment.
func (s *TenantStore) SetUserCustomRole(ctx context.Context, tenantID, userID, roleID string) error {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.SetUserCustomRole")
	defer span.End()

	var value interface{}
	if roleID != "" {
		value = roleID
	}

	res, err := s.db.Statement(ctx).
		Update("users").
		Set("custom_role_id", value).
		Where(sq.Eq{"tenant_id": tenantID, "id": userID}).
		ExecContext(ctx)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to set custom role: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *TenantStore) SetUserBanned(ctx context.Context, tenantID, userID string, banned bool) error {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.SetUserBanned")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("users").
		Set("is_banned", banned).
		Where(sq.Eq{"tenant_id": tenantID, "id": userID}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to update ban flag: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *TenantStore) ListUsersByTenant(ctx context.Context, tenantID string) ([]*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.ListUsersByTenant")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select("id", "tenant_id", "email", "role", "custom_role_id", "is_tenant_owner", "is_banned", "created_at").
		From("users").
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("created_at ASC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*types.User
	for rows.Next() {
		var u types.User
		var customRole *string
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Email, &u.Role, &customRole, &u.IsTenantOwner, &u.IsBanned, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if customRole != nil {
			u.CustomRoleID = *customRole
		}
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

func (s *TenantStore) HasTenantOwner(ctx context.Context, tenantID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.HasTenantOwner")
	defer span.End()

	var count int
	err := s.db.Statement(ctx).
		Select("COUNT(*)").
		From("users").
		Where(sq.Eq{"tenant_id": tenantID, "is_tenant_owner": true}).
		QueryRowContext(ctx).
		Scan(&count)

	if err != nil {
		return false, fmt.Errorf("failed to count owners: %w", err)
	}

	return count > 0, nil
}

func (s *TenantStore) CountAdmins(ctx context.Context, tenantID string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.CountAdmins")
	defer span.End()

	var count int
	err := s.db.Statement(ctx).
		Select("COUNT(*)").
		From("users").
		Where(sq.Eq{"tenant_id": tenantID, "role": string(types.RoleAdmin)}).
		QueryRowContext(ctx).
		Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}

	return count, nil
}

func (s *TenantStore) FindRoleByTenantAndName(ctx context.Context, tenantID, name string) (*types.CustomRole, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.FindRoleByTenantAndName")
	defer span.End()

	return s.scanRole(ctx, sq.Eq{"tenant_id": tenantID, "name": name})
}

func (s *TenantStore) GetRoleByID(ctx context.Context, tenantID, roleID string) (*types.CustomRole, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.GetRoleByID")
	defer span.End()

	return s.scanRole(ctx, sq.Eq{"tenant_id": tenantID, "id": roleID})
}

func (s *TenantStore) scanRole(ctx context.Context, where sq.Eq) (*types.CustomRole, error) {
	var r types.CustomRole
	var permissions []byte
	err := s.db.Statement(ctx).
		Select("id", "tenant_id", "name", "display_name", "color", "permissions", "is_default", "created_at").
		From("roles").
		Where(where).
		QueryRowContext(ctx).
		Scan(&r.ID, &r.TenantID, &r.Name, &r.DisplayName, &r.Color, &permissions, &r.IsDefault, &r.CreatedAt)

	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	if err := json.Unmarshal(permissions, &r.Permissions); err != nil {
		return nil, fmt.Errorf("failed to decode role permissions: %w", err)
	}

	return &r, nil
}

func (s *TenantStore) ListRolesByTenant(ctx context.Context, tenantID string) ([]*types.CustomRole, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.ListRolesByTenant")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select("id", "tenant_id", "name", "display_name", "color", "permissions", "is_default", "created_at").
		From("roles").
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("is_default DESC", "name ASC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []*types.CustomRole
	for rows.Next() {
		var r types.CustomRole
		var permissions []byte
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Name, &r.DisplayName, &r.Color, &permissions, &r.IsDefault, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		if err := json.Unmarshal(permissions, &r.Permissions); err != nil {
			return nil, fmt.Errorf("failed to decode role permissions: %w", err)
		}
		roles = append(roles, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role rows: %w", err)
	}

	return roles, nil
}

func (s *TenantStore) CreateRole(ctx context.Context, role *types.CustomRole) (*types.CustomRole, error) {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.CreateRole")
	defer span.End()

	created, err := s.insertRole(ctx, role)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}

	return created, nil
}

func (s *TenantStore) insertRole(ctx context.Context, role *types.CustomRole) (*types.CustomRole, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate role ID: %w", err)
	}

	permissions, err := json.Marshal(role.Permissions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode role permissions: %w", err)
	}

	var r types.CustomRole
	err = s.db.Statement(ctx).
		Insert("roles").
		Columns("id", "tenant_id", "name", "display_name", "color", "permissions", "is_default").
		Values(id.String(), role.TenantID, role.Name, role.DisplayName, role.Color, permissions, role.IsDefault).
		Suffix("RETURNING id, tenant_id, name, display_name, color, is_default, created_at").
		QueryRowContext(ctx).
		Scan(&r.ID, &r.TenantID, &r.Name, &r.DisplayName, &r.Color, &r.IsDefault, &r.CreatedAt)

	if err != nil {
		return nil, err
	}

	r.Permissions = role.Permissions
	return &r, nil
}

// CreateDefaultRoles inserts the three locked base roles for a new tenant.
// Must run in the same transaction as the tenant insert.
func (s *TenantStore) CreateDefaultRoles(ctx context.Context, tenantID string) error {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.CreateDefaultRoles")
	defer span.End()

	defaults := []struct {
		name        string
		displayName string
		color       string
		role        types.Role
	}{
		{"admin", "Admin", "#d9480f", types.RoleAdmin},
		{"moderator", "Moderator", "#1864ab", types.RoleModerator},
		{"member", "Member", "#495057", types.RoleMember},
	}

	for _, d := range defaults {
		role := &types.CustomRole{
			TenantID:    tenantID,
			Name:        d.name,
			DisplayName: d.displayName,
			Color:       d.color,
			Permissions: authorization.BaseCapabilities(d.role).Names(),
			IsDefault:   true,
		}
		if _, err := s.insertRole(ctx, role); err != nil {
			return fmt.Errorf("failed to create default role %s: %w", d.name, err)
		}
	}

	return nil
}

// UpdateRole updates the fields named in paths. Default roles reject every
// mutation.
func (s *TenantStore) UpdateRole(ctx context.Context, role *types.CustomRole, paths []string) error {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.UpdateRole")
	defer span.End()

	if len(paths) == 0 {
		return nil
	}

	updateMap := make(map[string]interface{})
	for _, p := range paths {
		switch p {
		case "display_name":
			updateMap["display_name"] = role.DisplayName
		case "color":
			updateMap["color"] = role.Color
		case "permissions":
			permissions, err := json.Marshal(role.Permissions)
			if err != nil {
				return fmt.Errorf("failed to encode role permissions: %w", err)
			}
			updateMap["permissions"] = permissions
		}
	}

	if len(updateMap) == 0 {
		return nil
	}

	res, err := s.db.Statement(ctx).
		Update("roles").
		SetMap(updateMap).
		Where(sq.Eq{"tenant_id": role.TenantID, "id": role.ID, "is_default": false}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		// Either the role does not exist or it is a locked default.
		if _, err := s.GetRoleByID(ctx, role.TenantID, role.ID); err == nil {
			return ErrImmutableRole
		}
		return ErrNotFound
	}

	return nil
}

func (s *TenantStore) DeleteRole(ctx context.Context, tenantID, roleID string) error {
	ctx, span := s.tracer.Start(ctx, "storage.TenantStore.DeleteRole")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("roles").
		Where(sq.Eq{"tenant_id": tenantID, "id": roleID, "is_default": false}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := s.GetRoleByID(ctx, tenantID, roleID); err == nil {
			return ErrImmutableRole
		}
		return ErrNotFound
	}

	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
