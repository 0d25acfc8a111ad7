// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package roles applies role changes through the ordered guard sequence and
// manages the per-tenant custom roles that widen base grants.
package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopthread/community-service/internal/authorization"
	"github.com/shopthread/community-service/internal/kinds"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/storage"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/internal/types"
)

// RoleParams carries the mutable fields of a custom role.
type RoleParams struct {
	Name        string
	DisplayName string
	Color       string
	Permissions []string
}

type Service struct {
	store StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	store StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		store:   store,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// ChangeRole runs the guard sequence for actor changing targetID to the
// requested role and applies the change when every guard passes. The denial
// reason never leaves the security log.
func (s *Service) ChangeRole(ctx context.Context, actor *types.AuthContext, targetID string, requested types.Role) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "roles.Service.ChangeRole")
	defer span.End()

	target, err := s.store.GetUserByID(ctx, actor.TenantID, targetID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load target user: %w", err)
	}

	actorCaps, err := s.actorCapabilities(ctx, actor)
	if err != nil {
		return nil, err
	}

	change := authorization.RoleChange{
		ActorID:           actor.UserID,
		ActorRole:         actor.Role,
		ActorCapabilities: actorCaps,
		TargetID:          target.ID,
		TargetRole:        target.Role,
		TargetIsOwner:     target.IsTenantOwner,
		RequestedRole:     requested,
	}
	if err := authorization.CanChangeRole(change); err != nil {
		s.logger.Security().AuthzFailure(actor.UserID, err.Error())
		return nil, err
	}

	if err := s.store.UpdateUserRole(ctx, actor.TenantID, target.ID, requested); err != nil {
		return nil, fmt.Errorf("failed to apply role change: %w", err)
	}

	s.logger.Security().RoleChange(actor.UserID, target.ID, string(requested))

	target.Role = requested
	return target, nil
}

// AssignCustomRole attaches a custom role to the target user, or clears the
// assignment when roleID is empty. Gated by the same guard constraints as a
// base-role change minus the requested-role check.
func (s *Service) AssignCustomRole(ctx context.Context, actor *types.AuthContext, targetID, roleID string) error {
	ctx, span := s.tracer.Start(ctx, "roles.Service.AssignCustomRole")
	defer span.End()

	target, err := s.store.GetUserByID(ctx, actor.TenantID, targetID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to load target user: %w", err)
	}

	actorCaps, err := s.actorCapabilities(ctx, actor)
	if err != nil {
		return err
	}

	change := authorization.RoleChange{
		ActorID:           actor.UserID,
		ActorRole:         actor.Role,
		ActorCapabilities: actorCaps,
		TargetID:          target.ID,
		TargetRole:        target.Role,
		TargetIsOwner:     target.IsTenantOwner,
		// The base role is untouched; reuse the target's own role so the
		// requested-role guard always passes.
		RequestedRole: target.Role,
	}
	if err := authorization.CanChangeRole(change); err != nil {
		s.logger.Security().AuthzFailure(actor.UserID, err.Error())
		return err
	}

	if roleID != "" {
		if _, err := s.store.GetRoleByID(ctx, actor.TenantID, roleID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("failed to load custom role: %w", err)
		}
	}

	if err := s.store.SetUserCustomRole(ctx, actor.TenantID, target.ID, roleID); err != nil {
		return fmt.Errorf("failed to assign custom role: %w", err)
	}

	s.logger.Security().RoleChange(actor.UserID, target.ID, fmt.Sprintf("custom-role:%s", roleID))
	return nil
}

func (s *Service) ListRoles(ctx context.Context, tenantID string) ([]*types.CustomRole, error) {
	ctx, span := s.tracer.Start(ctx, "roles.Service.ListRoles")
	defer span.End()

	return s.store.ListRolesByTenant(ctx, tenantID)
}

func (s *Service) CreateRole(ctx context.Context, tenantID string, params RoleParams) (*types.CustomRole, error) {
	ctx, span := s.tracer.Start(ctx, "roles.Service.CreateRole")
	defer span.End()

	created, err := s.store.CreateRole(ctx, &types.CustomRole{
		TenantID:    tenantID,
		Name:        params.Name,
		DisplayName: params.DisplayName,
		Color:       params.Color,
		Permissions: normalizePermissions(params.Permissions),
	})
	if err != nil {
		return nil, mapStorageError(err)
	}
	return created, nil
}

func (s *Service) UpdateRole(ctx context.Context, tenantID, roleID string, params RoleParams, paths []string) (*types.CustomRole, error) {
	ctx, span := s.tracer.Start(ctx, "roles.Service.UpdateRole")
	defer span.End()

	role := &types.CustomRole{
		ID:          roleID,
		TenantID:    tenantID,
		DisplayName: params.DisplayName,
		Color:       params.Color,
		Permissions: normalizePermissions(params.Permissions),
	}
	if err := s.store.UpdateRole(ctx, role, paths); err != nil {
		return nil, mapStorageError(err)
	}

	return s.store.GetRoleByID(ctx, tenantID, roleID)
}

func (s *Service) DeleteRole(ctx context.Context, tenantID, roleID string) error {
	ctx, span := s.tracer.Start(ctx, "roles.Service.DeleteRole")
	defer span.End()

	if err := s.store.DeleteRole(ctx, tenantID, roleID); err != nil {
		return mapStorageError(err)
	}
	return nil
}

func (s *Service) actorCapabilities(ctx context.Context, actor *types.AuthContext) (authorization.CapabilitySet, error) {
	if actor.CustomRoleID == "" {
		return 0, nil
	}

	role, err := s.store.GetRoleByID(ctx, actor.TenantID, actor.CustomRoleID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load actor's custom role: %w", err)
	}

	return authorization.ParseCapabilitySet(role.Permissions), nil
}

// normalizePermissions keeps only recognized capability names so a stored
// role can never smuggle grants the engine does not define.
func normalizePermissions(names []string) []string {
	return authorization.ParseCapabilitySet(names).Names()
}

// mapStorageError translates storage sentinels into the error taxonomy where
// one applies. Default-role mutations are capability failures, not conflicts.
func mapStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrImmutableRole):
		return kinds.New(kinds.KindForbidden, "default roles are immutable")
	case errors.Is(err, storage.ErrDuplicateKey):
		return kinds.InvalidRoleTransition("role name already in use")
	default:
		return err
	}
}
