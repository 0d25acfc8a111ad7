// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package users serves the member listing and ban operations.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopthread/community-service/internal/kinds"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/storage"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/internal/types"
)

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

func (s *Service) ListUsers(ctx context.Context, tenantID string) ([]*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "users.Service.ListUsers")
	defer span.End()

	return s.store.ListUsersByTenant(ctx, tenantID)
}

// SetBanned flips the ban flag on the target. The owner can never be banned
// and nobody bans themselves; both denials read as Forbidden to the caller.
func (s *Service) SetBanned(ctx context.Context, actor *types.AuthContext, targetID string, banned bool) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "users.Service.SetBanned")
	defer span.End()

	target, err := s.store.GetUserByID(ctx, actor.TenantID, targetID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load target user: %w", err)
	}

	if target.ID == actor.UserID {
		s.logger.Security().AuthzFailure(actor.UserID, "attempted self-ban")
		return nil, kinds.New(kinds.KindForbidden, "cannot ban self")
	}
	if target.IsTenantOwner {
		s.logger.Security().AuthzFailure(actor.UserID, fmt.Sprintf("attempted to ban owner %s", target.ID))
		return nil, kinds.New(kinds.KindForbidden, "owner cannot be banned")
	}

	if err := s.store.SetUserBanned(ctx, actor.TenantID, target.ID, banned); err != nil {
		return nil, fmt.Errorf("failed to update ban flag: %w", err)
	}

	action := "unbanned"
	if banned {
		action = "banned"
	}
	s.logger.Security().RoleChange(actor.UserID, target.ID, action)

	target.IsBanned = banned
	return target, nil
}
