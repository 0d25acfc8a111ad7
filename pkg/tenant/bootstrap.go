// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopthread/community-service/internal/db"
	"github.com/shopthread/community-service/internal/kinds"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/storage"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/internal/types"
)

// Bootstrap provisions users on first sight and decides who becomes the
// tenant owner. The first user ever created for a tenant is promoted to
// ADMIN and marked as owner; everyone after that starts as MEMBER. The
// one-owner guarantee is enforced by the users_single_owner_idx partial
// unique index, not by application-level locking.
type Bootstrap struct {
	store storage.TenantStoreInterface
	db    db.DBClientInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewBootstrap(
	store storage.TenantStoreInterface,
	dbClient db.DBClientInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Bootstrap {
	return &Bootstrap{
		store:   store,
		db:      dbClient,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// EnsureUser returns the user identified by (tenant, email), creating them
// just in time when they do not exist yet. Creation runs serializable so two
// concurrent first signups cannot both observe an ownerless tenant; the
// loser of that race is retried once as a plain MEMBER.
func (b *Bootstrap) EnsureUser(ctx context.Context, tenantID, email string) (*types.User, error) {
	ctx, span := b.tracer.Start(ctx, "tenant.Bootstrap.EnsureUser")
	defer span.End()

	u, err := b.store.FindUserByTenantAndEmail(ctx, tenantID, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	u, err = b.createUser(ctx, tenantID, email, true)
	if err == nil {
		return u, nil
	}

	switch {
	case isBootstrapRace(err):
		b.logger.Security().TenantBootstrap(tenantID, fmt.Sprintf("owner race lost for %s, retrying as member", email))
		return b.retryAsMember(ctx, tenantID, email)
	case errors.Is(err, storage.ErrDuplicateKey):
		// Same identity created concurrently on another request path.
		return b.store.FindUserByTenantAndEmail(ctx, tenantID, email)
	default:
		return nil, err
	}
}

func (b *Bootstrap) createUser(ctx context.Context, tenantID, email string, allowOwner bool) (*types.User, error) {
	var created *types.User
	err := b.db.WithSerializableTx(ctx, func(txCtx context.Context) error {
		role := types.RoleMember
		owner := false

		if allowOwner {
			hasOwner, err := b.store.HasTenantOwner(txCtx, tenantID)
			if err != nil {
				return err
			}
			if !hasOwner {
				role = types.RoleAdmin
				owner = true
			}
		}

		u, err := b.store.CreateUser(txCtx, &types.User{
			TenantID:      tenantID,
			Email:         email,
			Role:          role,
			IsTenantOwner: owner,
		})
		if err != nil {
			return err
		}

		if owner {
			if err := b.store.SetTenantOwner(txCtx, tenantID, u.ID); err != nil {
				return err
			}
		}

		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created.IsTenantOwner {
		b.logger.Security().TenantBootstrap(tenantID, fmt.Sprintf("user %s bootstrapped as tenant owner", created.ID))
	}

	return created, nil
}

func (b *Bootstrap) retryAsMember(ctx context.Context, tenantID, email string) (*types.User, error) {
	u, err := b.createUser(ctx, tenantID, email, false)
	if err == nil {
		return u, nil
	}
	if errors.Is(err, storage.ErrDuplicateKey) {
		return b.store.FindUserByTenantAndEmail(ctx, tenantID, email)
	}
	return nil, fmt.Errorf("%w: %v", kinds.ErrBootstrapRace, err)
}

// isBootstrapRace reports whether the error means another transaction won
// the owner promotion: either the partial unique index fired or the
// serializable transaction was aborted.
func isBootstrapRace(err error) bool {
	return storage.IsSerializationFailure(err) || storage.IsSingleOwnerViolation(err)
}

// RepairOwner restores an operational owner for a tenant that lost one, for
// example after the owning account was deleted upstream. Promotion order:
// the longest-standing ADMIN, else the longest-standing MODERATOR promoted
// to ADMIN. When no promotable user exists and fallbackEmail is set, an
// emergency ADMIN owner is created under that address.
func (b *Bootstrap) RepairOwner(ctx context.Context, tenantID, fallbackEmail string) (*types.User, error) {
	ctx, span := b.tracer.Start(ctx, "tenant.Bootstrap.RepairOwner")
	defer span.End()

	var repaired *types.User
	err := b.db.WithSerializableTx(ctx, func(txCtx context.Context) error {
		hasOwner, err := b.store.HasTenantOwner(txCtx, tenantID)
		if err != nil {
			return err
		}
		if hasOwner {
			return kinds.InvalidRoleTransition("tenant already has an owner")
		}

		users, err := b.store.ListUsersByTenant(txCtx, tenantID)
		if err != nil {
			return err
		}

		candidate := pickOwnerCandidate(users)
		if candidate == nil {
			if fallbackEmail == "" {
				return kinds.InvalidRoleTransition("no promotable user for tenant")
			}
			created, err := b.store.CreateUser(txCtx, &types.User{
				TenantID:      tenantID,
				Email:         fallbackEmail,
				Role:          types.RoleAdmin,
				IsTenantOwner: true,
			})
			if err != nil {
				return err
			}
			if err := b.store.SetTenantOwner(txCtx, tenantID, created.ID); err != nil {
				return err
			}
			repaired = created
			return nil
		}

		if candidate.Role != types.RoleAdmin {
			if err := b.store.UpdateUserRole(txCtx, tenantID, candidate.ID, types.RoleAdmin); err != nil {
				return err
			}
			candidate.Role = types.RoleAdmin
		}

		if err := b.store.SetTenantOwner(txCtx, tenantID, candidate.ID); err != nil {
			return err
		}

		repaired = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.logger.Security().TenantBootstrap(tenantID, fmt.Sprintf("owner repaired to user %s", repaired.ID))
	return repaired, nil
}

// pickOwnerCandidate prefers admins over moderators and earlier accounts
// over later ones. ListUsersByTenant returns rows ordered by creation time.
func pickOwnerCandidate(users []*types.User) *types.User {
	var moderator *types.User
	for _, u := range users {
		if u.IsBanned {
			continue
		}
		switch u.Role {
		case types.RoleAdmin:
			return u
		case types.RoleModerator:
			if moderator == nil {
				moderator = u
			}
		}
	}
	return moderator
}
