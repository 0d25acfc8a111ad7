// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"github.com/shopthread/community-service/internal/kinds"
	"github.com/shopthread/community-service/internal/types"
)

// Denial reasons carried by InvalidRoleTransition errors.
const (
	ReasonInsufficientPrivilege = "insufficient privilege"
	ReasonSelfModification      = "cannot modify own role"
	ReasonOwnerImmutable        = "owner role is immutable"
	ReasonAdminPeer             = "admin cannot modify admin"
	ReasonInvalidRole           = "invalid role"
)

// RoleChange describes a requested role mutation.
type RoleChange struct {
	ActorID           string
	ActorRole         types.Role
	ActorCapabilities CapabilitySet
	TargetID          string
	TargetRole        types.Role
	TargetIsOwner     bool
	RequestedRole     types.Role
}

// CanChangeRole evaluates the role-change state machine as an ordered guard
// sequence. The first failing guard determines the denial reason. The owner
// flag is never touched by guarded operations, only the bootstrap protocol
// sets it.
func CanChangeRole(change RoleChange) error {
	if !EffectiveCapabilities(change.ActorRole, change.ActorCapabilities).Has(CapabilityChangeRoles) {
		return kinds.InvalidRoleTransition(ReasonInsufficientPrivilege)
	}

	if change.ActorID == change.TargetID {
		return kinds.InvalidRoleTransition(ReasonSelfModification)
	}

	if change.TargetIsOwner {
		return kinds.InvalidRoleTransition(ReasonOwnerImmutable)
	}

	// Lateral admin-vs-admin escalation and demotion races are blocked
	// outright.
	if change.TargetRole == types.RoleAdmin && change.ActorRole == types.RoleAdmin {
		return kinds.InvalidRoleTransition(ReasonAdminPeer)
	}

	if !change.RequestedRole.Valid() {
		return kinds.InvalidRoleTransition(ReasonInvalidRole)
	}

	return nil
}
