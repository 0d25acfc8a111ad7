// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package authorization implements the permission engine and the role-change
// guard. Everything in this package is a pure function of its inputs: no I/O,
// no clock, no storage, so every (role, capability) pair is exhaustively
// testable.
package authorization

import (
	"sort"

	"github.com/shopthread/community-service/internal/types"
)

// Capability is an atomic, named authorization grant.
type Capability uint32

const (
	CapabilityManageTenant Capability = 1 << iota
	CapabilityListUsers
	CapabilityBanUsers
	CapabilityChangeRoles
	CapabilityManageRoles
	CapabilityModerateContent
	CapabilityAuthorContent
)

var capabilityNames = map[Capability]string{
	CapabilityManageTenant:    "manage_tenant",
	CapabilityListUsers:       "list_users",
	CapabilityBanUsers:        "ban_users",
	CapabilityChangeRoles:     "change_roles",
	CapabilityManageRoles:     "manage_roles",
	CapabilityModerateContent: "moderate_content",
	CapabilityAuthorContent:   "author_content",
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCapability resolves a stored permission name to its capability.
// Unknown names are dropped so stale rows cannot grant anything.
func ParseCapability(name string) (Capability, bool) {
	for c, n := range capabilityNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// AllCapabilities returns every defined capability in a stable order.
func AllCapabilities() []Capability {
	caps := make([]Capability, 0, len(capabilityNames))
	for c := range capabilityNames {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

// CapabilitySet is a fixed-size bitset of capabilities. The zero value is the
// empty set.
type CapabilitySet uint32

func NewCapabilitySet(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s |= CapabilitySet(c)
	}
	return s
}

// ParseCapabilitySet builds a set from stored permission names, ignoring
// unknown entries.
func ParseCapabilitySet(names []string) CapabilitySet {
	var s CapabilitySet
	for _, name := range names {
		if c, ok := ParseCapability(name); ok {
			s |= CapabilitySet(c)
		}
	}
	return s
}

func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) != 0
}

// Union never removes grants, which keeps the permission model monotonic.
func (s CapabilitySet) Union(other CapabilitySet) CapabilitySet {
	return s | other
}

func (s CapabilitySet) Names() []string {
	var names []string
	for _, c := range AllCapabilities() {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return names
}

var baseGrants = map[types.Role]CapabilitySet{
	types.RoleAdmin: NewCapabilitySet(
		CapabilityManageTenant,
		CapabilityListUsers,
		CapabilityBanUsers,
		CapabilityChangeRoles,
		CapabilityManageRoles,
		CapabilityModerateContent,
		CapabilityAuthorContent,
	),
	types.RoleModerator: NewCapabilitySet(
		CapabilityModerateContent,
		CapabilityAuthorContent,
	),
	types.RoleMember: NewCapabilitySet(
		CapabilityAuthorContent,
	),
}

// BaseCapabilities returns the fixed grant for a base role. Unknown roles get
// the empty set.
func BaseCapabilities(role types.Role) CapabilitySet {
	return baseGrants[role]
}

// EffectiveCapabilities is the base grant unioned with the custom role's
// permissions. Union only: a custom role can widen the base grant but never
// narrow it.
func EffectiveCapabilities(role types.Role, custom CapabilitySet) CapabilitySet {
	return BaseCapabilities(role).Union(custom)
}

// HasCapability evaluates whether the identity behind ctx, widened by custom,
// holds cap.
func HasCapability(ctx types.AuthContext, custom CapabilitySet, cap Capability) bool {
	return EffectiveCapabilities(ctx.Role, custom).Has(cap)
}
