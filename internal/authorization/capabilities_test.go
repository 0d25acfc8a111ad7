// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"math/rand"
	"testing"

	"github.com/shopthread/community-service/internal/types"
)

func TestBaseCapabilities(t *testing.T) {
	testCases := []struct {
		role    types.Role
		granted []Capability
		denied  []Capability
	}{
		{
			role: types.RoleAdmin,
			granted: []Capability{
				CapabilityManageTenant,
				CapabilityListUsers,
				CapabilityBanUsers,
				CapabilityChangeRoles,
				CapabilityManageRoles,
				CapabilityModerateContent,
				CapabilityAuthorContent,
			},
		},
		{
			role:    types.RoleModerator,
			granted: []Capability{CapabilityModerateContent, CapabilityAuthorContent},
			denied: []Capability{
				CapabilityManageTenant,
				CapabilityListUsers,
				CapabilityBanUsers,
				CapabilityChangeRoles,
				CapabilityManageRoles,
			},
		},
		{
			role:    types.RoleMember,
			granted: []Capability{CapabilityAuthorContent},
			denied: []Capability{
				CapabilityManageTenant,
				CapabilityListUsers,
				CapabilityBanUsers,
				CapabilityChangeRoles,
				CapabilityManageRoles,
				CapabilityModerateContent,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(string(tc.role), func(t *testing.T) {
			ctx := types.AuthContext{Role: tc.role}
			for _, c := range tc.granted {
				if !HasCapability(ctx, 0, c) {
					t.Errorf("expected %s to grant %s", tc.role, c)
				}
			}
			for _, c := range tc.denied {
				if HasCapability(ctx, 0, c) {
					t.Errorf("expected %s to deny %s", tc.role, c)
				}
			}
		})
	}
}

func TestUnknownRoleGrantsNothing(t *testing.T) {
	ctx := types.AuthContext{Role: types.Role("SUPERUSER")}
	for _, c := range AllCapabilities() {
		if HasCapability(ctx, 0, c) {
			t.Errorf("unknown role granted %s", c)
		}
	}
}

// Assigning custom permissions can only widen the base grant, never narrow it.
func TestPermissionMonotonicity(t *testing.T) {
	roles := []types.Role{types.RoleAdmin, types.RoleModerator, types.RoleMember}
	all := AllCapabilities()

	rng := rand.New(rand.NewSource(1))
	for _, role := range roles {
		for i := 0; i < 100; i++ {
			var custom CapabilitySet
			for _, c := range all {
				if rng.Intn(2) == 1 {
					custom |= CapabilitySet(c)
				}
			}

			ctx := types.AuthContext{Role: role}
			for _, c := range all {
				if HasCapability(ctx, 0, c) && !HasCapability(ctx, custom, c) {
					t.Fatalf("custom set %v removed base capability %s from %s", custom.Names(), c, role)
				}
			}
		}
	}
}

func TestCustomRoleWidensGrant(t *testing.T) {
	ctx := types.AuthContext{Role: types.RoleMember}
	custom := NewCapabilitySet(CapabilityModerateContent)

	if !HasCapability(ctx, custom, CapabilityModerateContent) {
		t.Error("expected custom role to add moderate_content")
	}
	if HasCapability(ctx, custom, CapabilityChangeRoles) {
		t.Error("custom role must not grant capabilities outside its set")
	}
}

func TestParseCapabilitySet(t *testing.T) {
	s := ParseCapabilitySet([]string{"moderate_content", "ban_users", "bogus", ""})

	if !s.Has(CapabilityModerateContent) || !s.Has(CapabilityBanUsers) {
		t.Error("expected named capabilities to be present")
	}
	if s.Has(CapabilityManageTenant) {
		t.Error("unexpected capability in parsed set")
	}
	if got := len(s.Names()); got != 2 {
		t.Errorf("expected 2 names, got %d", got)
	}
}

func TestCapabilityRoundTrip(t *testing.T) {
	for _, c := range AllCapabilities() {
		parsed, ok := ParseCapability(c.String())
		if !ok || parsed != c {
			t.Errorf("capability %s did not round-trip", c)
		}
	}
}
