// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package roles

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/shopthread/community-service/internal/kinds"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/storage"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package roles -destination ./mock_roles.go -source=./interfaces.go

const testTenantID = "tenant-1"

func newTestService(store StorageInterface) *Service {
	return NewService(
		store,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
}

func admin(id string) *types.AuthContext {
	return &types.AuthContext{UserID: id, TenantID: testTenantID, Role: types.RoleAdmin}
}

func TestService_ChangeRole(t *testing.T) {
	member := &types.User{ID: "target-1", TenantID: testTenantID, Role: types.RoleMember}
	peerAdmin := &types.User{ID: "target-2", TenantID: testTenantID, Role: types.RoleAdmin}
	owner := &types.User{ID: "owner-1", TenantID: testTenantID, Role: types.RoleAdmin, IsTenantOwner: true}
	dbErr := errors.New("db error")

	testCases := []struct {
		name         string
		actor        *types.AuthContext
		targetID     string
		requested    types.Role
		setupMocks   func(*MockStorageInterface)
		expectedRole types.Role
		expectedErr  error
		expectedKind kinds.Kind
	}{
		{
			name:      "admin promotes member",
			actor:     admin("actor-1"),
			targetID:  member.ID,
			requested: types.RoleModerator,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetUserByID(gomock.Any(), testTenantID, member.ID).Return(&types.User{ID: member.ID, TenantID: testTenantID, Role: types.RoleMember}, nil)
				mockStorage.EXPECT().UpdateUserRole(gomock.Any(), testTenantID, member.ID, types.RoleModerator).Return(nil)
			},
			expectedRole: types.RoleModerator,
		},
		{
			name:      "member with widening custom role changes roles",
			actor:     &types.AuthContext{UserID: "actor-2", TenantID: testTenantID, Role: types.RoleMember, CustomRoleID: "cr-1"},
			targetID:  member.ID,
			requested: types.RoleModerator,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetUserByID(gomock.Any(), testTenantID, member.ID).Return(&types.User{ID: member.ID, TenantID: testTenantID, Role: types.RoleMember}, nil)
				mockStorage.EXPECT().GetRoleByID(gomock.Any(), testTenantID, "cr-1").Return(&types.CustomRole{ID: "cr-1", TenantID: testTenantID, Permissions: []string{"change_roles"}}, nil)
				mockStorage.EXPECT().UpdateUserRole(gomock.Any(), testTenantID, member.ID, types.RoleModerator).Return(nil)
			},
			expectedRole: types.RoleModerator,
		},
		{
			name:      "member without capability is denied",
			actor:     &types.AuthContext{UserID: "actor-3", TenantID: testTenantID, Role: types.RoleMember},
			targetID:  member.ID,
			requested: types.RoleModerator,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetUserByID(gomock.Any(), testTenantID, member.ID).Return(&types.User{ID: member.ID, TenantID: testTenantID, Role: types.RoleMember}, nil)
			},
			expectedKind: kinds.KindInvalidRoleTransition,
		},
		{
			name:      "self modification is denied",
			actor:     admin("target-1"),
			targetID:  member.ID,
			requested: types.RoleAdmin,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetUserByID(gomock.Any(), testTenantID, member.ID).Return(&types.User{ID: member.ID, TenantID: testTenantID, Role: types.RoleAdmin}, nil)
			},
			expectedKind: kinds.KindInvalidRoleTransition,
		},
		{
			name:      "owner is immutable",
			actor:     admin("actor-1"),
			targetID:  owner.ID,
			requested: types.RoleMember,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetUserByID(gomock.Any(), testTenantID, owner.ID).Return(&types.User{ID: owner.ID, TenantID: testTenantID, Role: types.RoleAdmin, IsTenantOwner: true}, nil)
			},
			expectedKind: kinds.KindInvalidRoleTransition,
		},
		{
			name:      "admin cannot touch admin peer",
			actor:     admin("actor-1"),
			targetID:  peerAdmin.ID,
			requested: types.RoleMember,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetUserByID(gomock.Any(), testTenantID, peerAdmin.ID).Return(&types.User{ID: peerAdmin.ID, TenantID: testTenantID, Role: types.RoleAdmin}, nil)
			},
			expectedKind: kinds.KindInvalidRoleTransition,
		},
		{
			name:      "invalid requested role",
			actor:     admin("actor-1"),
			targetID:  member.ID,
			requested: types.Role("SUPERUSER"),
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetUserByID(gomock.Any(), testTenantID, member.ID).Return(&types.User{ID: member.ID, TenantID: testTenantID, Role: types.RoleMember}, nil)
			},
			expectedKind: kinds.KindInvalidRoleTransition,
		},
		{
			name:      "target not found",
			actor:     admin("actor-1"),
			targetID:  "missing",
			requested: types.RoleModerator,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetUserByID(gomock.Any(), testTenantID, "missing").Return(nil, storage.ErrNotFound)
			},
			expectedErr: storage.ErrNotFound,
		},
		{
			name:      "storage failure surfaces",
			actor:     admin("actor-1"),
			targetID:  member.ID,
			requested: types.RoleModerator,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetUserByID(gomock.Any(), testTenantID, member.ID).Return(&types.User{ID: member.ID, TenantID: testTenantID, Role: types.RoleMember}, nil)
				mockStorage.EXPECT().UpdateUserRole(gomock.Any(), testTenantID, member.ID, types.RoleModerator).Return(dbErr)
			},
			expectedErr: dbErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			tc.setupMocks(mockStorage)

			updated, err := newTestService(mockStorage).ChangeRole(context.Background(), tc.actor, tc.targetID, tc.requested)

			if tc.expectedKind != 0 {
				if kinds.GetKind(err) != tc.expectedKind {
					t.Fatalf("expected kind %v, got %v", tc.expectedKind, err)
				}
				return
			}
			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if updated.Role != tc.expectedRole {
				t.Fatalf("expected role %s, got %s", tc.expectedRole, updated.Role)
			}
		})
	}
}

func TestService_AssignCustomRole(t *testing.T) {
	member := &types.User{ID: "target-1", TenantID: testTenantID, Role: types.RoleMember}

	testCases := []struct {
		name         string
		roleID       string
		setupMocks   func(*MockStorageInterface)
		expectedErr  error
		expectedKind kinds.Kind
	}{
		{
			name:   "assigns existing role",
			roleID: "cr-1",
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetUserByID(gomock.Any(), testTenantID, member.ID).Return(&types.User{ID: member.ID, TenantID: testTenantID, Role: types.RoleMember}, nil)
				mockStorage.EXPECT().GetRoleByID(gomock.Any(), testTenantID, "cr-1").Return(&types.CustomRole{ID: "cr-1", TenantID: testTenantID}, nil)
				mockStorage.EXPECT().SetUserCustomRole(gomock.Any(), testTenantID, member.ID, "cr-1").Return(nil)
			},
		},
		{
			name:   "clears assignment with empty role id",
			roleID: "",
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetUserByID(gomock.Any(), testTenantID, member.ID).Return(&types.User{ID: member.ID, TenantID: testTenantID, Role: types.RoleMember}, nil)
				mockStorage.EXPECT().SetUserCustomRole(gomock.Any(), testTenantID, member.ID, "").Return(nil)
			},
		},
		{
			name:   "unknown role",
			roleID: "missing",
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetUserByID(gomock.Any(), testTenantID, member.ID).Return(&types.User{ID: member.ID, TenantID: testTenantID, Role: types.RoleMember}, nil)
				mockStorage.EXPECT().GetRoleByID(gomock.Any(), testTenantID, "missing").Return(nil, storage.ErrNotFound)
			},
			expectedErr: storage.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			tc.setupMocks(mockStorage)

			err := newTestService(mockStorage).AssignCustomRole(context.Background(), admin("actor-1"), member.ID, tc.roleID)

			if tc.expectedKind != 0 {
				if kinds.GetKind(err) != tc.expectedKind {
					t.Fatalf("expected kind %v, got %v", tc.expectedKind, err)
				}
				return
			}
			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestService_CreateRoleNormalizesPermissions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().
		CreateRole(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, role *types.CustomRole) (*types.CustomRole, error) {
			for _, p := range role.Permissions {
				if p == "not-a-capability" {
					t.Errorf("unknown permission name was persisted")
				}
			}
			return role, nil
		})

	_, err := newTestService(mockStorage).CreateRole(context.Background(), testTenantID, RoleParams{
		Name:        "helper",
		DisplayName: "Helper",
		Permissions: []string{"ban_users", "not-a-capability"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestService_DefaultRolesAreImmutable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().UpdateRole(gomock.Any(), gomock.Any(), gomock.Any()).Return(storage.ErrImmutableRole)
	mockStorage.EXPECT().DeleteRole(gomock.Any(), testTenantID, "default-1").Return(storage.ErrImmutableRole)

	service := newTestService(mockStorage)

	_, err := service.UpdateRole(context.Background(), testTenantID, "default-1", RoleParams{DisplayName: "X"}, []string{"display_name"})
	if kinds.GetKind(err) != kinds.KindForbidden {
		t.Fatalf("expected forbidden for default-role update, got %v", err)
	}

	err = service.DeleteRole(context.Background(), testTenantID, "default-1")
	if kinds.GetKind(err) != kinds.KindForbidden {
		t.Fatalf("expected forbidden for default-role delete, got %v", err)
	}
}
