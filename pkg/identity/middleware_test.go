// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopthread/community-service/internal/authorization"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/internal/types"
)

func newTestMiddleware(f *fixture) *Middleware {
	return NewMiddleware(
		f.resolver,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	f := newFixture(t)
	mw := newTestMiddleware(f)

	u, err := f.store.CreateUser(context.Background(), &types.User{
		TenantID: f.tenant.ID,
		Email:    "member@acme.example",
		Role:     types.RoleMember,
	})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	t.Run("valid session reaches the handler", func(t *testing.T) {
		var called bool
		handler := mw.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actx, ok := FromContext(r.Context())
			if !ok || actx.UserID != u.ID {
				t.Error("expected the resolved identity on the context")
			}
			called = true
		}))

		req := f.request(t)
		req.AddCookie(f.sessionCookie(t, u))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !called {
			t.Fatal("expected the handler to run")
		}
	})

	t.Run("missing credential is rejected", func(t *testing.T) {
		var called bool
		handler := mw.RequireAuth()(okHandler(&called))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, f.request(t))

		if called {
			t.Fatal("handler must not run without a credential")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})
}

func TestRequireCapability(t *testing.T) {
	f := newFixture(t)
	mw := newTestMiddleware(f)

	testCases := []struct {
		name           string
		actx           *types.AuthContext
		capability     authorization.Capability
		expectedStatus int
	}{
		{
			name:           "admin holds list users",
			actx:           &types.AuthContext{UserID: "u1", TenantID: f.tenant.ID, Role: types.RoleAdmin},
			capability:     authorization.CapabilityListUsers,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "member lacks list users",
			actx:           &types.AuthContext{UserID: "u2", TenantID: f.tenant.ID, Role: types.RoleMember},
			capability:     authorization.CapabilityListUsers,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "moderator lacks manage roles",
			actx:           &types.AuthContext{UserID: "u3", TenantID: f.tenant.ID, Role: types.RoleModerator},
			capability:     authorization.CapabilityManageRoles,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "banned admin is denied everything",
			actx:           &types.AuthContext{UserID: "u4", TenantID: f.tenant.ID, Role: types.RoleAdmin, IsBanned: true},
			capability:     authorization.CapabilityListUsers,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var called bool
			handler := mw.RequireCapability(tc.capability)(okHandler(&called))

			req := f.request(t)
			req = req.WithContext(WithAuthContext(req.Context(), tc.actx))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d", tc.expectedStatus, rec.Code)
			}
			if called != (tc.expectedStatus == http.StatusOK) {
				t.Fatalf("handler called = %v for status %d", called, tc.expectedStatus)
			}
		})
	}

	t.Run("unauthenticated context is rejected", func(t *testing.T) {
		var called bool
		handler := mw.RequireCapability(authorization.CapabilityListUsers)(okHandler(&called))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, f.request(t))

		if called {
			t.Fatal("handler must not run without an identity")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})
}
