// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-jwt/jwt/v5"

	"github.com/shopthread/community-service/internal/authorization"
	"github.com/shopthread/community-service/internal/kinds"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/storage"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/internal/types"
	"github.com/shopthread/community-service/pkg/authentication"
	"github.com/shopthread/community-service/pkg/tenant"
)

const (
	testPlatformSecret = "platform-shared-secret"
	testAudience       = "app-api-key"
	testSessionSecret  = "session-signing-secret"
)

type passthroughDB struct{}

func (passthroughDB) Statement(context.Context) sq.StatementBuilderType {
	return sq.StatementBuilder
}

func (passthroughDB) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (passthroughDB) WithSerializableTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (passthroughDB) Close() {}

type fixture struct {
	store    *storage.InMemoryTenantStore
	codec    *authentication.CookieSessionCodec
	resolver *Resolver
	tenant   *types.Tenant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := storage.NewInMemoryTenantStore()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor()
	logger := logging.NewNoopLogger()

	created, err := store.CreateTenant(context.Background(), "acme.example", "acme.example")
	if err != nil {
		t.Fatalf("failed to create tenant: %v", err)
	}

	validator := authentication.NewSessionTokenValidator(testPlatformSecret, testAudience, tracer, monitor, logger)
	codec := authentication.NewCookieSessionCodec(testSessionSecret, tracer, monitor, logger)
	bootstrap := tenant.NewBootstrap(store, passthroughDB{}, tracer, monitor, logger)

	return &fixture{
		store:    store,
		codec:    codec,
		resolver: NewResolver(validator, codec, bootstrap, store, tracer, monitor, logger),
		tenant:   created,
	}
}

func (f *fixture) request(t *testing.T) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v0/auth/me", nil)
	return req.WithContext(tenant.WithTenant(req.Context(), f.tenant))
}

func signPlatformToken(t *testing.T, dest string) string {
	t.Helper()
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"dest": dest,
		"sub":  "90210",
		"aud":  testAudience,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(testPlatformSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func (f *fixture) sessionCookie(t *testing.T, u *types.User) *http.Cookie {
	t.Helper()
	value, err := f.codec.Encode(authentication.SessionClaims{
		UserID:        u.ID,
		TenantID:      u.TenantID,
		Email:         u.Email,
		Role:          u.Role,
		IsTenantOwner: u.IsTenantOwner,
	})
	if err != nil {
		t.Fatalf("failed to encode session: %v", err)
	}
	return &http.Cookie{Name: authentication.SessionCookieName, Value: value}
}

func TestResolveSessionTokenProvisionsUser(t *testing.T) {
	f := newFixture(t)

	req := f.request(t)
	req.Header.Set("Authorization", "Bearer "+signPlatformToken(t, "https://acme.example"))

	actx, err := f.resolver.Resolve(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if actx.AuthMethod != types.AuthMethodSessionToken {
		t.Errorf("expected auth method %s, got %s", types.AuthMethodSessionToken, actx.AuthMethod)
	}
	if actx.TenantID != f.tenant.ID {
		t.Errorf("expected tenant %s, got %s", f.tenant.ID, actx.TenantID)
	}
	// First identity ever seen for the tenant owns it.
	if actx.Role != types.RoleAdmin || !actx.IsTenantOwner {
		t.Errorf("expected bootstrapped owner admin, got role %s owner %v", actx.Role, actx.IsTenantOwner)
	}

	again, err := f.resolver.Resolve(req)
	if err != nil {
		t.Fatalf("expected no error on repeat, got %v", err)
	}
	if again.UserID != actx.UserID {
		t.Errorf("expected the same user on repeat resolution")
	}
}

func TestResolveSessionTokenTenantMismatch(t *testing.T) {
	f := newFixture(t)

	req := f.request(t)
	req.Header.Set("Authorization", "Bearer "+signPlatformToken(t, "https://other-shop.example"))

	_, err := f.resolver.Resolve(req)
	if kinds.GetKind(err) != kinds.KindUnauthenticated {
		t.Fatalf("expected unauthenticated for cross-tenant token, got %v", err)
	}
}

func TestResolveSessionTokenInvalid(t *testing.T) {
	f := newFixture(t)

	req := f.request(t)
	req.Header.Set("Authorization", "Bearer not-a-token")

	_, err := f.resolver.Resolve(req)
	if kinds.GetKind(err) != kinds.KindUnauthenticated {
		t.Fatalf("expected unauthenticated for malformed token, got %v", err)
	}
}

func TestResolveCookieSessionRefreshesState(t *testing.T) {
	f := newFixture(t)

	u, err := f.store.CreateUser(context.Background(), &types.User{
		TenantID: f.tenant.ID,
		Email:    "member@acme.example",
		Role:     types.RoleMember,
	})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	cookie := f.sessionCookie(t, u)

	req := f.request(t)
	req.AddCookie(cookie)

	actx, err := f.resolver.Resolve(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if actx.AuthMethod != types.AuthMethodCookieSession {
		t.Errorf("expected auth method %s, got %s", types.AuthMethodCookieSession, actx.AuthMethod)
	}
	if actx.Role != types.RoleMember {
		t.Errorf("expected role %s, got %s", types.RoleMember, actx.Role)
	}

	// A promotion after the session was issued must be visible immediately.
	if err := f.store.UpdateUserRole(context.Background(), f.tenant.ID, u.ID, types.RoleModerator); err != nil {
		t.Fatalf("failed to update role: %v", err)
	}

	req = f.request(t)
	req.AddCookie(cookie)
	actx, err = f.resolver.Resolve(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if actx.Role != types.RoleModerator {
		t.Errorf("expected refreshed role %s, got %s", types.RoleModerator, actx.Role)
	}
}

func TestResolveCookieSessionTenantMismatch(t *testing.T) {
	f := newFixture(t)

	other, err := f.store.CreateTenant(context.Background(), "rival.example", "rival.example")
	if err != nil {
		t.Fatalf("failed to create second tenant: %v", err)
	}
	u, err := f.store.CreateUser(context.Background(), &types.User{
		TenantID: other.ID,
		Email:    "member@rival.example",
		Role:     types.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	// A perfectly valid session for tenant B presented to tenant A.
	req := f.request(t)
	req.AddCookie(f.sessionCookie(t, u))

	_, err = f.resolver.Resolve(req)
	if kinds.GetKind(err) != kinds.KindUnauthenticated {
		t.Fatalf("expected unauthenticated for cross-tenant session, got %v", err)
	}
}

func TestResolveCookieSessionDeletedUser(t *testing.T) {
	f := newFixture(t)

	ghost := &types.User{
		ID:       "no-such-user",
		TenantID: f.tenant.ID,
		Email:    "ghost@acme.example",
		Role:     types.RoleMember,
	}

	req := f.request(t)
	req.AddCookie(f.sessionCookie(t, ghost))

	_, err := f.resolver.Resolve(req)
	if kinds.GetKind(err) != kinds.KindUnauthenticated {
		t.Fatalf("expected unauthenticated for deleted user, got %v", err)
	}
}

func TestResolveNoCredential(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver.Resolve(f.request(t))
	if kinds.GetKind(err) != kinds.KindUnauthenticated {
		t.Fatalf("expected unauthenticated without credentials, got %v", err)
	}
}

func TestResolveBannedUserStillResolves(t *testing.T) {
	f := newFixture(t)

	u, err := f.store.CreateUser(context.Background(), &types.User{
		TenantID: f.tenant.ID,
		Email:    "banned@acme.example",
		Role:     types.RoleMember,
		IsBanned: true,
	})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	req := f.request(t)
	req.AddCookie(f.sessionCookie(t, u))

	actx, err := f.resolver.Resolve(req)
	if err != nil {
		t.Fatalf("expected banned user to resolve, got %v", err)
	}
	if !actx.IsBanned {
		t.Error("expected resolved context to carry the ban flag")
	}
}

func TestCapabilities(t *testing.T) {
	f := newFixture(t)

	role, err := f.store.CreateRole(context.Background(), &types.CustomRole{
		TenantID:    f.tenant.ID,
		Name:        "helper",
		DisplayName: "Helper",
		Permissions: []string{"ban_users", "not-a-capability"},
	})
	if err != nil {
		t.Fatalf("failed to create role: %v", err)
	}

	testCases := []struct {
		name     string
		actx     *types.AuthContext
		expected []authorization.Capability
		denied   []authorization.Capability
	}{
		{
			name:     "base member grant",
			actx:     &types.AuthContext{TenantID: f.tenant.ID, Role: types.RoleMember},
			expected: []authorization.Capability{authorization.CapabilityAuthorContent},
			denied:   []authorization.Capability{authorization.CapabilityBanUsers, authorization.CapabilityManageTenant},
		},
		{
			name:     "custom role widens member",
			actx:     &types.AuthContext{TenantID: f.tenant.ID, Role: types.RoleMember, CustomRoleID: role.ID},
			expected: []authorization.Capability{authorization.CapabilityAuthorContent, authorization.CapabilityBanUsers},
			denied:   []authorization.Capability{authorization.CapabilityManageTenant},
		},
		{
			name:     "dangling custom role grants nothing extra",
			actx:     &types.AuthContext{TenantID: f.tenant.ID, Role: types.RoleMember, CustomRoleID: "gone"},
			expected: []authorization.Capability{authorization.CapabilityAuthorContent},
			denied:   []authorization.Capability{authorization.CapabilityBanUsers},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			caps, err := f.resolver.Capabilities(context.Background(), tc.actx)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			for _, c := range tc.expected {
				if !caps.Has(c) {
					t.Errorf("expected capability %s", c)
				}
			}
			for _, c := range tc.denied {
				if caps.Has(c) {
					t.Errorf("did not expect capability %s", c)
				}
			}
		})
	}
}
