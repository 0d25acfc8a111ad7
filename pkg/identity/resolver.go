// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package identity resolves who is making a request. Credential sources are
// tried in a fixed order: platform session tokens presented by the embedded
// frontend, then the locally-issued session cookie used standalone.
// Resolution answers "who is this", never "may they do this"; banned users
// resolve normally and are denied later at the capability gate.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

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

// CredentialSource extracts one kind of credential from a request and turns
// it into an identity. Resolve reports false when the request carries no
// credential of this kind at all; a present-but-invalid credential is an
// error, never a fallthrough to the next source.
type CredentialSource interface {
	Resolve(ctx context.Context, t *types.Tenant, req *http.Request) (*types.AuthContext, bool, error)
}

type Resolver struct {
	sources []CredentialSource
	store   storage.TenantStoreInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewResolver(
	tokens authentication.SessionTokenValidatorInterface,
	sessions authentication.CookieSessionCodecInterface,
	bootstrap tenant.BootstrapInterface,
	store storage.TenantStoreInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Resolver {
	return &Resolver{
		sources: []CredentialSource{
			&sessionTokenSource{tokens: tokens, bootstrap: bootstrap, logger: logger},
			&cookieSessionSource{sessions: sessions, store: store, logger: logger},
		},
		store:   store,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// Resolve authenticates req against the tenant already attached to its
// context. Sources are tried in registration order; the first one that finds
// a credential decides the outcome. Every failure surfaces as
// Unauthenticated; the distinguishing detail goes to the security log only.
func (r *Resolver) Resolve(req *http.Request) (*types.AuthContext, error) {
	ctx, span := r.tracer.Start(req.Context(), "identity.Resolver.Resolve")
	defer span.End()

	t, ok := tenant.FromContext(ctx)
	if !ok {
		return nil, kinds.ErrTenantNotFound
	}

	for _, source := range r.sources {
		actx, found, err := source.Resolve(ctx, t, req)
		if !found {
			continue
		}
		if err != nil {
			return nil, err
		}
		return actx, nil
	}

	return nil, kinds.ErrUnauthenticated
}

// Capabilities computes the effective capability set for a resolved identity,
// widening the base role grant with the custom role's permissions when one is
// assigned. A dangling custom role grants nothing extra.
func (r *Resolver) Capabilities(ctx context.Context, actx *types.AuthContext) (authorization.CapabilitySet, error) {
	if actx.CustomRoleID == "" {
		return authorization.BaseCapabilities(actx.Role), nil
	}

	role, err := r.store.GetRoleByID(ctx, actx.TenantID, actx.CustomRoleID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return authorization.BaseCapabilities(actx.Role), nil
		}
		return 0, fmt.Errorf("failed to load custom role: %w", err)
	}

	return authorization.EffectiveCapabilities(actx.Role, authorization.ParseCapabilitySet(role.Permissions)), nil
}

// sessionTokenSource authenticates bearer tokens minted by the embedding
// platform.
type sessionTokenSource struct {
	tokens    authentication.SessionTokenValidatorInterface
	bootstrap tenant.BootstrapInterface
	logger    logging.LoggerInterface
}

func (s *sessionTokenSource) Resolve(ctx context.Context, t *types.Tenant, req *http.Request) (*types.AuthContext, bool, error) {
	raw := bearerToken(req)
	if raw == "" {
		return nil, false, nil
	}

	claims, err := s.tokens.Validate(raw)
	if err != nil {
		s.logger.Security().AuthnFailure("session-token", err.Error())
		return nil, true, kinds.ErrUnauthenticated
	}

	// A token minted for another shop must not open a session here, even
	// when it is otherwise valid.
	if claims.TenantDomain != t.Domain {
		s.logger.Security().AuthnFailure(claims.Email, fmt.Sprintf("token for domain %s presented to tenant %s", claims.TenantDomain, t.Domain))
		return nil, true, kinds.ErrUnauthenticated
	}

	// The platform vouched for this identity, so an unknown user is
	// provisioned on the spot.
	u, err := s.bootstrap.EnsureUser(ctx, t.ID, claims.Email)
	if err != nil {
		return nil, true, fmt.Errorf("failed to provision user: %w", err)
	}

	return authContextFromUser(u, types.AuthMethodSessionToken), true, nil
}

// cookieSessionSource authenticates the locally-issued session cookie.
type cookieSessionSource struct {
	sessions authentication.CookieSessionCodecInterface
	store    storage.TenantStoreInterface
	logger   logging.LoggerInterface
}

func (s *cookieSessionSource) Resolve(ctx context.Context, t *types.Tenant, req *http.Request) (*types.AuthContext, bool, error) {
	cookie, err := req.Cookie(authentication.SessionCookieName)
	if err != nil {
		return nil, false, nil
	}

	claims, err := s.sessions.Decode(cookie.Value)
	if err != nil {
		s.logger.Security().AuthnFailure("cookie-session", err.Error())
		return nil, true, kinds.ErrUnauthenticated
	}

	if claims.TenantID != t.ID {
		s.logger.Security().AuthnFailure(claims.Email, fmt.Sprintf("session for tenant %s presented to tenant %s", claims.TenantID, t.ID))
		return nil, true, kinds.ErrUnauthenticated
	}

	// Role and ban state are re-read on every request so a session issued
	// before a demotion or ban does not keep its stale privileges.
	u, err := s.store.GetUserByID(ctx, t.ID, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Security().AuthnFailure(claims.Email, "session for deleted user")
			return nil, true, kinds.ErrUnauthenticated
		}
		return nil, true, fmt.Errorf("failed to load session user: %w", err)
	}

	return authContextFromUser(u, types.AuthMethodCookieSession), true, nil
}

func authContextFromUser(u *types.User, method types.AuthMethod) *types.AuthContext {
	return &types.AuthContext{
		UserID:        u.ID,
		TenantID:      u.TenantID,
		Email:         u.Email,
		Role:          u.Role,
		CustomRoleID:  u.CustomRoleID,
		IsTenantOwner: u.IsTenantOwner,
		IsBanned:      u.IsBanned,
		AuthMethod:    method,
	}
}

func bearerToken(req *http.Request) string {
	header := req.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
