// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"

	"github.com/shopthread/community-service/internal/kinds"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/internal/types"
	"github.com/shopthread/community-service/pkg/authentication"
	"github.com/shopthread/community-service/pkg/tenant"
)

const (
	stateCookieName     = "community_login_state"
	stateCookieLifetime = 10 * time.Minute
)

// API serves the authentication surface: embedded token exchange, standalone
// OAuth login, session introspection and logout.
type API struct {
	tokens     authentication.SessionTokenValidatorInterface
	sessions   authentication.CookieSessionCodecInterface
	login      authentication.LoginVerifierInterface
	oauth      *oauth2.Config
	bootstrap  tenant.BootstrapInterface
	middleware *Middleware

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	tokens authentication.SessionTokenValidatorInterface,
	sessions authentication.CookieSessionCodecInterface,
	login authentication.LoginVerifierInterface,
	oauth *oauth2.Config,
	bootstrap tenant.BootstrapInterface,
	middleware *Middleware,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		tokens:     tokens,
		sessions:   sessions,
		login:      login,
		oauth:      oauth,
		bootstrap:  bootstrap,
		middleware: middleware,
		tracer:     tracer,
		monitor:    monitor,
		logger:     logger,
	}
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Post("/api/v0/auth/token", a.exchangeToken)
	mux.Get("/api/v0/auth/login", a.loginRedirect)
	mux.Get("/api/v0/auth/callback", a.loginCallback)
	mux.With(a.middleware.RequireAuth()).Get("/api/v0/auth/me", a.me)
	mux.Post("/api/v0/auth/logout", a.logout)
}

type exchangeTokenRequest struct {
	SessionToken string `json:"session_token"`
}

type authContextResponse struct {
	UserID        string `json:"user_id"`
	TenantID      string `json:"tenant_id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	CustomRoleID  string `json:"custom_role_id,omitempty"`
	IsTenantOwner bool   `json:"is_tenant_owner"`
	IsBanned      bool   `json:"is_banned"`
	AuthMethod    string `json:"auth_method"`
}

// exchangeToken upgrades a platform session token into a local session
// cookie so the embedded frontend stops re-sending the short-lived token on
// every request.
func (a *API) exchangeToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "identity.API.exchangeToken")
	defer span.End()

	t, ok := tenant.FromContext(ctx)
	if !ok {
		kinds.WriteError(w, kinds.ErrTenantNotFound)
		return
	}

	raw := bearerToken(r)
	if raw == "" {
		var payload exchangeTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			raw = payload.SessionToken
		}
	}
	if raw == "" {
		kinds.WriteError(w, kinds.ErrUnauthenticated)
		return
	}

	claims, err := a.tokens.Validate(raw)
	if err != nil {
		a.logger.Security().AuthnFailure("session-token", err.Error())
		kinds.WriteError(w, kinds.ErrUnauthenticated)
		return
	}
	if claims.TenantDomain != t.Domain {
		a.logger.Security().AuthnFailure(claims.Email, fmt.Sprintf("token for domain %s exchanged against tenant %s", claims.TenantDomain, t.Domain))
		kinds.WriteError(w, kinds.ErrUnauthenticated)
		return
	}

	u, err := a.bootstrap.EnsureUser(ctx, t.ID, claims.Email)
	if err != nil {
		a.logger.Errorf("failed to provision user for token exchange: %v", err)
		kinds.WriteError(w, err)
		return
	}

	if err := a.issueSession(w, u, true); err != nil {
		a.logger.Errorf("failed to issue session: %v", err)
		kinds.WriteError(w, err)
		return
	}

	a.writeAuthContext(w, authContextFromUser(u, types.AuthMethodSessionToken))
}

// loginRedirect starts the standalone authorization-code flow.
func (a *API) loginRedirect(w http.ResponseWriter, r *http.Request) {
	if a.oauth == nil {
		kinds.WriteError(w, kinds.ErrUnauthenticated)
		return
	}

	state, err := randomState()
	if err != nil {
		a.logger.Errorf("failed to generate login state: %v", err)
		kinds.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateCookieLifetime.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, a.oauth.AuthCodeURL(state), http.StatusFound)
}

// loginCallback finishes the flow: code exchange, ID token verification and
// local session issuance.
func (a *API) loginCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "identity.API.loginCallback")
	defer span.End()

	if a.oauth == nil || a.login == nil {
		kinds.WriteError(w, kinds.ErrUnauthenticated)
		return
	}

	t, ok := tenant.FromContext(ctx)
	if !ok {
		kinds.WriteError(w, kinds.ErrTenantNotFound)
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		a.logger.Security().AuthnFailure("oauth-login", "state mismatch on callback")
		kinds.WriteError(w, kinds.ErrUnauthenticated)
		return
	}

	token, err := a.oauth.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		a.logger.Security().AuthnFailure("oauth-login", err.Error())
		kinds.WriteError(w, kinds.ErrUnauthenticated)
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		a.logger.Security().AuthnFailure("oauth-login", "token response carries no id_token")
		kinds.WriteError(w, kinds.ErrUnauthenticated)
		return
	}

	subject, email, err := a.login.VerifyIDToken(ctx, rawIDToken)
	if err != nil {
		a.logger.Security().AuthnFailure(subject, err.Error())
		kinds.WriteError(w, kinds.ErrUnauthenticated)
		return
	}

	u, err := a.bootstrap.EnsureUser(ctx, t.ID, email)
	if err != nil {
		a.logger.Errorf("failed to provision user for login: %v", err)
		kinds.WriteError(w, err)
		return
	}

	if err := a.issueSession(w, u, false); err != nil {
		a.logger.Errorf("failed to issue session: %v", err)
		kinds.WriteError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	actx, ok := FromContext(r.Context())
	if !ok {
		kinds.WriteError(w, kinds.ErrUnauthenticated)
		return
	}
	a.writeAuthContext(w, actx)
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	authentication.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) issueSession(w http.ResponseWriter, u *types.User, embedded bool) error {
	value, err := a.sessions.Encode(authentication.SessionClaims{
		UserID:        u.ID,
		TenantID:      u.TenantID,
		Email:         u.Email,
		Role:          u.Role,
		IsTenantOwner: u.IsTenantOwner,
	})
	if err != nil {
		return err
	}

	authentication.WriteSessionCookie(w, value, embedded)
	return nil
}

func (a *API) writeAuthContext(w http.ResponseWriter, actx *types.AuthContext) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(authContextResponse{
		UserID:        actx.UserID,
		TenantID:      actx.TenantID,
		Email:         actx.Email,
		Role:          string(actx.Role),
		CustomRoleID:  actx.CustomRoleID,
		IsTenantOwner: actx.IsTenantOwner,
		IsBanned:      actx.IsBanned,
		AuthMethod:    string(actx.AuthMethod),
	})
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
