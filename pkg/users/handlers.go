// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/shopthread/community-service/internal/authorization"
	"github.com/shopthread/community-service/internal/kinds"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/storage"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/internal/types"
	"github.com/shopthread/community-service/pkg/identity"
	"github.com/shopthread/community-service/pkg/tenant"
)

type API struct {
	service ServiceInterface
	guard   GuardInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	service ServiceInterface,
	guard GuardInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		service: service,
		guard:   guard,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.With(a.guard.RequireCapability(authorization.CapabilityListUsers)).
		Get("/api/v0/users", a.listUsers)
	mux.With(a.guard.RequireCapability(authorization.CapabilityBanUsers)).
		Post("/api/v0/users/{id}/ban", a.ban)
	mux.With(a.guard.RequireCapability(authorization.CapabilityBanUsers)).
		Delete("/api/v0/users/{id}/ban", a.unban)
}

type userResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	CustomRoleID  string    `json:"custom_role_id,omitempty"`
	IsTenantOwner bool      `json:"is_tenant_owner"`
	IsBanned      bool      `json:"is_banned"`
	CreatedAt     time.Time `json:"created_at"`
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "users.API.listUsers")
	defer span.End()

	t, ok := tenant.FromContext(ctx)
	if !ok {
		kinds.WriteError(w, kinds.ErrTenantNotFound)
		return
	}

	list, err := a.service.ListUsers(ctx, t.ID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (a *API) ban(w http.ResponseWriter, r *http.Request) {
	a.setBanned(w, r, true)
}

func (a *API) unban(w http.ResponseWriter, r *http.Request) {
	a.setBanned(w, r, false)
}

func (a *API) setBanned(w http.ResponseWriter, r *http.Request, banned bool) {
	ctx, span := a.tracer.Start(r.Context(), "users.API.setBanned")
	defer span.End()

	actor, ok := identity.FromContext(ctx)
	if !ok {
		kinds.WriteError(w, kinds.ErrUnauthenticated)
		return
	}

	updated, err := a.service.SetBanned(ctx, actor, chi.URLParam(r, "id"), banned)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toUserResponse(updated))
}

func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  http.StatusNotFound,
			"message": "resource not found",
		})
		return
	}

	if kinds.GetKind(err) == 0 {
		a.logger.Errorf("user operation failed: %v", err)
	}
	kinds.WriteError(w, err)
}

func toUserResponse(u *types.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		CustomRoleID:  u.CustomRoleID,
		IsTenantOwner: u.IsTenantOwner,
		IsBanned:      u.IsBanned,
		CreatedAt:     u.CreatedAt,
	}
}
