// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package roles

import (
	"encoding/json"
	"errors"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

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

	validate *validator.Validate
	tracer   tracing.TracingInterface
	monitor  monitoring.MonitorInterface
	logger   logging.LoggerInterface
}

func NewAPI(
	service ServiceInterface,
	guard GuardInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		service:  service,
		guard:    guard,
		validate: validator.New(),
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.With(a.guard.RequireCapability(authorization.CapabilityChangeRoles)).
		Patch("/api/v0/users/{id}/role", a.changeRole)

	mux.With(a.guard.RequireAuth()).Get("/api/v0/roles", a.listRoles)
	mux.With(a.guard.RequireCapability(authorization.CapabilityManageRoles)).
		Post("/api/v0/roles", a.createRole)
	mux.With(a.guard.RequireCapability(authorization.CapabilityManageRoles)).
		Patch("/api/v0/roles/{id}", a.updateRole)
	mux.With(a.guard.RequireCapability(authorization.CapabilityManageRoles)).
		Delete("/api/v0/roles/{id}", a.deleteRole)
}

type changeRoleRequest struct {
	Role         *string `json:"role" validate:"omitempty,oneof=ADMIN MODERATOR MEMBER"`
	CustomRoleID *string `json:"custom_role_id" validate:"omitempty,max=64"`
}

type roleRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=64"`
	DisplayName string   `json:"display_name" validate:"required,min=1,max=128"`
	Color       string   `json:"color" validate:"omitempty,hexcolor"`
	Permissions []string `json:"permissions" validate:"dive,max=64"`
}

type roleUpdateRequest struct {
	DisplayName *string   `json:"display_name" validate:"omitempty,min=1,max=128"`
	Color       *string   `json:"color" validate:"omitempty,hexcolor"`
	Permissions *[]string `json:"permissions" validate:"omitempty,dive,max=64"`
}

type roleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Color       string   `json:"color,omitempty"`
	Permissions []string `json:"permissions"`
	IsDefault   bool     `json:"is_default"`
}

func (a *API) changeRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "roles.API.changeRole")
	defer span.End()

	actor, ok := identity.FromContext(ctx)
	if !ok {
		kinds.WriteError(w, kinds.ErrUnauthenticated)
		return
	}

	var payload changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if err := a.validate.Struct(payload); err != nil {
		badRequest(w, "invalid request payload")
		return
	}
	if payload.Role == nil && payload.CustomRoleID == nil {
		badRequest(w, "nothing to change")
		return
	}

	targetID := chi.URLParam(r, "id")

	if payload.Role != nil {
		updated, err := a.service.ChangeRole(ctx, actor, targetID, types.Role(*payload.Role))
		if err != nil {
			a.writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"user_id": updated.ID,
			"role":    updated.Role,
		})
		return
	}

	if err := a.service.AssignCustomRole(ctx, actor, targetID, *payload.CustomRoleID); err != nil {
		a.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listRoles(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "roles.API.listRoles")
	defer span.End()

	t, ok := tenant.FromContext(ctx)
	if !ok {
		kinds.WriteError(w, kinds.ErrTenantNotFound)
		return
	}

	list, err := a.service.ListRoles(ctx, t.ID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	out := make([]roleResponse, 0, len(list))
	for _, role := range list {
		out = append(out, toRoleResponse(role))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (a *API) createRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "roles.API.createRole")
	defer span.End()

	t, ok := tenant.FromContext(ctx)
	if !ok {
		kinds.WriteError(w, kinds.ErrTenantNotFound)
		return
	}

	var payload roleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if err := a.validate.Struct(payload); err != nil {
		badRequest(w, "invalid request payload")
		return
	}

	created, err := a.service.CreateRole(ctx, t.ID, RoleParams{
		Name:        payload.Name,
		DisplayName: payload.DisplayName,
		Color:       payload.Color,
		Permissions: payload.Permissions,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toRoleResponse(created))
}

func (a *API) updateRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "roles.API.updateRole")
	defer span.End()

	t, ok := tenant.FromContext(ctx)
	if !ok {
		kinds.WriteError(w, kinds.ErrTenantNotFound)
		return
	}

	var payload roleUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if err := a.validate.Struct(payload); err != nil {
		badRequest(w, "invalid request payload")
		return
	}

	var params RoleParams
	var paths []string
	if payload.DisplayName != nil {
		params.DisplayName = *payload.DisplayName
		paths = append(paths, "display_name")
	}
	if payload.Color != nil {
		params.Color = *payload.Color
		paths = append(paths, "color")
	}
	if payload.Permissions != nil {
		params.Permissions = *payload.Permissions
		paths = append(paths, "permissions")
	}
	if len(paths) == 0 {
		badRequest(w, "nothing to update")
		return
	}

	updated, err := a.service.UpdateRole(ctx, t.ID, chi.URLParam(r, "id"), params, paths)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toRoleResponse(updated))
}

func (a *API) deleteRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "roles.API.deleteRole")
	defer span.End()

	t, ok := tenant.FromContext(ctx)
	if !ok {
		kinds.WriteError(w, kinds.ErrTenantNotFound)
		return
	}

	if err := a.service.DeleteRole(ctx, t.ID, chi.URLParam(r, "id")); err != nil {
		a.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
		a.logger.Errorf("role operation failed: %v", err)
	}
	kinds.WriteError(w, err)
}

func badRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  http.StatusBadRequest,
		"message": message,
	})
}

func toRoleResponse(role *types.CustomRole) roleResponse {
	permissions := role.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return roleResponse{
		ID:          role.ID,
		Name:        role.Name,
		DisplayName: role.DisplayName,
		Color:       role.Color,
		Permissions: permissions,
		IsDefault:   role.IsDefault,
	}
}
