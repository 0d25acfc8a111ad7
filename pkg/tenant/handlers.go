// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/shopthread/community-service/internal/authorization"
	"github.com/shopthread/community-service/internal/kinds"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/tracing"
)

type API struct {
	bootstrap BootstrapInterface
	guard     GuardInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	bootstrap BootstrapInterface,
	guard GuardInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		bootstrap: bootstrap,
		guard:     guard,
		tracer:    tracer,
		monitor:   monitor,
		logger:    logger,
	}
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/tenants/current", a.current)
	mux.With(a.guard.RequireCapability(authorization.CapabilityManageTenant)).
		Post("/api/v0/tenants/repair-owner", a.repairOwner)
}

type tenantResponse struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *API) current(w http.ResponseWriter, r *http.Request) {
	t, ok := FromContext(r.Context())
	if !ok {
		kinds.WriteError(w, kinds.ErrTenantNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tenantResponse{
		ID:        t.ID,
		Domain:    t.Domain,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
	})
}

func (a *API) repairOwner(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.repairOwner")
	defer span.End()

	t, ok := FromContext(ctx)
	if !ok {
		kinds.WriteError(w, kinds.ErrTenantNotFound)
		return
	}

	// Only promotion of an existing member over the API. Emergency account
	// creation stays on the offline repair-owner command.
	repaired, err := a.bootstrap.RepairOwner(ctx, t.ID, "")
	if err != nil {
		if kinds.GetKind(err) == 0 {
			a.logger.Errorf("owner repair failed for tenant %s: %v", t.ID, err)
		}
		kinds.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"owner_user_id": repaired.ID,
		"role":          repaired.Role,
	})
}
