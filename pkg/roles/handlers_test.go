// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package roles

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chi "github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/shopthread/community-service/internal/kinds"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/tracing"
)

func rejectingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kinds.WriteError(w, kinds.ErrUnauthenticated)
	})
}

func passthroughMiddleware(next http.Handler) http.Handler {
	return next
}

// Every role route sits behind the guard; the listing is no exception, so an
// unauthenticated caller never learns a tenant's permission layout.
func TestRegisterEndpointsGuardsRoleListing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockServiceInterface(ctrl)
	mockGuard := NewMockGuardInterface(ctrl)

	mockGuard.EXPECT().RequireAuth().Return(rejectingMiddleware)
	mockGuard.EXPECT().RequireCapability(gomock.Any()).Return(passthroughMiddleware).AnyTimes()

	mux := chi.NewMux()
	NewAPI(
		mockService,
		mockGuard,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	).RegisterEndpoints(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v0/roles", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}
