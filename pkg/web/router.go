// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"
	cors "github.com/go-chi/cors"
	"golang.org/x/oauth2"

	"github.com/shopthread/community-service/internal/db"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/storage"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/pkg/authentication"
	"github.com/shopthread/community-service/pkg/identity"
	"github.com/shopthread/community-service/pkg/metrics"
	"github.com/shopthread/community-service/pkg/roles"
	"github.com/shopthread/community-service/pkg/status"
	"github.com/shopthread/community-service/pkg/tenant"
	"github.com/shopthread/community-service/pkg/users"
)

func NewRouter(
	store storage.TenantStoreInterface,
	dbClient db.DBClientInterface,
	tokens authentication.SessionTokenValidatorInterface,
	sessions authentication.CookieSessionCodecInterface,
	login authentication.LoginVerifierInterface,
	oauth *oauth2.Config,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS([]string{"*"}),
	)

	router.Use(middlewares...)

	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(tracer, monitor, logger).RegisterEndpoints(router)

	tenantResolver := tenant.NewResolver(store, dbClient, tracer, monitor, logger)
	bootstrap := tenant.NewBootstrap(store, dbClient, tracer, monitor, logger)
	identityResolver := identity.NewResolver(tokens, sessions, bootstrap, store, tracer, monitor, logger)
	identityMiddleware := identity.NewMiddleware(identityResolver, tracer, monitor, logger)

	// Everything below is tenant-scoped. Requests that cannot be pinned to a
	// tenant never reach a handler.
	router.Group(func(r chi.Router) {
		r.Use(tenantResolver.Middleware())
		r.Use(db.TransactionMiddleware(dbClient, logger))

		tenant.NewAPI(bootstrap, identityMiddleware, tracer, monitor, logger).RegisterEndpoints(r)
		identity.NewAPI(tokens, sessions, login, oauth, bootstrap, identityMiddleware, tracer, monitor, logger).RegisterEndpoints(r)
		roles.NewAPI(roles.NewService(store, tracer, monitor, logger), identityMiddleware, tracer, monitor, logger).RegisterEndpoints(r)
		users.NewAPI(users.NewService(store, tracer, monitor, logger), identityMiddleware, tracer, monitor, logger).RegisterEndpoints(r)
	})

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}

// middlewareCORS is permissive on origins but explicit on methods and
// headers; the session cookie is the credential, so browsers need
// Access-Control-Allow-Credentials on every preflight.
func middlewareCORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
