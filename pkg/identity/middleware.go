// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"fmt"
	"net/http"

	"github.com/shopthread/community-service/internal/authorization"
	"github.com/shopthread/community-service/internal/kinds"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/tracing"
)

// Middleware gates routes on authentication and on effective capabilities.
type Middleware struct {
	resolver ResolverInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewMiddleware(
	resolver ResolverInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Middleware {
	return &Middleware{
		resolver: resolver,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}

// RequireAuth resolves the caller's identity and attaches it to the request
// context. Requests without a valid credential are rejected. Idempotent: an
// identity resolved by an outer instance is reused.
func (m *Middleware) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			actx, err := m.resolver.Resolve(r)
			if err != nil {
				if kinds.GetKind(err) == 0 {
					m.logger.Errorf("identity resolution failed: %v", err)
				}
				kinds.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), actx)))
		})
	}
}

// RequireCapability denies the request unless the caller holds the
// capability. Banned users hold nothing. Resolves the identity itself when no
// outer RequireAuth has run yet.
func (m *Middleware) RequireCapability(capability authorization.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actx, ok := FromContext(r.Context())
			if !ok {
				kinds.WriteError(w, kinds.ErrUnauthenticated)
				return
			}

			if actx.IsBanned {
				m.logger.Security().AuthzFailure(actx.UserID, fmt.Sprintf("banned user attempted %s", capability))
				kinds.WriteError(w, kinds.ErrForbidden)
				return
			}

			caps, err := m.resolver.Capabilities(r.Context(), actx)
			if err != nil {
				m.logger.Errorf("capability resolution failed for user %s: %v", actx.UserID, err)
				kinds.WriteError(w, err)
				return
			}

			if !caps.Has(capability) {
				m.logger.Security().AuthzFailure(actx.UserID, capability.String())
				kinds.WriteError(w, kinds.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		}))
	}
}
