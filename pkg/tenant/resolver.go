// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopthread/community-service/internal/db"
	"github.com/shopthread/community-service/internal/kinds"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/storage"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/internal/types"
)

const (
	// TenantCookieName keeps the resolved domain on the client so follow-up
	// requests take the fast cookie path. Readable by client script.
	TenantCookieName = "community_tenant"

	TenantCookieLifetime = 7 * 24 * time.Hour
)

// Query parameters that may name the tenant domain, checked in order.
var tenantQueryParams = []string{"shop", "tenant"}

// Resolver derives the active tenant from a request and lazily creates
// tenants for domains seen for the first time.
type Resolver struct {
	store storage.TenantStoreInterface
	db    db.DBClientInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewResolver(
	store storage.TenantStoreInterface,
	dbClient db.DBClientInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Resolver {
	return &Resolver{
		store:   store,
		db:      dbClient,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// Resolve finds the tenant a request belongs to. Resolution order: tenant
// cookie, shop/tenant query parameter, Referer host. No signal means the
// request is unroutable; callers must abort, nothing ever defaults to an
// arbitrary tenant.
func (r *Resolver) Resolve(req *http.Request) (*types.Tenant, error) {
	ctx, span := r.tracer.Start(req.Context(), "tenant.Resolver.Resolve")
	defer span.End()

	domain := r.domainFromRequest(req)
	if domain == "" {
		return nil, kinds.ErrTenantNotFound
	}

	return r.resolveDomain(ctx, domain)
}

func (r *Resolver) domainFromRequest(req *http.Request) string {
	if cookie, err := req.Cookie(TenantCookieName); err == nil {
		if domain := NormalizeDomain(cookie.Value); domain != "" {
			return domain
		}
	}

	for _, param := range tenantQueryParams {
		if domain := NormalizeDomain(req.URL.Query().Get(param)); domain != "" {
			return domain
		}
	}

	// Embedded first loads arrive without cookies; the Referer is the only
	// signal identifying the host shop.
	if referer := req.Header.Get("Referer"); referer != "" {
		if u, err := url.Parse(referer); err == nil {
			if domain := NormalizeDomain(u.Host); domain != "" {
				return domain
			}
		}
	}

	return ""
}

func (r *Resolver) resolveDomain(ctx context.Context, domain string) (*types.Tenant, error) {
	t, err := r.store.FindTenantByDomain(ctx, domain)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up tenant: %w", err)
	}

	created, err := r.createTenant(ctx, domain)
	if err == nil {
		return created, nil
	}

	// Lost the creation race: another request inserted the same domain
	// first. Re-read and use the existing row.
	if errors.Is(err, storage.ErrDuplicateKey) {
		return r.store.FindTenantByDomain(ctx, domain)
	}

	return nil, err
}

func (r *Resolver) createTenant(ctx context.Context, domain string) (*types.Tenant, error) {
	ctx, span := r.tracer.Start(ctx, "tenant.Resolver.createTenant")
	defer span.End()

	var created *types.Tenant
	err := r.db.WithTx(ctx, func(txCtx context.Context) error {
		t, err := r.store.CreateTenant(txCtx, domain, domain)
		if err != nil {
			return err
		}

		if err := r.store.CreateDefaultRoles(txCtx, t.ID); err != nil {
			return err
		}

		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Infof("created tenant %s for domain %s", created.ID, created.Domain)
	return created, nil
}

// NormalizeDomain lowercases a domain signal and strips scheme, port and
// path. Returns empty when nothing usable remains.
func NormalizeDomain(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}

	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil {
			raw = u.Host
		}
	}

	if host, _, found := strings.Cut(raw, "/"); found {
		raw = host
	}
	if host, _, found := strings.Cut(raw, ":"); found {
		raw = host
	}

	if !strings.Contains(raw, ".") {
		return ""
	}

	return raw
}

// WriteTenantCookie pins the resolved domain on the client. Not httpOnly:
// the embedded frontend reads it to build platform URLs.
func WriteTenantCookie(w http.ResponseWriter, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TenantCookieName,
		Value:    domain,
		Path:     "/",
		MaxAge:   int(TenantCookieLifetime.Seconds()),
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware resolves the tenant for every request, attaches it to the
// context and refreshes the tenant cookie. Unroutable requests are rejected
// before any other check runs.
func (r *Resolver) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			t, err := r.Resolve(req)
			if err != nil {
				kinds.WriteError(w, err)
				return
			}

			WriteTenantCookie(w, t.Domain)
			next.ServeHTTP(w, req.WithContext(WithTenant(req.Context(), t)))
		})
	}
}
