// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/tracing"
)

var (
	otelHTTPClient = http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
)

var _ LoginVerifierInterface = (*OIDCLoginVerifier)(nil)

// OIDCLoginVerifier validates ID tokens from the standalone OAuth login flow.
// Embedded requests never reach this path; they carry platform session tokens
// instead.
type OIDCLoginVerifier struct {
	verifier *oidc.IDTokenVerifier

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (v *OIDCLoginVerifier) VerifyIDToken(ctx context.Context, rawToken string) (string, string, error) {
	ctx, span := v.tracer.Start(ctx, "authentication.OIDCLoginVerifier.VerifyIDToken")
	defer span.End()

	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", "", err
	}

	var claims struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
	}
	if err := token.Claims(&claims); err != nil {
		v.logger.Debugf("failed to extract claims: %v", err)
		return "", "", err
	}

	if claims.Email == "" {
		v.logger.Security().AuthnFailure(claims.Subject, "login token carries no email claim")
		return "", "", fmt.Errorf("login token missing email claim")
	}

	return claims.Subject, claims.Email, nil
}

// NewOIDCLoginVerifier discovers the issuer's configuration and builds a
// verifier for the configured client.
func NewOIDCLoginVerifier(
	ctx context.Context,
	issuer string,
	clientID string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (*OIDCLoginVerifier, error) {
	if issuer == "" {
		return nil, fmt.Errorf("issuer is required for login verification")
	}

	// Use the otel-instrumented HTTP client for discovery and JWKS fetches
	ctx = oidc.ClientContext(ctx, &otelHTTPClient)

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %v", err)
	}

	return &OIDCLoginVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}, nil
}

// NewLoginOAuthConfig builds the authorization-code config the standalone
// login handlers redirect through.
func NewLoginOAuthConfig(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*oauth2.Config, error) {
	ctx = oidc.ClientContext(ctx, &otelHTTPClient)

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %v", err)
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  redirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}, nil
}
