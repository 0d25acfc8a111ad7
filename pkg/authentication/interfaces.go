// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
)

// SessionTokenValidatorInterface verifies tokens minted by the embedding
// platform for iframe contexts. It proves "this request was vouched for by
// the platform for tenant X" and nothing more; no local user lookup happens
// here.
type SessionTokenValidatorInterface interface {
	Validate(rawToken string) (*SessionTokenClaims, error)
}

// CookieSessionCodecInterface encodes and decodes the locally-issued signed
// session used outside the embedded context.
type CookieSessionCodecInterface interface {
	Encode(claims SessionClaims) (string, error)
	Decode(cookieValue string) (*SessionClaims, error)
}

// LoginVerifierInterface verifies an ID token produced by the standalone
// OAuth login flow and returns the subject and email it asserts.
type LoginVerifierInterface interface {
	VerifyIDToken(ctx context.Context, rawToken string) (subject, email string, err error)
}
