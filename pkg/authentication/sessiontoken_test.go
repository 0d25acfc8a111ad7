// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/tracing"
)

const (
	testSecret   = "platform-shared-secret"
	testAudience = "app-api-key"
)

func newValidator(t *testing.T) *SessionTokenValidator {
	t.Helper()
	return NewSessionTokenValidator(
		testSecret,
		testAudience,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
}

func signPlatformToken(t *testing.T, secret string, claims platformClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func validClaims() platformClaims {
	now := time.Now().UTC()
	return platformClaims{
		Dest: "https://acme.example",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://acme.example/admin",
			Subject:   "90210",
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
}

func TestValidateSessionToken(t *testing.T) {
	v := newValidator(t)

	claims, err := v.Validate(signPlatformToken(t, testSecret, validClaims()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if claims.TenantDomain != "acme.example" {
		t.Errorf("expected tenant domain acme.example, got %s", claims.TenantDomain)
	}
	if claims.ExternalSubject != "90210" {
		t.Errorf("expected external subject 90210, got %s", claims.ExternalSubject)
	}
	if claims.Email != DeriveEmail("90210", "acme.example") {
		t.Errorf("expected derived email, got %s", claims.Email)
	}
}

func TestValidateSessionTokenEmailClaim(t *testing.T) {
	v := newValidator(t)

	c := validClaims()
	c.Email = "Owner@Acme.Example"

	claims, err := v.Validate(signPlatformToken(t, testSecret, c))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Email != "owner@acme.example" {
		t.Errorf("expected lowercased email claim, got %s", claims.Email)
	}
}

func TestValidateSessionTokenRejections(t *testing.T) {
	v := newValidator(t)

	testCases := []struct {
		name  string
		token string
	}{
		{
			name: "expired",
			token: signPlatformToken(t, testSecret, func() platformClaims {
				c := validClaims()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().UTC().Add(-time.Hour))
				return c
			}()),
		},
		{
			name: "not yet valid",
			token: signPlatformToken(t, testSecret, func() platformClaims {
				c := validClaims()
				c.NotBefore = jwt.NewNumericDate(time.Now().UTC().Add(time.Hour))
				return c
			}()),
		},
		{
			name: "wrong audience",
			token: signPlatformToken(t, testSecret, func() platformClaims {
				c := validClaims()
				c.Audience = jwt.ClaimStrings{"someone-else"}
				return c
			}()),
		},
		{
			name:  "wrong secret",
			token: signPlatformToken(t, "not-the-secret", validClaims()),
		},
		{
			name: "missing destination",
			token: signPlatformToken(t, testSecret, func() platformClaims {
				c := validClaims()
				c.Dest = ""
				return c
			}()),
		},
		{
			name: "missing subject",
			token: signPlatformToken(t, testSecret, func() platformClaims {
				c := validClaims()
				c.Subject = ""
				return c
			}()),
		},
		{
			name:  "malformed",
			token: "not.a.token",
		},
		{
			name:  "empty",
			token: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Validate(tc.token)
			if !errors.Is(err, ErrInvalidSessionToken) {
				t.Errorf("expected ErrInvalidSessionToken, got %v", err)
			}
		})
	}
}

func TestDomainFromDest(t *testing.T) {
	testCases := []struct {
		dest   string
		domain string
		fails  bool
	}{
		{dest: "https://acme.example", domain: "acme.example"},
		{dest: "acme.example", domain: "acme.example"},
		{dest: "https://ACME.Example/admin", domain: "acme.example"},
		{dest: "", fails: true},
		{dest: "https://", fails: true},
	}

	for _, tc := range testCases {
		domain, err := domainFromDest(tc.dest)
		if tc.fails {
			if err == nil {
				t.Errorf("expected error for dest %q", tc.dest)
			}
			continue
		}
		if err != nil {
			t.Errorf("unexpected error for dest %q: %v", tc.dest, err)
			continue
		}
		if domain != tc.domain {
			t.Errorf("dest %q: expected %q, got %q", tc.dest, tc.domain, domain)
		}
	}
}
