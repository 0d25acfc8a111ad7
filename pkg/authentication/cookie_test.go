// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/internal/types"
)

func newCodec(secret string) *CookieSessionCodec {
	return NewCookieSessionCodec(
		secret,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
}

func TestSessionRoundTrip(t *testing.T) {
	codec := newCodec("session-secret")

	testCases := []SessionClaims{
		{UserID: "u1", TenantID: "t1", Email: "a@acme.example", Role: types.RoleAdmin, IsTenantOwner: true},
		{UserID: "u2", TenantID: "t1", Email: "b@acme.example", Role: types.RoleModerator},
		{UserID: "u3", TenantID: "t2", Email: "c@other.example", Role: types.RoleMember},
	}

	for _, claims := range testCases {
		encoded, err := codec.Encode(claims)
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}

		decoded, err := codec.Decode(encoded)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}

		if *decoded != claims {
			t.Errorf("round trip mismatch: encoded %+v, decoded %+v", claims, *decoded)
		}
	}
}

func TestDecodeRejectsTamperedSession(t *testing.T) {
	codec := newCodec("session-secret")

	encoded, err := codec.Encode(SessionClaims{UserID: "u1", TenantID: "t1", Role: types.RoleMember})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	otherCodec := newCodec("different-secret")
	if _, err := otherCodec.Decode(encoded); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession for foreign secret, got %v", err)
	}

	if _, err := codec.Decode(encoded + "x"); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession for tampered value, got %v", err)
	}

	if _, err := codec.Decode(""); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession for empty value, got %v", err)
	}
}

func TestDecodeRejectsExpiredSession(t *testing.T) {
	codec := newCodec("session-secret")

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cookieClaims{
		TenantID: "t1",
		Role:     string(types.RoleMember),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-31 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-24 * time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("session-secret"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	if _, err := codec.Decode(signed); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession for expired session, got %v", err)
	}
}

func TestDecodeRejectsMalformedRole(t *testing.T) {
	codec := newCodec("session-secret")

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cookieClaims{
		TenantID: "t1",
		Role:     "SUPERUSER",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("session-secret"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	if _, err := codec.Decode(signed); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession for unknown role, got %v", err)
	}
}

func TestWriteSessionCookieSameSite(t *testing.T) {
	testCases := []struct {
		name     string
		embedded bool
		sameSite http.SameSite
	}{
		{name: "standalone uses lax", embedded: false, sameSite: http.SameSiteLaxMode},
		{name: "embedded uses none", embedded: true, sameSite: http.SameSiteNoneMode},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteSessionCookie(rec, "value", tc.embedded)

			cookies := rec.Result().Cookies()
			if len(cookies) != 1 {
				t.Fatalf("expected 1 cookie, got %d", len(cookies))
			}

			c := cookies[0]
			if c.Name != SessionCookieName {
				t.Errorf("unexpected cookie name %s", c.Name)
			}
			if !c.HttpOnly || !c.Secure {
				t.Error("session cookie must be httpOnly and secure")
			}
			if c.SameSite != tc.sameSite {
				t.Errorf("expected SameSite %v, got %v", tc.sameSite, c.SameSite)
			}
		})
	}
}

func TestClearSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearSessionCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge >= 0 {
		t.Error("expected expired cookie")
	}
}
