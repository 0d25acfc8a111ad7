// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/internal/types"
)

const (
	// SessionCookieName carries the signed session outside embedded contexts.
	SessionCookieName = "community_session"

	// SessionLifetime is the cookie session validity window. Sessions are not
	// auto-refreshed; handlers reissue after a successful decode at their own
	// discretion.
	SessionLifetime = 30 * 24 * time.Hour

	sessionIssuer = "community-service"
)

// ErrInvalidSession covers every cookie decode failure uniformly.
var ErrInvalidSession = errors.New("invalid session")

// SessionClaims is the full identity payload carried by the session cookie so
// most requests can be authorized without a database read.
type SessionClaims struct {
	UserID        string
	TenantID      string
	Email         string
	Role          types.Role
	IsTenantOwner bool
}

type cookieClaims struct {
	TenantID      string `json:"tid"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	IsTenantOwner bool   `json:"owner"`
	jwt.RegisteredClaims
}

var _ CookieSessionCodecInterface = (*CookieSessionCodec)(nil)

// CookieSessionCodec signs and verifies the local session with a symmetric
// secret.
type CookieSessionCodec struct {
	secret []byte

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewCookieSessionCodec(
	secret string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *CookieSessionCodec {
	return &CookieSessionCodec{
		secret:  []byte(secret),
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (c *CookieSessionCodec) Encode(claims SessionClaims) (string, error) {
	now := time.Now().UTC()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cookieClaims{
		TenantID:      claims.TenantID,
		Email:         claims.Email,
		Role:          string(claims.Role),
		IsTenantOwner: claims.IsTenantOwner,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionLifetime)),
		},
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

func (c *CookieSessionCodec) Decode(cookieValue string) (*SessionClaims, error) {
	claims := new(cookieClaims)

	parsed, err := jwt.ParseWithClaims(cookieValue, claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method %v", t.Method.Alg())
			}
			return c.secret, nil
		},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		c.logger.Security().AuthnFailure(claims.Subject, fmt.Sprintf("session cookie rejected: %v", err))
		return nil, ErrInvalidSession
	}

	role := types.Role(claims.Role)
	if claims.Subject == "" || claims.TenantID == "" || !role.Valid() {
		c.logger.Security().AuthnFailure(claims.Subject, "session cookie carries malformed claims")
		return nil, ErrInvalidSession
	}

	return &SessionClaims{
		UserID:        claims.Subject,
		TenantID:      claims.TenantID,
		Email:         claims.Email,
		Role:          role,
		IsTenantOwner: claims.IsTenantOwner,
	}, nil
}

// WriteSessionCookie sets the session cookie on the response. Embedded
// contexts run inside a third-party iframe and need cross-site delivery, so
// they get SameSite=None with Secure; standalone contexts keep the stricter
// Lax policy.
func WriteSessionCookie(w http.ResponseWriter, value string, embedded bool) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(SessionLifetime.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	if embedded {
		cookie.SameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, cookie)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
