// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/tracing"
)

// ErrInvalidSessionToken is the single failure mode for session token
// validation. Expired, tampered, mis-audienced and malformed tokens are
// indistinguishable to callers; details go to the security log only.
var ErrInvalidSessionToken = errors.New("invalid session token")

const sessionTokenLeeway = 5 * time.Second

// SessionTokenClaims is what an embedded-platform token asserts after
// validation.
type SessionTokenClaims struct {
	// TenantDomain is the host extracted from the token's destination claim.
	TenantDomain string
	// ExternalSubject is the platform-side user identifier.
	ExternalSubject string
	// Email is the email claim when the platform includes one; otherwise a
	// deterministic address derived from the external subject.
	Email string
}

type platformClaims struct {
	Dest  string `json:"dest"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var _ SessionTokenValidatorInterface = (*SessionTokenValidator)(nil)

// SessionTokenValidator verifies HS256 tokens signed with the shared secret
// the embedding platform issued to this app.
type SessionTokenValidator struct {
	secret   []byte
	audience string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewSessionTokenValidator(
	secret string,
	audience string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *SessionTokenValidator {
	return &SessionTokenValidator{
		secret:   []byte(secret),
		audience: audience,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}

func (v *SessionTokenValidator) Validate(rawToken string) (*SessionTokenClaims, error) {
	claims := new(platformClaims)

	parsed, err := jwt.ParseWithClaims(rawToken, claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method %v", t.Method.Alg())
			}
			return v.secret, nil
		},
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(sessionTokenLeeway),
	)
	if err != nil {
		v.logger.Security().AuthnFailure("", fmt.Sprintf("session token rejected: %v", err))
		return nil, ErrInvalidSessionToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidSessionToken
	}

	domain, err := domainFromDest(claims.Dest)
	if err != nil {
		v.logger.Security().AuthnFailure(claims.Subject, fmt.Sprintf("session token destination rejected: %v", err))
		return nil, ErrInvalidSessionToken
	}

	if claims.Subject == "" {
		v.logger.Security().AuthnFailure("", "session token missing subject")
		return nil, ErrInvalidSessionToken
	}

	email := claims.Email
	if email == "" {
		email = DeriveEmail(claims.Subject, domain)
	}

	return &SessionTokenClaims{
		TenantDomain:    domain,
		ExternalSubject: claims.Subject,
		Email:           strings.ToLower(email),
	}, nil
}

// DeriveEmail builds the deterministic per-tenant address used for platform
// users whose token carries no email claim.
func DeriveEmail(externalSubject, tenantDomain string) string {
	return fmt.Sprintf("user-%s@%s", strings.ToLower(externalSubject), tenantDomain)
}

func domainFromDest(dest string) (string, error) {
	if dest == "" {
		return "", errors.New("destination claim missing")
	}

	if !strings.Contains(dest, "://") {
		dest = "https://" + dest
	}

	u, err := url.Parse(dest)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", errors.New("destination claim has no host")
	}

	return strings.ToLower(u.Host), nil
}
