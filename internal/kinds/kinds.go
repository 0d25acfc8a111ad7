// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package kinds defines the closed error taxonomy every authorization
// decision is reported through. Callers branch on kind, never on message
// content.
package kinds

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindTenantNotFound means no signal on the request identified a tenant.
	// Fatal, the request is aborted before any other check.
	KindTenantNotFound Kind = iota + 1
	// KindUnauthenticated means no valid credential, or the credential's
	// tenant does not match the resolved tenant.
	KindUnauthenticated
	// KindForbidden means a valid identity with insufficient capability, or a
	// banned user attempting a gated action.
	KindForbidden
	// KindInvalidRoleTransition is a role-change guard denial and carries a
	// machine-readable reason.
	KindInvalidRoleTransition
	// KindBootstrapRace is an internal signal raised when the owner unique
	// constraint is hit. It is recovered locally by retrying as MEMBER and
	// never surfaced to a caller.
	KindBootstrapRace
)

func (k Kind) String() string {
	switch k {
	case KindTenantNotFound:
		return "tenant_not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindInvalidRoleTransition:
		return "invalid_role_transition"
	case KindBootstrapRace:
		return "bootstrap_race"
	}
	return "unknown"
}

// Error is a typed authorization failure. Reason is for server-side audit
// logging only and must never reach the HTTP response body.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

var (
	ErrTenantNotFound  = New(KindTenantNotFound, "")
	ErrUnauthenticated = New(KindUnauthenticated, "")
	ErrForbidden       = New(KindForbidden, "")
	ErrBootstrapRace   = New(KindBootstrapRace, "")
)

// Is makes all errors of the same kind interchangeable for errors.Is checks,
// regardless of reason.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// GetKind extracts the kind from err, returning 0 when err is not from this
// taxonomy.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// InvalidRoleTransition builds a guard denial with the given reason.
func InvalidRoleTransition(reason string) *Error {
	return New(KindInvalidRoleTransition, reason)
}
