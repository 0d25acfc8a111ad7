// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebugLogger(t *testing.T) {
	l := NewLogger("DEBUG")
	if l == nil {
		t.Fatal("expected logger")
	}
	l.Debugf("debug message: %s", "ok")
}

func TestInvalidLevelFallsBack(t *testing.T) {
	l := NewLogger("invalid")
	if l == nil {
		t.Fatal("expected logger despite invalid level")
	}
}

func TestTenantBootstrapAuditFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := &SecurityLogger{l: zap.New(core)}

	s.TenantBootstrap("tenant-1", "owner race lost for member@acme.example, retrying as member")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["event"] != "tenant_bootstrap" {
		t.Errorf("expected event tenant_bootstrap, got %v", fields["event"])
	}
	if fields["tenant_id"] != "tenant-1" {
		t.Errorf("expected tenant_id field, got %v", fields["tenant_id"])
	}
	// The second argument is free text, not an identifier; it must not be
	// published under an id-shaped field name.
	if _, ok := fields["user_id"]; ok {
		t.Error("bootstrap detail must not masquerade as user_id")
	}
	if detail, ok := fields["detail"].(string); !ok || detail == "" {
		t.Error("expected the detail field to carry the event description")
	}
}

func TestSecurityChannel(t *testing.T) {
	l := NewNoopLogger()
	l.Security().AuthnFailure("user-1", "expired token")
	l.Security().AuthzFailure("user-1", "change_roles")
	l.Security().SystemStartup()
	l.Security().SystemShutdown()
}
