// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

var _ SecurityLoggerInterface = (*SecurityLogger)(nil)

// SecurityLogger emits structured audit events on a named channel so they can
// be shipped separately from application logs.
type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) AuthnFailure(subject, detail string) {
	s.l.Warn("authentication failure",
		zap.String("event", "authn_failure"),
		zap.String("subject", subject),
		zap.String("detail", detail),
	)
}

func (s *SecurityLogger) AuthzFailure(subject, operation string) {
	s.l.Warn("authorization failure",
		zap.String("event", "authz_failure"),
		zap.String("subject", subject),
		zap.String("operation", operation),
	)
}

func (s *SecurityLogger) TenantBootstrap(tenantID, detail string) {
	s.l.Info("tenant owner bootstrapped",
		zap.String("event", "tenant_bootstrap"),
		zap.String("tenant_id", tenantID),
		zap.String("detail", detail),
	)
}

func (s *SecurityLogger) RoleChange(actorID, targetID, requestedRole string) {
	s.l.Info("role change applied",
		zap.String("event", "role_change"),
		zap.String("actor_id", actorID),
		zap.String("target_id", targetID),
		zap.String("requested_role", requestedRole),
	)
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("system startup", zap.String("event", "system_startup"))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("system shutdown", zap.String("event", "system_shutdown"))
}
