// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

type LoggerInterface interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})

	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})

	Security() SecurityLoggerInterface
	Sync() error
}

// SecurityLoggerInterface is the audit channel. Authorization and
// authentication failures are logged here with full detail, while the HTTP
// response carries only the generic category.
type SecurityLoggerInterface interface {
	AuthnFailure(subject, detail string)
	AuthzFailure(subject, operation string)
	TenantBootstrap(tenantID, detail string)
	RoleChange(actorID, targetID, requestedRole string)
	SystemStartup()
	SystemShutdown()
}
