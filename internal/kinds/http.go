// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kinds

import (
	"encoding/json"
	"net/http"
)

// Status maps an error kind to its HTTP status. TenantNotFound is a client
// error: the request could not be routed to any tenant, which is not the same
// as a missing resource.
func Status(kind Kind) int {
	switch kind {
	case KindTenantNotFound:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidRoleTransition:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// genericMessages are the only failure texts a caller ever sees. Detailed
// reasons stay in the security log.
var genericMessages = map[Kind]string{
	KindTenantNotFound:        "no tenant could be resolved for this request",
	KindUnauthenticated:       "authentication required",
	KindForbidden:             "permission denied",
	KindInvalidRoleTransition: "role change rejected",
}

// WriteError renders err to w as a generic, non-leaking JSON body. Errors
// outside the taxonomy are reported as a plain server error.
func WriteError(w http.ResponseWriter, err error) {
	kind := GetKind(err)

	status := Status(kind)
	message, ok := genericMessages[kind]
	if !ok {
		status = http.StatusInternalServerError
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  status,
		"error":   kind.String(),
		"message": message,
	})
}
