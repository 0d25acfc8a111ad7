// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"strings"
)

// NoopLoginVerifier treats the token as "subject:email" for development.
type NoopLoginVerifier struct{}

func NewNoopLoginVerifier() *NoopLoginVerifier {
	return &NoopLoginVerifier{}
}

func (n *NoopLoginVerifier) VerifyIDToken(ctx context.Context, rawToken string) (string, string, error) {
	subject, email, found := strings.Cut(rawToken, ":")
	if !found {
		email = subject + "@localhost"
	}
	return subject, email, nil
}
