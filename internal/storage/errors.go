// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrDuplicateKey        = errors.New("duplicate key violation")
	ErrOwnerConflict       = errors.New("tenant already has an owner")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrImmutableRole       = errors.New("default roles are immutable")
)

// singleOwnerIndex is the partial unique index guaranteeing at most one
// owner row per tenant. A unique violation on it means a bootstrap race,
// not a duplicate identity.
const singleOwnerIndex = "users_single_owner_idx"

// IsSingleOwnerViolation checks if the error is a unique violation on the
// one-owner-per-tenant index.
func IsSingleOwnerViolation(err error) bool {
	if errors.Is(err, ErrOwnerConflict) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrCodeUniqueViolation && pgErr.ConstraintName == singleOwnerIndex
	}
	return false
}

// PostgreSQL error codes
const (
	pgErrCodeUniqueViolation      = "23505"
	pgErrCodeForeignKeyViolation  = "23503"
	pgErrCodeSerializationFailure = "40001"
)

// IsDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation.
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrCodeUniqueViolation
	}
	return false
}

// IsForeignKeyViolation checks if the error is a PostgreSQL foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrCodeForeignKeyViolation
	}
	return false
}

// IsSerializationFailure checks if the error is a serializable-transaction
// conflict. Bootstrap treats these the same way as a lost unique-index race.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrCodeSerializationFailure
	}
	return false
}

// WrapDuplicateKeyError wraps a duplicate key error with context about which constraint was violated.
func WrapDuplicateKeyError(err error, context string) error {
	if !IsDuplicateKeyError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", context, ErrDuplicateKey)
}
