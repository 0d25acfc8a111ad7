// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring"
	"github.com/shopthread/community-service/internal/tracing"
)

const defaultTxTimeout = time.Second * 60

type txContextKey struct{}

var txKey txContextKey

type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	TracingEnabled  bool
}

type DBClient struct {
	// pool is the native pgx pool we hold to allow closing
	pool *pgxpool.Pool
	// db is the database/sql instance used for transactions
	db *sql.DB

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

var _ DBClientInterface = (*DBClient)(nil)

// Statement provides a StatementBuilderType bound to the client's connection.
// If a transaction exists in the context it is used instead.
func (d *DBClient) Statement(ctx context.Context) sq.StatementBuilderType {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	if tx := TxFromContext(ctx); tx != nil {
		return builder.RunWith(tx)
	}

	return builder.RunWith(d.db)
}

// ContextWithTx returns a new context with the transaction attached.
func ContextWithTx(ctx context.Context, tx TxInterface) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// TxFromContext extracts a transaction from the context, returning nil if none
// exists.
func TxFromContext(ctx context.Context) TxInterface {
	if tx, ok := ctx.Value(txKey).(TxInterface); ok {
		return tx
	}
	return nil
}

// WithTx executes fn within a read-committed transaction attached to the
// context. The transaction is rolled back when fn errors and committed
// otherwise.
func (d *DBClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return d.withTx(ctx, sql.LevelReadCommitted, fn)
}

// WithSerializableTx is WithTx at serializable isolation. Callers must be
// prepared for serialization failures and unique-constraint races.
func (d *DBClient) WithSerializableTx(ctx context.Context, fn func(context.Context) error) error {
	return d.withTx(ctx, sql.LevelSerializable, fn)
}

func (d *DBClient) withTx(ctx context.Context, isolation sql.IsolationLevel, fn func(context.Context) error) error {
	txCtx, cancel := context.WithTimeout(ctx, defaultTxTimeout)
	defer cancel()

	tx, err := d.db.BeginTx(txCtx, &sql.TxOptions{Isolation: isolation})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			d.logger.Errorf("failed to rollback transaction: %v", err)
		}
	}()

	// txCtx carries the deadline so it bounds the statements inside the
	// transaction, not just BeginTx.
	if err := fn(ContextWithTx(txCtx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return nil
}

func (d *DBClient) Close() {
	if d.db != nil {
		_ = d.db.Close()
	}

	if d.pool != nil {
		d.pool.Close()
	}
}

// NewDBClient creates a new DBClient instance with the provided configuration.
func NewDBClient(cfg Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*DBClient, error) {
	config, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Fatalf("DSN validation failed, shutting down, err: %v", err)
	}

	if cfg.TracingEnabled {
		// otelpgx uses the default global TracerProvider, same as our tracer
		config.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	config.MaxConns = cfg.MaxConns
	config.MinConns = cfg.MinConns
	config.MaxConnLifetime = cfg.MaxConnLifetime
	config.MaxConnLifetimeJitter = cfg.MaxConnLifetime / 10
	config.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %v", err)
	}

	if cfg.TracingEnabled {
		if err := otelpgx.RecordStats(pool); err != nil {
			return nil, fmt.Errorf("failed to start metrics collection for database: %v", err)
		}
	}

	db := stdlib.OpenDBFromPool(pool)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %v", err)
	}

	d := new(DBClient)
	d.pool = pool
	d.db = db

	d.tracer = tracer
	d.monitor = monitor
	d.logger = logger

	return d, nil
}
