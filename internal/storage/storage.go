// Package storage is the BlockchainDB: the typed persistence layer over the
// relational mirror and the read surface that serves the upstream node's
// API out of mirrored data.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/goodnatureofminers/chainmirror-backend/internal/config"
)

// Bulk inserts are issued in chunks of this many value rows per statement
// to stay within statement-size limits across backends.
const insertChunkRows = 25

var (
	// ErrNotFound reports a missing block, transaction or header.
	ErrNotFound = errors.New("not found")

	// ErrMethodNotAvailable reports a mutating upstream RPC the mirror
	// cannot serve.
	ErrMethodNotAvailable = errors.New("method not available")
)

type (
	// Metrics records metrics for storage operations.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// DB wraps the relational store for one of the supported engines.
type DB struct {
	db      *sqlx.DB
	engine  string
	metrics Metrics
}

// Open connects to the engine selected by the configuration and returns the
// storage layer. The schema is not touched; call InitSchema before first
// use.
func Open(cfg config.Config, metrics Metrics) (*DB, error) {
	if metrics == nil {
		return nil, errors.New("storage metrics is required")
	}

	engine, err := cfg.Engine()
	if err != nil {
		return nil, err
	}

	var db *sqlx.DB
	switch engine {
	case config.EngineMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		db, err = sqlx.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}

	case config.EnginePostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName)
		db, err = sqlx.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

	case config.EngineSQLite:
		db, err = openSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return &DB{db: db, engine: engine, metrics: metrics}, nil
}

func openSQLite(path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout=10000&_pragma=journal_mode=WAL", path)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return db, nil
}

// openSQLiteMemory is the test hook: a private in-memory database.
func openSQLiteMemory(metrics Metrics) (*DB, error) {
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return &DB{db: db, engine: config.EngineSQLite, metrics: metrics}, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// Engine reports the configured backend.
func (d *DB) Engine() string {
	return d.engine
}

// rebind rewrites ? placeholders for the active engine.
func (d *DB) rebind(query string) string {
	return d.db.Rebind(query)
}

// withTx runs fn inside one database transaction, rolling back on error.
func (d *DB) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// BlockTemplate is a mutating upstream RPC the mirror cannot serve.
func (d *DB) BlockTemplate() error { return ErrMethodNotAvailable }

// SubmitBlock is a mutating upstream RPC the mirror cannot serve.
func (d *DB) SubmitBlock() error { return ErrMethodNotAvailable }

// SubmitTransaction is a mutating upstream RPC the mirror cannot serve.
func (d *DB) SubmitTransaction() error { return ErrMethodNotAvailable }

func chunks[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	var out [][]T
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
