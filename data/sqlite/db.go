// Package sqlite stores contact records in a single SQLite file through
// database/sql and the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/vortex-fintech/go-profile/foundation/errx"
)

const driverName = "sqlite"

// Replaced in tests.
var openDB = sql.Open

// DB owns the connection pool.
type DB struct {
	db *sql.DB
}

// Open connects, checks the connection and applies Schema.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if err := cfg.validate(); err != nil {
		return nil, errx.Config(err, "")
	}
	db, err := openDB(driverName, cfg.dsn())
	if err != nil {
		return nil, errx.Store(err, "sqlite: open")
	}
	db.SetMaxOpenConns(cfg.maxOpen())
	db.SetMaxIdleConns(cfg.maxOpen())
	if !cfg.memory() {
		db.SetConnMaxLifetime(time.Hour)
	}

	d := &DB{db: db}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errx.Store(err, "sqlite: ping")
	}
	if err := d.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

// Wrap adopts an existing pool. The schema is not applied.
func Wrap(db *sql.DB) *DB { return &DB{db: db} }

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }

// Migrate applies Schema.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := UseExecutor(ctx, d.db).ExecContext(ctx, Schema); err != nil {
		return errx.Store(err, "sqlite: apply schema")
	}
	return nil
}

// IsBusy reports whether err is SQLite refusing a lock another connection
// holds.
func IsBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
