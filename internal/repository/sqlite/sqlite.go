// Package sqlite implements the repository interfaces on an embedded SQLite
// database (modernc.org/sqlite — a pure Go translation of the engine, so the
// binary stays CGo-free and cross-compiles cleanly).
//
// Concurrency model: one logical writer. Every mutating operation runs as a
// unit of work (see unit.go) serialized by a store-level mutex; WAL mode lets
// read queries proceed concurrently against committed state, never observing
// an in-flight unit. The *DB handle exclusively owns the underlying
// connection pool — no other component opens a second handle.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DB wraps the connection pool and implements repository.ContentRepository,
// repository.EngagementRepository and repository.ProfileRepository.
type DB struct {
	conn *sql.DB

	// writeMu serializes units of work. Readers don't take it; WAL keeps
	// them isolated from uncommitted writes.
	writeMu sync.Mutex
}

// New opens (or creates) the database file at path, applies the pragmas the
// store depends on, and runs schema setup plus seeding. A failure here is
// fatal to startup; callers must not continue with a partially initialized
// store.
func New(path string) (*DB, error) {
	// WAL allows concurrent reads while a unit of work is committing.
	// Foreign keys are off by default in SQLite; the schema's referential
	// integrity (post_tags/images/likes/bookmarks → posts) depends on them.
	// busy_timeout guards against transient lock errors from checkpointing.
	//
	// foreign_keys and busy_timeout are per-connection settings and the pool
	// opens connections on demand, so the pragmas ride in the DSN: the driver
	// replays them on every connection it opens.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		path,
	)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	if err := db.seed(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: seeding: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers should defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// isConstraintError reports whether err is a SQLite uniqueness or foreign-key
// violation. The driver surfaces these as plain errors, so we match on the
// message the way the engine phrases it.
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint") || strings.Contains(msg, "unique")
}
