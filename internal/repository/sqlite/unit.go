package sqlite

import (
	"context"
	"database/sql"

	"github.com/mchau/momento/internal/apperror"
)

// Unit is one atomic batch of statements: either every statement commits or
// none does. A statement may depend on the row id generated by an earlier
// INSERT in the same unit — LastID exposes it before the unit commits, never
// across units. There are no savepoints; the first failing step aborts the
// whole unit.
type Unit struct {
	ctx    context.Context
	tx     *sql.Tx
	lastID int64
}

// Exec runs one write statement inside the unit.
func (u *Unit) Exec(query string, args ...any) error {
	res, err := u.tx.ExecContext(u.ctx, query, args...)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		u.lastID = id
	}
	return nil
}

// QueryRow runs an in-unit read, e.g. a row-count check that must be
// evaluated against the unit's own view of the data.
func (u *Unit) QueryRow(query string, args ...any) *sql.Row {
	return u.tx.QueryRowContext(u.ctx, query, args...)
}

// LastID returns the key generated by the most recent INSERT in this unit.
func (u *Unit) LastID() int64 {
	return u.lastID
}

// RunUnit executes fn as one unit of work. Units are serialized: no two run
// concurrently against the store, so a dependent row can never be observed
// before its parent exists. fn returning an error rolls everything back and
// propagates the error unchanged; begin/commit failures surface as store
// faults.
func (db *DB) RunUnit(ctx context.Context, fn func(u *Unit) error) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Store("beginning unit of work", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&Unit{ctx: ctx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.Store("committing unit of work", err)
	}
	return nil
}
