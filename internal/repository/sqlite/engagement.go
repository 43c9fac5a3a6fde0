package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mchau/momento/internal/apperror"
	"github.com/mchau/momento/internal/repository"
)

var _ repository.EngagementRepository = (*DB)(nil)

// ToggleLike flips the like state for (postID, userID) and returns the new
// state: true when the post is now liked, false when the like was removed.
func (db *DB) ToggleLike(ctx context.Context, postID, userID int64) (bool, error) {
	return db.toggle(ctx, "likes", postID, userID)
}

// ToggleBookmark flips the bookmark state for (postID, userID).
func (db *DB) ToggleBookmark(ctx context.Context, postID, userID int64) (bool, error) {
	return db.toggle(ctx, "bookmarks", postID, userID)
}

// toggle implements check-then-act inside one unit of work: delete the row if
// it exists, insert it otherwise. The check only selects the branch; the
// UNIQUE(post_id, user_id) constraint is what actually guarantees at most one
// row per pair. If a racing insert still trips the constraint, the post is
// already in the requested state and the toggle reports that instead of
// failing.
//
// table is always one of the two engagement table literals above, never
// caller input.
func (db *DB) toggle(ctx context.Context, table string, postID, userID int64) (bool, error) {
	var active bool

	err := db.RunUnit(ctx, func(u *Unit) error {
		var exists int
		err := u.QueryRow(`SELECT 1 FROM posts WHERE id = ?`, postID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("post", postID)
		}
		if err != nil {
			return apperror.Store(fmt.Sprintf("checking post %d", postID), err)
		}

		var rowID int64
		err = u.QueryRow(
			`SELECT id FROM `+table+` WHERE post_id = ? AND user_id = ?`,
			postID, userID,
		).Scan(&rowID)

		switch {
		case err == nil:
			if err := u.Exec(`DELETE FROM `+table+` WHERE id = ?`, rowID); err != nil {
				return apperror.Store(fmt.Sprintf("removing %s row %d", table, rowID), err)
			}
			active = false

		case errors.Is(err, sql.ErrNoRows):
			err := u.Exec(
				`INSERT INTO `+table+` (post_id, user_id, created_at) VALUES (?, ?, ?)`,
				postID, userID, time.Now().UnixMilli(),
			)
			if err != nil {
				if isConstraintError(err) {
					// Lost a race: the row appeared between check and
					// insert. Already in the requested state.
					active = true
					return nil
				}
				return apperror.Store(fmt.Sprintf("inserting %s row", table), err)
			}
			active = true

		default:
			return apperror.Store(fmt.Sprintf("checking %s state", table), err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return active, nil
}
