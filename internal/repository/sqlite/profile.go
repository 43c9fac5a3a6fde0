package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mchau/momento/internal/apperror"
	"github.com/mchau/momento/internal/model"
	"github.com/mchau/momento/internal/repository"
)

var _ repository.ProfileRepository = (*DB)(nil)

// GetUser retrieves a user by id. Returns apperror.ErrNotFound when no such
// row exists.
func (db *DB) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, bio, avatar, created_at FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Name, &u.Bio, &u.Avatar, &u.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("getting user %d", id), err)
	}

	return &u, nil
}

// UpdateUser replaces all mutable fields of the user row — a full-row update
// with no partial-field semantics — and returns the updated record.
func (db *DB) UpdateUser(ctx context.Context, id int64, update model.ProfileUpdate) (*model.User, error) {
	err := db.RunUnit(ctx, func(u *Unit) error {
		res, err := u.tx.ExecContext(u.ctx,
			`UPDATE users SET name = ?, bio = ?, avatar = ? WHERE id = ?`,
			update.Name, update.Bio, update.Avatar, id,
		)
		if err != nil {
			return apperror.Store(fmt.Sprintf("updating user %d", id), err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return apperror.Store("checking rows affected", err)
		}
		if affected == 0 {
			return apperror.NotFound("user", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return db.GetUser(ctx, id)
}

// UserStats aggregates the personal statistics shown on the profile screen:
// posts written, likes received across those posts, and bookmarks the user
// has saved.
func (db *DB) UserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	if _, err := db.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	var stats model.UserStats

	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE user_id = ?`, userID,
	).Scan(&stats.Posts)
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("counting posts for user %d", userID), err)
	}

	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM likes l
		 JOIN posts p ON p.id = l.post_id
		 WHERE p.user_id = ?`, userID,
	).Scan(&stats.LikesReceived)
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("counting likes received for user %d", userID), err)
	}

	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookmarks WHERE user_id = ?`, userID,
	).Scan(&stats.Bookmarks)
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("counting bookmarks for user %d", userID), err)
	}

	return &stats, nil
}
