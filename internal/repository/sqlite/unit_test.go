package sqlite

import (
	"context"
	"errors"
	"testing"
)

func TestRunUnit_LastIDCarriesAcrossSteps(t *testing.T) {
	db := newTestDB(t)

	var parentID, childID int64
	err := db.RunUnit(context.Background(), func(u *Unit) error {
		if err := u.Exec(
			`INSERT INTO posts (user_id, content, is_anonymous, created_at) VALUES (?, ?, 0, ?)`,
			defaultUserID, "parent", 1000,
		); err != nil {
			return err
		}
		parentID = u.LastID()

		// The dependent row references the key generated one step earlier,
		// before anything commits.
		if err := u.Exec(
			`INSERT INTO images (post_id, uri, created_at) VALUES (?, ?, ?)`,
			parentID, "file:///child.jpg", 1000,
		); err != nil {
			return err
		}
		childID = u.LastID()
		return nil
	})
	if err != nil {
		t.Fatalf("RunUnit() error = %v", err)
	}
	if parentID == 0 || childID == 0 {
		t.Fatalf("generated ids not exposed: parent=%d child=%d", parentID, childID)
	}

	var gotPost int64
	if err := db.conn.QueryRow(`SELECT post_id FROM images WHERE id = ?`, childID).Scan(&gotPost); err != nil {
		t.Fatalf("reading back dependent row: %v", err)
	}
	if gotPost != parentID {
		t.Errorf("dependent row references post %d, want %d", gotPost, parentID)
	}
}

func TestRunUnit_ErrorRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	boom := errors.New("step failed")

	postsBefore := countRows(t, db, "posts")

	err := db.RunUnit(context.Background(), func(u *Unit) error {
		if err := u.Exec(
			`INSERT INTO posts (user_id, content, is_anonymous, created_at) VALUES (?, ?, 0, ?)`,
			defaultUserID, "doomed", 1000,
		); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunUnit() error = %v, want the step error", err)
	}

	if got := countRows(t, db, "posts"); got != postsBefore {
		t.Errorf("posts count = %d after failed unit, want %d (all steps rolled back)", got, postsBefore)
	}
}

// Reads outside a unit only ever observe committed state: a unit's inserts
// are invisible until it commits.
func TestRunUnit_NoDirtyReads(t *testing.T) {
	db := newTestDB(t)
	postsBefore := countRows(t, db, "posts")

	observed := make(chan int, 1)
	err := db.RunUnit(context.Background(), func(u *Unit) error {
		if err := u.Exec(
			`INSERT INTO posts (user_id, content, is_anonymous, created_at) VALUES (?, ?, 0, ?)`,
			defaultUserID, "in flight", 1000,
		); err != nil {
			return err
		}

		// Issue a concurrent read mid-unit through the pool connection.
		done := make(chan struct{})
		go func() {
			defer close(done)
			var n int
			if err := db.conn.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n); err == nil {
				observed <- n
			}
		}()
		<-done
		return nil
	})
	if err != nil {
		t.Fatalf("RunUnit() error = %v", err)
	}

	select {
	case n := <-observed:
		if n != postsBefore {
			t.Errorf("mid-unit read observed %d posts, want %d committed rows", n, postsBefore)
		}
	default:
		t.Skip("concurrent read did not complete; nothing to assert")
	}
}
