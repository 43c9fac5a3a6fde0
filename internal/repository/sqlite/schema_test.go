package sqlite

import (
	"context"
	"testing"
)

func TestSeed_FreshDatabase(t *testing.T) {
	db := newTestDB(t)

	posts, err := db.AllPosts(context.Background(), defaultUserID)
	if err != nil {
		t.Fatalf("AllPosts() error = %v", err)
	}
	if len(posts) != seededPostCount {
		t.Fatalf("AllPosts() returned %d posts, want %d", len(posts), seededPostCount)
	}

	// Most recent first: the newest example carries the single seed image.
	newest := posts[0]
	if len(newest.Images) != 1 {
		t.Errorf("newest seeded post has %d images, want 1", len(newest.Images))
	}
	if len(newest.Tags) == 0 {
		t.Error("newest seeded post has no tags")
	}
	if posts[1].CreatedAt > newest.CreatedAt {
		t.Errorf("posts not ordered most-recent-first: %d before %d",
			newest.CreatedAt, posts[1].CreatedAt)
	}

	for _, p := range posts {
		if len(p.Images) > 0 && p.ID != newest.ID {
			t.Errorf("post %s unexpectedly has images", p.ID)
		}
	}
}

func TestSeed_DefaultUser(t *testing.T) {
	db := newTestDB(t)

	user, err := db.GetUser(context.Background(), defaultUserID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if user.Name == "" {
		t.Error("seeded user has empty name")
	}
	if user.JoinedAt == 0 {
		t.Error("seeded user has no join timestamp")
	}
}

func TestSeed_TagVocabulary(t *testing.T) {
	db := newTestDB(t)

	if got := countRows(t, db, "tags"); got != len(seedTags) {
		t.Errorf("tag count = %d, want %d", got, len(seedTags))
	}
}

// Reopening the same database file must not duplicate the default user, the
// tag vocabulary, or the example posts.
func TestSeed_IdempotentAcrossReopens(t *testing.T) {
	db, path := openFileDB(t, "momento.db")

	before := countRows(t, db, "posts")
	if before != seededPostCount {
		t.Fatalf("post count after first open = %d, want %d", before, seededPostCount)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopening database: %v", err)
	}
	defer reopened.Close()

	if got := countRows(t, reopened, "posts"); got != seededPostCount {
		t.Errorf("post count after reopen = %d, want %d", got, seededPostCount)
	}
	if got := countRows(t, reopened, "users"); got != 1 {
		t.Errorf("user count after reopen = %d, want 1", got)
	}
	if got := countRows(t, reopened, "tags"); got != len(seedTags) {
		t.Errorf("tag count after reopen = %d, want %d", got, len(seedTags))
	}
}

// Seeding skips the example posts when the table already has content, even
// user-created content.
func TestSeed_SkipsExamplesWhenPostsExist(t *testing.T) {
	db, path := openFileDB(t, "momento.db")

	createTestPost(t, db, "my own post", nil)
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopening database: %v", err)
	}
	defer reopened.Close()

	if got := countRows(t, reopened, "posts"); got != seededPostCount+1 {
		t.Errorf("post count after reopen = %d, want %d", got, seededPostCount+1)
	}
}
