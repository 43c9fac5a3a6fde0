package sqlite

import (
	"context"
	"fmt"
	"time"
)

// Fixed tag vocabulary. Post creation only links to these rows; it never
// mints new tags.
var seedTags = []string{"分享", "生活", "心情", "随笔", "美食", "旅行"}

// migrate creates all tables and indexes. Everything is IF NOT EXISTS, so
// running it on every process start is safe.
//
// Engagement counts are deliberately not columns on posts; they are derived
// at read time from likes/comments so there is no second source of truth to
// drift. UNIQUE(post_id, user_id) on likes and bookmarks is what the toggle
// operations rely on for correctness.
func (db *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			bio        TEXT NOT NULL DEFAULT '',
			avatar     TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS posts (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id      INTEGER NOT NULL REFERENCES users(id),
			content      TEXT NOT NULL,
			mood         TEXT,
			is_anonymous INTEGER NOT NULL DEFAULT 0,
			created_at   INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_created ON posts(user_id, created_at DESC);`,

		`CREATE TABLE IF NOT EXISTS tags (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);`,

		`CREATE TABLE IF NOT EXISTS post_tags (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			tag_id  INTEGER NOT NULL REFERENCES tags(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_post_tags_post ON post_tags(post_id);`,

		`CREATE TABLE IF NOT EXISTS images (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id    INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			uri        TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_images_post ON images(post_id);`,

		`CREATE TABLE IF NOT EXISTS comments (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id     INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			author_name TEXT NOT NULL,
			content     TEXT NOT NULL,
			created_at  INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id);`,

		`CREATE TABLE IF NOT EXISTS likes (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id    INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			created_at INTEGER NOT NULL,
			UNIQUE(post_id, user_id)
		);`,

		`CREATE TABLE IF NOT EXISTS bookmarks (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id    INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			created_at INTEGER NOT NULL,
			UNIQUE(post_id, user_id)
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// seed inserts the default user, the tag vocabulary and — only when the posts
// table is empty — a couple of example posts with their tag links and one
// image. The emptiness check and the dependent inserts run inside the same
// unit, so calling seed on every start never duplicates anything.
func (db *DB) seed() error {
	return db.RunUnit(context.Background(), func(u *Unit) error {
		now := time.Now().UnixMilli()

		var userCount int
		if err := u.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&userCount); err != nil {
			return fmt.Errorf("counting users: %w", err)
		}
		if userCount == 0 {
			err := u.Exec(
				`INSERT INTO users (name, bio, avatar, created_at) VALUES (?, ?, ?, ?)`,
				"小茗", "记录生活的点滴", "assets/images/avatar_default.png", now,
			)
			if err != nil {
				return fmt.Errorf("inserting default user: %w", err)
			}
		}

		for _, name := range seedTags {
			if err := u.Exec(`INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
				return fmt.Errorf("inserting tag %q: %w", name, err)
			}
		}

		var postCount int
		if err := u.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&postCount); err != nil {
			return fmt.Errorf("counting posts: %w", err)
		}
		if postCount > 0 {
			return nil
		}

		var userID int64
		if err := u.QueryRow(`SELECT MIN(id) FROM users`).Scan(&userID); err != nil {
			return fmt.Errorf("resolving seed user: %w", err)
		}

		examples := []struct {
			content   string
			mood      string
			tags      []string
			imageURI  string
			createdAt int64
		}{
			{
				content:   "第一条动态，从今天开始记录生活 ✨",
				mood:      "开心",
				tags:      []string{"生活", "随笔"},
				createdAt: now - 2*time.Hour.Milliseconds(),
			},
			{
				content:   "傍晚的天空太好看了，随手拍下来分享给大家",
				mood:      "平静",
				tags:      []string{"分享", "生活"},
				imageURI:  "assets/images/seed_sunset.jpg",
				createdAt: now - time.Hour.Milliseconds(),
			},
		}

		for _, ex := range examples {
			err := u.Exec(
				`INSERT INTO posts (user_id, content, mood, is_anonymous, created_at)
				 VALUES (?, ?, ?, 0, ?)`,
				userID, ex.content, ex.mood, ex.createdAt,
			)
			if err != nil {
				return fmt.Errorf("inserting example post: %w", err)
			}
			postID := u.LastID()

			for _, tag := range ex.tags {
				var tagID int64
				if err := u.QueryRow(`SELECT id FROM tags WHERE name = ?`, tag).Scan(&tagID); err != nil {
					return fmt.Errorf("looking up seed tag %q: %w", tag, err)
				}
				if err := u.Exec(`INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?)`, postID, tagID); err != nil {
					return fmt.Errorf("linking seed tag %q: %w", tag, err)
				}
			}
			if ex.imageURI != "" {
				err := u.Exec(
					`INSERT INTO images (post_id, uri, created_at) VALUES (?, ?, ?)`,
					postID, ex.imageURI, ex.createdAt,
				)
				if err != nil {
					return fmt.Errorf("inserting seed image: %w", err)
				}
			}
		}
		return nil
	})
}
