package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mchau/momento/internal/apperror"
	"github.com/mchau/momento/internal/model"
	"github.com/mchau/momento/internal/repository"
)

var _ repository.ContentRepository = (*DB)(nil)

// Masked identity substituted at projection time for anonymous posts. The
// owning user id stays on the row so internal paths can still manage the
// post; only the emitted name/avatar are overridden.
const (
	anonymousName   = "匿名用户"
	anonymousAvatar = "assets/images/avatar_anonymous.png"
)

// aggSeparator joins tag names and image URIs inside the read queries
// (char(31), the ASCII unit separator). The projection step splits on it.
// Known limitation: a tag name or URI containing the separator byte itself
// would corrupt the split. The seeded vocabulary cannot, and creation never
// mints new tags, so image URIs are the only input that could carry it.
const aggSeparator = "\x1f"

// postViewColumns is the shared SELECT list for every post read. The join to
// post_tags/images fans out to many rows per post, so both are collapsed back
// to one delimiter-joined field per post: tags de-duplicated and ordered by
// first link, image URIs in insertion order. Like and comment counts are
// correlated subqueries; ?1 is the viewing user for the liked/bookmarked
// flags.
const postViewColumns = `
	p.id, p.user_id, p.content, p.mood, p.is_anonymous, p.created_at,
	u.name, u.avatar,
	COALESCE((SELECT GROUP_CONCAT(name, char(31)) FROM (
		SELECT t.name AS name
		FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = p.id
		GROUP BY t.name
		ORDER BY MIN(pt.id))), '') AS tag_names,
	COALESCE((SELECT GROUP_CONCAT(uri, char(31)) FROM (
		SELECT i.uri AS uri
		FROM images i
		WHERE i.post_id = p.id
		ORDER BY i.id)), '') AS image_uris,
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
	EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = ?1) AS viewer_liked,
	EXISTS(SELECT 1 FROM bookmarks b WHERE b.post_id = p.id AND b.user_id = ?1) AS viewer_bookmarked`

// CreatePost inserts the post row first (generating the post id), then one
// link per matching tag name and one image row per URI in input order, all
// inside a single unit of work. Tag names with no vocabulary row are silently
// skipped; duplicate names within one call produce a single link. Any
// failure rolls back every row.
func (db *DB) CreatePost(ctx context.Context, userID int64, post model.NewPost) (int64, error) {
	var postID int64

	err := db.RunUnit(ctx, func(u *Unit) error {
		var mood any
		if post.Mood != "" {
			mood = post.Mood
		}

		err := u.Exec(
			`INSERT INTO posts (user_id, content, mood, is_anonymous, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			userID, post.Content, mood, post.IsAnonymous, time.Now().UnixMilli(),
		)
		if err != nil {
			if isConstraintError(err) {
				return apperror.Conflict("post", "insert violates a constraint")
			}
			return apperror.Store("inserting post", err)
		}
		postID = u.LastID()

		linked := make(map[string]struct{}, len(post.Tags))
		for _, name := range post.Tags {
			if _, done := linked[name]; done {
				continue
			}
			linked[name] = struct{}{}

			var tagID int64
			err := u.QueryRow(`SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID)
			if errors.Is(err, sql.ErrNoRows) {
				continue // not in the vocabulary
			}
			if err != nil {
				return apperror.Store(fmt.Sprintf("looking up tag %q", name), err)
			}
			if err := u.Exec(`INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?)`, postID, tagID); err != nil {
				return apperror.Store(fmt.Sprintf("linking tag %q", name), err)
			}
		}

		for _, img := range post.Images {
			err := u.Exec(
				`INSERT INTO images (post_id, uri, created_at) VALUES (?, ?, ?)`,
				postID, img.URI, time.Now().UnixMilli(),
			)
			if err != nil {
				return apperror.Store("inserting image", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return postID, nil
}

// AllPosts returns every post, most recent first.
func (db *DB) AllPosts(ctx context.Context, viewerID int64) ([]model.PostView, error) {
	query := `SELECT ` + postViewColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC`

	return db.queryPostViews(ctx, "listing posts", query, viewerID)
}

// UserPosts returns the posts owned by userID, most recent first. The owner
// is also the viewer, so the liked/bookmarked flags are theirs.
func (db *DB) UserPosts(ctx context.Context, userID int64) ([]model.PostView, error) {
	query := `SELECT ` + postViewColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = ?2
		ORDER BY p.created_at DESC, p.id DESC`

	return db.queryPostViews(ctx, "listing user posts", query, userID, userID)
}

// UserLikedPosts returns the posts userID has liked, most recently liked
// first — ordered by the like row's timestamp, not by post age.
func (db *DB) UserLikedPosts(ctx context.Context, userID int64) ([]model.PostView, error) {
	query := `SELECT ` + postViewColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		JOIN likes lk ON lk.post_id = p.id AND lk.user_id = ?2
		ORDER BY lk.created_at DESC, lk.id DESC`

	return db.queryPostViews(ctx, "listing liked posts", query, userID, userID)
}

// UserBookmarkedPosts returns the posts userID has bookmarked, most recently
// bookmarked first.
func (db *DB) UserBookmarkedPosts(ctx context.Context, userID int64) ([]model.PostView, error) {
	query := `SELECT ` + postViewColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		JOIN bookmarks bm ON bm.post_id = p.id AND bm.user_id = ?2
		ORDER BY bm.created_at DESC, bm.id DESC`

	return db.queryPostViews(ctx, "listing bookmarked posts", query, userID, userID)
}

// GetPost returns a single projected post, or ErrNotFound. A missing id is a
// normal condition here, not a store fault.
func (db *DB) GetPost(ctx context.Context, postID, viewerID int64) (*model.PostView, error) {
	query := `SELECT ` + postViewColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = ?2`

	row := db.conn.QueryRowContext(ctx, query, viewerID, postID)
	view, err := scanPostView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("post", postID)
	}
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("getting post %d", postID), err)
	}
	return view, nil
}

func (db *DB) queryPostViews(ctx context.Context, op, query string, args ...any) ([]model.PostView, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.Store(op, err)
	}
	defer rows.Close()

	views := make([]model.PostView, 0, 16)
	for rows.Next() {
		view, err := scanPostView(rows)
		if err != nil {
			return nil, apperror.Store(op, err)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Store(op, err)
	}
	return views, nil
}

// rowScanner lets scanPostView work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPostView reads one aggregated row and assembles the nested view: the
// delimiter-joined tag and image fields are split back into ordered lists,
// each image gets a synthetic id from (post id, position), and anonymous
// posts have their author name/avatar masked.
func scanPostView(row rowScanner) (*model.PostView, error) {
	var (
		postID, authorID  int64
		content           string
		mood              sql.NullString
		isAnonymous       bool
		createdAt         int64
		authorName        string
		authorAvatar      string
		tagNames          string
		imageURIs         string
		likes, comments   int
		liked, bookmarked bool
	)

	err := row.Scan(
		&postID, &authorID, &content, &mood, &isAnonymous, &createdAt,
		&authorName, &authorAvatar,
		&tagNames, &imageURIs,
		&likes, &comments,
		&liked, &bookmarked,
	)
	if err != nil {
		return nil, err
	}

	author := model.Author{
		ID:     strconv.FormatInt(authorID, 10),
		Name:   authorName,
		Avatar: authorAvatar,
	}
	if isAnonymous {
		author.Name = anonymousName
		author.Avatar = anonymousAvatar
	}

	uris := splitAggregate(imageURIs)
	images := make([]model.Image, 0, len(uris))
	for i, uri := range uris {
		images = append(images, model.Image{
			ID:  fmt.Sprintf("%d-%d", postID, i),
			URI: uri,
		})
	}

	return &model.PostView{
		ID:          strconv.FormatInt(postID, 10),
		Author:      author,
		Content:     content,
		Mood:        mood.String,
		Tags:        splitAggregate(tagNames),
		Images:      images,
		Liked:       liked,
		Likes:       likes,
		Bookmarked:  bookmarked,
		Comments:    []model.Comment{}, // fetched separately, placeholder here
		CreatedAt:   createdAt,
		IsAnonymous: isAnonymous,
	}, nil
}

func splitAggregate(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, aggSeparator)
}
