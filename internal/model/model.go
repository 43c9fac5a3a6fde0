// Package model defines the domain structures exchanged between the store,
// the service layer and the API. The `json` tags match the shapes the client
// application consumes.
package model

// User is a stored identity. The current deployment keeps exactly one row
// (the local user) but the schema supports many.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
	JoinedAt int64  `json:"joinedAt"` // epoch milliseconds
}

// Author is the projected identity attached to a post view. For anonymous
// posts the name and avatar are masked at read time; ID always carries the
// true owner so internal paths can still manage the post.
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Image is one attachment on a post view. The ID is synthetic, derived from
// (post id, position), because the feed queries return images as an aggregate
// rather than as separately fetched rows.
type Image struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// Comment is a denormalized comment row: the author is stored by display
// name, not by user id.
type Comment struct {
	ID         string `json:"id"`
	PostID     string `json:"postId"`
	AuthorName string `json:"authorName"`
	Content    string `json:"content"`
	CreatedAt  int64  `json:"createdAt"`
}

// PostView is the denormalized, UI-ready projection of a post: author
// resolved, tags and images collapsed into ordered lists, engagement counts
// and viewer-specific flags precomputed. Comments is always an empty
// placeholder; comment threads are fetched separately.
type PostView struct {
	ID          string    `json:"id"`
	Author      Author    `json:"author"`
	Content     string    `json:"content"`
	Mood        string    `json:"mood,omitempty"`
	Tags        []string  `json:"tags"`
	Images      []Image   `json:"images"`
	Liked       bool      `json:"liked"`
	Likes       int       `json:"likes"`
	Bookmarked  bool      `json:"bookmarked"`
	Comments    []Comment `json:"comments"`
	CreatedAt   int64     `json:"createdAt"` // epoch milliseconds
	IsAnonymous bool      `json:"isAnonymous"`
}

// NewImage is one image attachment in a post creation request.
type NewImage struct {
	URI string `json:"uri"`
}

// NewPost is the write input for post creation. Tag names that don't match
// the stored vocabulary are silently skipped; creation never mints new tags.
//
// IsPublic is accepted from the client but has no storage column; whether it
// should gate read visibility is an open question inherited from the
// original application (see DESIGN.md).
type NewPost struct {
	Content     string     `json:"content"`
	Mood        string     `json:"mood"`
	Tags        []string   `json:"tags"`
	Images      []NewImage `json:"images"`
	IsAnonymous bool       `json:"isAnonymous"`
	IsPublic    bool       `json:"isPublic"`
}

// ProfileUpdate carries the full set of mutable user fields. There are no
// partial-field semantics; callers supply every field they want to retain.
type ProfileUpdate struct {
	Name   string `json:"name"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

// UserStats is the aggregated personal statistics view.
type UserStats struct {
	Posts         int `json:"posts"`
	LikesReceived int `json:"likesReceived"`
	Bookmarks     int `json:"bookmarks"`
}
