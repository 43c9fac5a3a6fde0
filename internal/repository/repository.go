// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage provides the single concrete
// implementation; tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/mchau/momento/internal/model"
)

// ContentRepository assembles posts and writes new ones. Every read returns
// fully projected PostViews, most recent first; the two junction-driven reads
// (liked, bookmarked) order by when the viewer engaged, not by post age.
type ContentRepository interface {
	// CreatePost inserts the post row plus its tag links and images as one
	// atomic unit and returns the generated post id.
	CreatePost(ctx context.Context, userID int64, post model.NewPost) (int64, error)

	AllPosts(ctx context.Context, viewerID int64) ([]model.PostView, error)
	UserPosts(ctx context.Context, userID int64) ([]model.PostView, error)
	UserLikedPosts(ctx context.Context, userID int64) ([]model.PostView, error)
	UserBookmarkedPosts(ctx context.Context, userID int64) ([]model.PostView, error)
	GetPost(ctx context.Context, postID, viewerID int64) (*model.PostView, error)
}

// EngagementRepository flips like/bookmark state. Each toggle returns the new
// state: true when the row now exists, false when it was removed.
type EngagementRepository interface {
	ToggleLike(ctx context.Context, postID, userID int64) (bool, error)
	ToggleBookmark(ctx context.Context, postID, userID int64) (bool, error)
}

// ProfileRepository reads and updates the local user record.
type ProfileRepository interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, update model.ProfileUpdate) (*model.User, error)
	UserStats(ctx context.Context, userID int64) (*model.UserStats, error)
}
