// Package service contains the business layer: input validation, rule
// enforcement and orchestration over the repository interfaces. Services
// accept primitives and model types, never HTTP types, and return domain
// errors from internal/apperror for the handler layer to translate.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mchau/momento/internal/apperror"
	"github.com/mchau/momento/internal/model"
	"github.com/mchau/momento/internal/repository"
)

const (
	MaxContentLength = 5000
	MaxMoodLength    = 20
	MaxImagesPerPost = 9
	MaxTagsPerPost   = 10
)

// ContentService handles post creation and the feed read paths.
type ContentService struct {
	repo   repository.ContentRepository
	logger *slog.Logger
}

func NewContentService(repo repository.ContentRepository, logger *slog.Logger) *ContentService {
	return &ContentService{
		repo:   repo,
		logger: logger,
	}
}

// CreatePost validates the input and stores the post. Validation failures are
// reported before any statement is issued against the store.
func (s *ContentService) CreatePost(ctx context.Context, userID int64, post model.NewPost) (int64, error) {
	post.Content = strings.TrimSpace(post.Content)

	if post.Content == "" {
		return 0, apperror.ValidationFailed("content", "content is required")
	}
	if len(post.Content) > MaxContentLength {
		return 0, apperror.ValidationFailed("content",
			fmt.Sprintf("content must be %d characters or less", MaxContentLength))
	}
	if len(post.Mood) > MaxMoodLength {
		return 0, apperror.ValidationFailed("mood",
			fmt.Sprintf("mood must be %d characters or less", MaxMoodLength))
	}
	if len(post.Images) > MaxImagesPerPost {
		return 0, apperror.ValidationFailed("images",
			fmt.Sprintf("a post can carry at most %d images", MaxImagesPerPost))
	}
	if len(post.Tags) > MaxTagsPerPost {
		return 0, apperror.ValidationFailed("tags",
			fmt.Sprintf("a post can carry at most %d tags", MaxTagsPerPost))
	}
	for _, img := range post.Images {
		if strings.TrimSpace(img.URI) == "" {
			return 0, apperror.ValidationFailed("images", "image uri must not be empty")
		}
	}

	id, err := s.repo.CreatePost(ctx, userID, post)
	if err != nil {
		s.logger.Error("failed to create post",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.Int64("post_id", id),
		slog.Int64("user_id", userID),
		slog.Bool("anonymous", post.IsAnonymous),
	)

	return id, nil
}

// Feed returns every post, newest first, projected for the given viewer.
func (s *ContentService) Feed(ctx context.Context, viewerID int64) ([]model.PostView, error) {
	posts, err := s.repo.AllPosts(ctx, viewerID)
	if err != nil {
		s.logger.Error("failed to load feed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("loading feed: %w", err)
	}
	return posts, nil
}

// UserPosts returns the posts authored by userID, newest first. The owner is
// also the viewer: anonymous posts still appear masked.
func (s *ContentService) UserPosts(ctx context.Context, userID int64) ([]model.PostView, error) {
	posts, err := s.repo.UserPosts(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user posts",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("loading user posts: %w", err)
	}
	return posts, nil
}

// LikedPosts returns the posts userID has liked, most recently liked first.
func (s *ContentService) LikedPosts(ctx context.Context, userID int64) ([]model.PostView, error) {
	posts, err := s.repo.UserLikedPosts(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load liked posts",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("loading liked posts: %w", err)
	}
	return posts, nil
}

// BookmarkedPosts returns the posts userID has bookmarked, most recently
// bookmarked first.
func (s *ContentService) BookmarkedPosts(ctx context.Context, userID int64) ([]model.PostView, error) {
	posts, err := s.repo.UserBookmarkedPosts(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load bookmarked posts",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("loading bookmarked posts: %w", err)
	}
	return posts, nil
}

// GetPost returns a single post projected for the viewer. A missing post id is
// a not-found condition, already classified by the repository.
func (s *ContentService) GetPost(ctx context.Context, postID, viewerID int64) (*model.PostView, error) {
	return s.repo.GetPost(ctx, postID, viewerID)
}
