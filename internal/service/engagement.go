package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchau/momento/internal/repository"
)

// EngagementService flips like and bookmark state for a (post, user) pair.
type EngagementService struct {
	repo   repository.EngagementRepository
	logger *slog.Logger
}

func NewEngagementService(repo repository.EngagementRepository, logger *slog.Logger) *EngagementService {
	return &EngagementService{
		repo:   repo,
		logger: logger,
	}
}

// ToggleLike flips the like state and reports the resulting state: true means
// the post is now liked by the user.
func (s *EngagementService) ToggleLike(ctx context.Context, postID, userID int64) (bool, error) {
	active, err := s.repo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("toggling like: %w", err)
	}

	s.logger.Info("like toggled",
		slog.Int64("post_id", postID),
		slog.Int64("user_id", userID),
		slog.Bool("active", active),
	)
	return active, nil
}

// ToggleBookmark flips the bookmark state and reports the resulting state.
func (s *EngagementService) ToggleBookmark(ctx context.Context, postID, userID int64) (bool, error) {
	active, err := s.repo.ToggleBookmark(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("toggling bookmark: %w", err)
	}

	s.logger.Info("bookmark toggled",
		slog.Int64("post_id", postID),
		slog.Int64("user_id", userID),
		slog.Bool("active", active),
	)
	return active, nil
}
