package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mchau/momento/internal/apperror"
	"github.com/mchau/momento/internal/model"
	"github.com/mchau/momento/internal/repository"
)

const (
	MaxNameLength = 30
	MaxBioLength  = 200
)

// ProfileService reads and updates user profiles and their statistics.
type ProfileService struct {
	repo   repository.ProfileRepository
	logger *slog.Logger
}

func NewProfileService(repo repository.ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		logger: logger,
	}
}

func (s *ProfileService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetUser(ctx, id)
}

// UpdateUser replaces the mutable profile fields as a whole. Name is required;
// an empty bio clears the stored bio.
func (s *ProfileService) UpdateUser(ctx context.Context, id int64, update model.ProfileUpdate) (*model.User, error) {
	update.Name = strings.TrimSpace(update.Name)
	update.Bio = strings.TrimSpace(update.Bio)

	if update.Name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if len(update.Name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxNameLength))
	}
	if len(update.Bio) > MaxBioLength {
		return nil, apperror.ValidationFailed("bio",
			fmt.Sprintf("bio must be %d characters or less", MaxBioLength))
	}

	user, err := s.repo.UpdateUser(ctx, id, update)
	if err != nil {
		// A missing user is a normal client error; only log store failures.
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to update profile",
				slog.Int64("user_id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.logger.Info("profile updated", slog.Int64("user_id", id))
	return user, nil
}

// UserStats returns the user's aggregated counters: posts authored, likes
// received across those posts, and bookmarks the user has saved.
func (s *ProfileService) UserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	stats, err := s.repo.UserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user stats: %w", err)
	}
	return stats, nil
}
