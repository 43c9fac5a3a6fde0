package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mchau/momento/internal/service"
)

// EngagementHandler serves the like and bookmark toggles.
type EngagementHandler struct {
	engagement *service.EngagementService
	logger     *slog.Logger
}

func NewEngagementHandler(engagement *service.EngagementService, logger *slog.Logger) *EngagementHandler {
	return &EngagementHandler{engagement: engagement, logger: logger}
}

type toggleRequest struct {
	UserID int64 `json:"userId"`
}

// toggleResponse reports the state after the flip: active means the post is
// now liked (or bookmarked) by the user.
type toggleResponse struct {
	Active bool `json:"active"`
}

// HandleLike flips the like state for (post, user).
//
// POST /api/posts/{id}/like
func (h *EngagementHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.engagement.ToggleLike)
}

// HandleBookmark flips the bookmark state for (post, user).
//
// POST /api/posts/{id}/bookmark
func (h *EngagementHandler) HandleBookmark(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.engagement.ToggleBookmark)
}

func (h *EngagementHandler) toggle(w http.ResponseWriter, r *http.Request, flip func(ctx context.Context, postID, userID int64) (bool, error)) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid toggle JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}
	if req.UserID == 0 {
		req.UserID = 1 // the local user
	}

	active, err := flip(r.Context(), postID, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Active: active})
}
