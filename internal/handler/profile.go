package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mchau/momento/internal/model"
	"github.com/mchau/momento/internal/service"
)

// ProfileHandler serves user profiles and their aggregated statistics.
type ProfileHandler struct {
	profile *service.ProfileService
	logger  *slog.Logger
}

func NewProfileHandler(profile *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profile: profile, logger: logger}
}

// HandleGet returns one user.
//
// GET /api/users/{id}
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	user, err := h.profile.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate replaces the user's mutable profile fields.
//
// PUT /api/users/{id}
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var update model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.Warn("invalid profile JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	user, err := h.profile.UpdateUser(r.Context(), userID, update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleStats returns the user's aggregated counters.
//
// GET /api/users/{id}/stats
func (h *ProfileHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	stats, err := h.profile.UserStats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
