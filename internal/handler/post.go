package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mchau/momento/internal/model"
	"github.com/mchau/momento/internal/service"
)

// PostHandler serves the feed, per-user post collections and post creation.
type PostHandler struct {
	content *service.ContentService
	logger  *slog.Logger
}

func NewPostHandler(content *service.ContentService, logger *slog.Logger) *PostHandler {
	return &PostHandler{content: content, logger: logger}
}

// createPostRequest is the creation body. The authoring user travels in the
// body because the API carries no session; this deployment is a local,
// single-user surface.
type createPostRequest struct {
	UserID int64 `json:"userId"`
	model.NewPost
}

type createPostResponse struct {
	ID string `json:"id"`
}

// HandleCreate stores a new post.
//
// POST /api/posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid post JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}
	if req.UserID == 0 {
		req.UserID = 1 // the local user
	}

	id, err := h.content.CreatePost(r.Context(), req.UserID, req.NewPost)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createPostResponse{ID: strconv.FormatInt(id, 10)})
}

// viewerFromQuery resolves the optional ?viewer parameter, defaulting to the
// local user. Reports false after writing the error response.
func viewerFromQuery(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("viewer")
	if raw == "" {
		return 1, true
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "viewer must be a positive integer",
		})
		return 0, false
	}
	return parsed, true
}

// HandleFeed returns every post, newest first, projected for the viewer given
// by the optional ?viewer query parameter.
//
// GET /api/posts?viewer={id}
func (h *PostHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := viewerFromQuery(w, r)
	if !ok {
		return
	}

	posts, err := h.content.Feed(r.Context(), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleGet returns a single post for the viewer.
//
// GET /api/posts/{id}?viewer={viewerId}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	viewerID, ok := viewerFromQuery(w, r)
	if !ok {
		return
	}

	post, err := h.content.GetPost(r.Context(), postID, viewerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleUserPosts returns the posts authored by the user in the path.
//
// GET /api/users/{id}/posts
func (h *PostHandler) HandleUserPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	posts, err := h.content.UserPosts(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleLikedPosts returns the posts the user has liked, most recent first.
//
// GET /api/users/{id}/liked
func (h *PostHandler) HandleLikedPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	posts, err := h.content.LikedPosts(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleBookmarkedPosts returns the posts the user has bookmarked.
//
// GET /api/users/{id}/bookmarked
func (h *PostHandler) HandleBookmarkedPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	posts, err := h.content.BookmarkedPosts(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}
