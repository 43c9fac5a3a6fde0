package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mchau/momento/internal/apperror"
	"github.com/mchau/momento/internal/model"
)

// mockContentRepo implements repository.ContentRepository in memory so the
// service logic can be exercised without a database.
type mockContentRepo struct {
	posts   []storedPost
	nextID  int64
	failAll error // when set, every call returns this error
}

type storedPost struct {
	id     int64
	userID int64
	post   model.NewPost
}

func (m *mockContentRepo) CreatePost(_ context.Context, userID int64, post model.NewPost) (int64, error) {
	if m.failAll != nil {
		return 0, m.failAll
	}
	m.nextID++
	m.posts = append(m.posts, storedPost{id: m.nextID, userID: userID, post: post})
	return m.nextID, nil
}

func (m *mockContentRepo) AllPosts(_ context.Context, _ int64) ([]model.PostView, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	views := make([]model.PostView, 0, len(m.posts))
	for i := len(m.posts) - 1; i >= 0; i-- {
		views = append(views, m.view(m.posts[i]))
	}
	return views, nil
}

func (m *mockContentRepo) UserPosts(_ context.Context, userID int64) ([]model.PostView, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	views := []model.PostView{}
	for i := len(m.posts) - 1; i >= 0; i-- {
		if m.posts[i].userID == userID {
			views = append(views, m.view(m.posts[i]))
		}
	}
	return views, nil
}

func (m *mockContentRepo) UserLikedPosts(_ context.Context, _ int64) ([]model.PostView, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	return []model.PostView{}, nil
}

func (m *mockContentRepo) UserBookmarkedPosts(_ context.Context, _ int64) ([]model.PostView, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	return []model.PostView{}, nil
}

func (m *mockContentRepo) GetPost(_ context.Context, postID, _ int64) (*model.PostView, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	for _, p := range m.posts {
		if p.id == postID {
			v := m.view(p)
			return &v, nil
		}
	}
	return nil, apperror.NotFound("post", postID)
}

func (m *mockContentRepo) view(p storedPost) model.PostView {
	return model.PostView{
		ID:          fmt.Sprintf("%d", p.id),
		Content:     p.post.Content,
		Mood:        p.post.Mood,
		Tags:        p.post.Tags,
		Images:      []model.Image{},
		Comments:    []model.Comment{},
		IsAnonymous: p.post.IsAnonymous,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestContentService() (*ContentService, *mockContentRepo) {
	repo := &mockContentRepo{}
	return NewContentService(repo, testLogger()), repo
}

func TestCreatePost_Success(t *testing.T) {
	svc, repo := newTestContentService()

	id, err := svc.CreatePost(context.Background(), 1, model.NewPost{
		Content: "今天天气不错",
		Tags:    []string{"生活"},
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if id == 0 {
		t.Error("expected a generated post id")
	}
	if len(repo.posts) != 1 {
		t.Fatalf("repo holds %d posts, want 1", len(repo.posts))
	}
}

func TestCreatePost_TrimsContent(t *testing.T) {
	svc, repo := newTestContentService()

	_, err := svc.CreatePost(context.Background(), 1, model.NewPost{Content: "  spaced  "})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if got := repo.posts[0].post.Content; got != "spaced" {
		t.Errorf("stored content = %q, want trimmed %q", got, "spaced")
	}
}

func TestCreatePost_EmptyContent(t *testing.T) {
	svc, repo := newTestContentService()

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.CreatePost(context.Background(), 1, model.NewPost{Content: content})
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("CreatePost(%q) error = %v, want ErrValidation", content, err)
		}
	}
	// Validation failures never reach the repository.
	if len(repo.posts) != 0 {
		t.Errorf("repo holds %d posts after rejected input, want 0", len(repo.posts))
	}
}

func TestCreatePost_ContentTooLong(t *testing.T) {
	svc, _ := newTestContentService()

	_, err := svc.CreatePost(context.Background(), 1, model.NewPost{
		Content: strings.Repeat("a", MaxContentLength+1),
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestCreatePost_TooManyImages(t *testing.T) {
	svc, _ := newTestContentService()

	images := make([]model.NewImage, MaxImagesPerPost+1)
	for i := range images {
		images[i] = model.NewImage{URI: fmt.Sprintf("file:///%d.jpg", i)}
	}
	_, err := svc.CreatePost(context.Background(), 1, model.NewPost{
		Content: "too many pictures",
		Images:  images,
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestCreatePost_BlankImageURI(t *testing.T) {
	svc, _ := newTestContentService()

	_, err := svc.CreatePost(context.Background(), 1, model.NewPost{
		Content: "broken image",
		Images:  []model.NewImage{{URI: "  "}},
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestCreatePost_RepoErrorWrapped(t *testing.T) {
	svc, repo := newTestContentService()
	repo.failAll = apperror.Store("insert post", errors.New("disk full"))

	_, err := svc.CreatePost(context.Background(), 1, model.NewPost{Content: "doomed"})
	if !errors.Is(err, apperror.ErrStore) {
		t.Errorf("error = %v, want ErrStore to survive wrapping", err)
	}
}

func TestFeed_NewestFirst(t *testing.T) {
	svc, _ := newTestContentService()
	ctx := context.Background()

	if _, err := svc.CreatePost(ctx, 1, model.NewPost{Content: "first"}); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if _, err := svc.CreatePost(ctx, 1, model.NewPost{Content: "second"}); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	feed, err := svc.Feed(ctx, 1)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("Feed() returned %d posts, want 2", len(feed))
	}
	if feed[0].Content != "second" {
		t.Errorf("feed[0].Content = %q, want the newest post first", feed[0].Content)
	}
}

func TestGetPost_NotFoundPropagates(t *testing.T) {
	svc, _ := newTestContentService()

	_, err := svc.GetPost(context.Background(), 404, 1)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetPost() error = %v, want ErrNotFound", err)
	}
}
