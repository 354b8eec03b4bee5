package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

type mockContentRepo struct {
	pieces map[string]*model.Content
	nextID int
}

func newMockContentRepo() *mockContentRepo {
	return &mockContentRepo{pieces: make(map[string]*model.Content)}
}

func (m *mockContentRepo) CreateContent(_ context.Context, c *model.Content) error {
	m.nextID++
	c.ID = fmt.Sprintf("content-%d", m.nextID)
	copied := *c
	m.pieces[c.ID] = &copied
	return nil
}

func (m *mockContentRepo) GetContentByID(_ context.Context, id, userID string) (*model.Content, error) {
	c, ok := m.pieces[id]
	if !ok || c.UserID != userID {
		return nil, apperror.NotFound("content", id)
	}
	result := *c
	return &result, nil
}

func (m *mockContentRepo) ListContent(_ context.Context, userID string, _ repository.ContentFilter) ([]model.Content, error) {
	result := []model.Content{}
	for _, c := range m.pieces {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockContentRepo) UpdateContent(_ context.Context, c *model.Content) error {
	stored, ok := m.pieces[c.ID]
	if !ok || stored.UserID != c.UserID {
		return apperror.NotFound("content", c.ID)
	}
	copied := *c
	m.pieces[c.ID] = &copied
	return nil
}

func (m *mockContentRepo) DeleteContent(_ context.Context, id, userID string) error {
	c, ok := m.pieces[id]
	if !ok || c.UserID != userID {
		return apperror.NotFound("content", id)
	}
	delete(m.pieces, id)
	return nil
}

func newTestContentService(t *testing.T) *ContentService {
	t.Helper()
	return NewContentService(newMockContentRepo(), testLogger())
}

func TestContentCreate_Defaults(t *testing.T) {
	svc := newTestContentService(t)

	c, err := svc.Create(context.Background(), "user-1", ContentInput{Title: "Go talk", Platform: "youtube"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if c.Type != "video" || c.Status != "draft" {
		t.Errorf("defaults = %s/%s, want video/draft", c.Type, c.Status)
	}
	if c.PublishedAt != nil {
		t.Error("a draft should have no publishedAt")
	}
	if c.Tags == nil {
		t.Error("Tags should default to an empty list")
	}
}

func TestContentCreate_PublishedStampsTimestamp(t *testing.T) {
	svc := newTestContentService(t)

	c, err := svc.Create(context.Background(), "user-1", ContentInput{
		Title: "launch post", Platform: "medium", Type: "blog", Status: "published",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if c.PublishedAt == nil {
		t.Error("publishedAt should be stamped when created published")
	}
}

func TestContentUpdate_FirstPublishStampsOnce(t *testing.T) {
	svc := newTestContentService(t)
	ctx := context.Background()

	c, _ := svc.Create(ctx, "user-1", ContentInput{Title: "wip", Platform: "youtube"})

	published, err := svc.Update(ctx, c.ID, "user-1", ContentInput{Title: "wip", Platform: "youtube", Status: "published"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("publishedAt not stamped on first publish")
	}
	stamp := *published.PublishedAt

	// Archive and re-publish: the original timestamp survives.
	if _, err := svc.Update(ctx, c.ID, "user-1", ContentInput{Title: "wip", Platform: "youtube", Status: "archived"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	again, err := svc.Update(ctx, c.ID, "user-1", ContentInput{Title: "wip", Platform: "youtube", Status: "published"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(stamp) {
		t.Errorf("publishedAt moved from %v to %v", stamp, again.PublishedAt)
	}
}

func TestContentCreate_MissingPlatform(t *testing.T) {
	svc := newTestContentService(t)

	_, err := svc.Create(context.Background(), "user-1", ContentInput{Title: "no platform"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}
