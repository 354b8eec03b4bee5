package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

func TestContent_RoundTripJSONColumns(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "content@example.com")

	published := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	c := &model.Content{
		UserID:      u.ID,
		Type:        "video",
		Title:       "Go for freelancers",
		Platform:    "youtube",
		Status:      "published",
		Views:       1200,
		Revenue:     45.5,
		Tags:        []string{"go", "freelance"},
		Metrics:     model.ContentMetrics{Likes: 80, Comments: 12, Shares: 5},
		PublishedAt: &published,
	}
	if err := db.CreateContent(ctx, c); err != nil {
		t.Fatalf("CreateContent() error = %v", err)
	}

	found, err := db.GetContentByID(ctx, c.ID, u.ID)
	if err != nil {
		t.Fatalf("GetContentByID() error = %v", err)
	}
	if len(found.Tags) != 2 || found.Tags[0] != "go" {
		t.Errorf("Tags = %v, want stored list", found.Tags)
	}
	if found.Metrics.Likes != 80 || found.Metrics.Shares != 5 {
		t.Errorf("Metrics = %+v, want stored values", found.Metrics)
	}
	if found.PublishedAt == nil {
		t.Fatal("PublishedAt came back nil")
	}
}

func TestContent_DraftHasNoPublishedAt(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "draft@example.com")

	c := &model.Content{UserID: u.ID, Type: "blog", Title: "draft", Platform: "medium", Status: "draft"}
	if err := db.CreateContent(ctx, c); err != nil {
		t.Fatalf("CreateContent() error = %v", err)
	}

	found, _ := db.GetContentByID(ctx, c.ID, u.ID)
	if found.PublishedAt != nil {
		t.Errorf("PublishedAt = %v, want nil for a draft", found.PublishedAt)
	}
}

func TestListContent_Filters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "c-list@example.com")

	for _, c := range []*model.Content{
		{UserID: u.ID, Type: "video", Title: "v1", Platform: "youtube", Status: "published"},
		{UserID: u.ID, Type: "video", Title: "v2", Platform: "youtube", Status: "draft"},
		{UserID: u.ID, Type: "blog", Title: "b1", Platform: "medium", Status: "published"},
	} {
		if err := db.CreateContent(ctx, c); err != nil {
			t.Fatalf("CreateContent() error = %v", err)
		}
	}

	videos, err := db.ListContent(ctx, u.ID, repository.ContentFilter{Type: "video"})
	if err != nil {
		t.Fatalf("ListContent(type) error = %v", err)
	}
	if len(videos) != 2 {
		t.Errorf("type filter returned %d, want 2", len(videos))
	}

	publishedVideos, err := db.ListContent(ctx, u.ID, repository.ContentFilter{Type: "video", Status: "published"})
	if err != nil {
		t.Fatalf("ListContent(type+status) error = %v", err)
	}
	if len(publishedVideos) != 1 || publishedVideos[0].Title != "v1" {
		t.Errorf("combined filter returned %v", publishedVideos)
	}
}

func TestDeleteContent_OwnershipScoped(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "c-owner@example.com")
	other := createTestUser(t, db, "c-other@example.com")

	c := &model.Content{UserID: owner.ID, Type: "video", Title: "mine", Platform: "youtube", Status: "draft"}
	if err := db.CreateContent(ctx, c); err != nil {
		t.Fatalf("CreateContent() error = %v", err)
	}

	if err := db.DeleteContent(ctx, c.ID, other.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("other user DeleteContent() error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteContent(ctx, c.ID, owner.ID); err != nil {
		t.Fatalf("owner DeleteContent() error = %v", err)
	}
}
