package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

// ContentInput carries the client-writable fields of a content piece.
type ContentInput struct {
	Type        string               `json:"type"`
	Title       string               `json:"title"`
	Platform    string               `json:"platform"`
	Status      string               `json:"status"`
	Views       int                  `json:"views"`
	Revenue     float64              `json:"revenue"`
	Tags        []string             `json:"tags"`
	Metrics     model.ContentMetrics `json:"metrics"`
	PublishedAt *time.Time           `json:"publishedAt"`
}

// ContentService handles content pieces (videos, blog posts, products).
type ContentService struct {
	repo   repository.ContentRepository
	logger *slog.Logger
}

func NewContentService(repo repository.ContentRepository, logger *slog.Logger) *ContentService {
	return &ContentService{repo: repo, logger: logger}
}

func (s *ContentService) validate(in *ContentInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperror.ValidationFailed("title", "content title is required")
	}
	in.Platform = strings.TrimSpace(in.Platform)
	if in.Platform == "" {
		return apperror.ValidationFailed("platform", "platform is required")
	}

	var err error
	if in.Type, err = validateEnum("type", in.Type, "video", ContentTypes); err != nil {
		return err
	}
	if in.Status, err = validateEnum("status", in.Status, "draft", ContentStatuses); err != nil {
		return err
	}
	if in.Views < 0 {
		return apperror.ValidationFailed("views", "views cannot be negative")
	}
	if in.Revenue < 0 {
		return apperror.ValidationFailed("revenue", "revenue cannot be negative")
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}
	return nil
}

// Create validates and saves a new content piece. A piece created
// directly in the "published" status gets publishedAt stamped unless the
// client supplied one.
func (s *ContentService) Create(ctx context.Context, userID string, in ContentInput) (*model.Content, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	c := &model.Content{
		UserID:      userID,
		Type:        in.Type,
		Title:       in.Title,
		Platform:    in.Platform,
		Status:      in.Status,
		Views:       in.Views,
		Revenue:     in.Revenue,
		Tags:        in.Tags,
		Metrics:     in.Metrics,
		PublishedAt: in.PublishedAt,
	}
	if c.Status == "published" && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}

	if err := s.repo.CreateContent(ctx, c); err != nil {
		s.logger.Error("failed to create content",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating content: %w", err)
	}

	s.logger.Info("content created",
		slog.String("id", c.ID),
		slog.String("platform", c.Platform),
	)
	return c, nil
}

// GetByID fetches one piece scoped to the caller.
func (s *ContentService) GetByID(ctx context.Context, id, userID string) (*model.Content, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "content ID is required")
	}
	return s.repo.GetContentByID(ctx, id, userID)
}

// List returns the caller's content narrowed by the whitelisted filter.
func (s *ContentService) List(ctx context.Context, userID string, filter repository.ContentFilter) ([]model.Content, error) {
	var err error
	if filter.Type != "" {
		if filter.Type, err = validateEnum("type", filter.Type, "", ContentTypes); err != nil {
			return nil, err
		}
	}
	if filter.Status != "" {
		if filter.Status, err = validateEnum("status", filter.Status, "", ContentStatuses); err != nil {
			return nil, err
		}
	}

	pieces, err := s.repo.ListContent(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list content", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing content: %w", err)
	}
	return pieces, nil
}

// Update replaces a piece's writable fields. The first transition into
// "published" stamps publishedAt if absent; it is never cleared by later
// status changes.
func (s *ContentService) Update(ctx context.Context, id, userID string, in ContentInput) (*model.Content, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "content ID is required")
	}
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	c, err := s.repo.GetContentByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.PublishedAt != nil {
		c.PublishedAt = in.PublishedAt
	}
	if in.Status == "published" && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}

	c.Type = in.Type
	c.Title = in.Title
	c.Platform = in.Platform
	c.Status = in.Status
	c.Views = in.Views
	c.Revenue = in.Revenue
	c.Tags = in.Tags
	c.Metrics = in.Metrics

	if err := s.repo.UpdateContent(ctx, c); err != nil {
		s.logger.Error("failed to update content",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating content: %w", err)
	}
	return c, nil
}

// Delete removes a piece scoped to the caller.
func (s *ContentService) Delete(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed("id", "content ID is required")
	}
	if err := s.repo.DeleteContent(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("content deleted", slog.String("id", id))
	return nil
}
