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

// OutreachInput carries the client-writable fields of an outreach
// attempt.
type OutreachInput struct {
	Type    string `json:"type"`
	Target  string `json:"target"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
}

// OutreachService handles cold-outreach tracking.
type OutreachService struct {
	repo   repository.OutreachRepository
	logger *slog.Logger
}

func NewOutreachService(repo repository.OutreachRepository, logger *slog.Logger) *OutreachService {
	return &OutreachService{repo: repo, logger: logger}
}

func (s *OutreachService) validate(in *OutreachInput) error {
	in.Target = strings.TrimSpace(in.Target)
	if in.Target == "" {
		return apperror.ValidationFailed("target", "outreach target is required")
	}

	var err error
	if in.Type, err = validateEnum("type", in.Type, "email", OutreachTypes); err != nil {
		return err
	}
	if in.Status, err = validateEnum("status", in.Status, "sent", OutreachStatuses); err != nil {
		return err
	}
	return nil
}

// Create validates and saves a new outreach attempt.
func (s *OutreachService) Create(ctx context.Context, userID string, in OutreachInput) (*model.Outreach, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	o := &model.Outreach{
		UserID:  userID,
		Type:    in.Type,
		Target:  in.Target,
		Subject: strings.TrimSpace(in.Subject),
		Status:  in.Status,
	}
	stampOutreachTransitions(o, in.Status)

	if err := s.repo.CreateOutreach(ctx, o); err != nil {
		s.logger.Error("failed to create outreach",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating outreach: %w", err)
	}

	s.logger.Info("outreach created",
		slog.String("id", o.ID),
		slog.String("target", o.Target),
	)
	return o, nil
}

// stampOutreachTransitions sets OpenedAt/RepliedAt on the first entry
// into the corresponding status. Already-set timestamps are kept, so the
// history survives later status changes.
func stampOutreachTransitions(o *model.Outreach, newStatus string) {
	now := time.Now()
	if newStatus == "opened" && o.OpenedAt == nil {
		o.OpenedAt = &now
	}
	if newStatus == "replied" {
		// A reply implies the message was opened.
		if o.OpenedAt == nil {
			o.OpenedAt = &now
		}
		if o.RepliedAt == nil {
			o.RepliedAt = &now
		}
	}
}

// GetByID fetches one attempt scoped to the caller.
func (s *OutreachService) GetByID(ctx context.Context, id, userID string) (*model.Outreach, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "outreach ID is required")
	}
	return s.repo.GetOutreachByID(ctx, id, userID)
}

// List returns the caller's attempts narrowed by the whitelisted filter.
func (s *OutreachService) List(ctx context.Context, userID string, filter repository.OutreachFilter) ([]model.Outreach, error) {
	var err error
	if filter.Type != "" {
		if filter.Type, err = validateEnum("type", filter.Type, "", OutreachTypes); err != nil {
			return nil, err
		}
	}
	if filter.Status != "" {
		if filter.Status, err = validateEnum("status", filter.Status, "", OutreachStatuses); err != nil {
			return nil, err
		}
	}

	attempts, err := s.repo.ListOutreach(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list outreach", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing outreach: %w", err)
	}
	return attempts, nil
}

// Update replaces an attempt's writable fields and stamps first-time
// opened/replied transitions.
func (s *OutreachService) Update(ctx context.Context, id, userID string, in OutreachInput) (*model.Outreach, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "outreach ID is required")
	}
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	o, err := s.repo.GetOutreachByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	stampOutreachTransitions(o, in.Status)
	o.Type = in.Type
	o.Target = in.Target
	o.Subject = strings.TrimSpace(in.Subject)
	o.Status = in.Status

	if err := s.repo.UpdateOutreach(ctx, o); err != nil {
		s.logger.Error("failed to update outreach",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating outreach: %w", err)
	}
	return o, nil
}

// Delete removes an attempt scoped to the caller.
func (s *OutreachService) Delete(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed("id", "outreach ID is required")
	}
	if err := s.repo.DeleteOutreach(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("outreach deleted", slog.String("id", id))
	return nil
}
