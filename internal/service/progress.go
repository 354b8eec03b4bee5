package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

// ProgressInput carries the client-writable fields of a daily log.
// Date defaults to today when omitted on create.
type ProgressInput struct {
	Date         string   `json:"date"`
	Revenue      float64  `json:"revenue"`
	DSAProblems  int      `json:"dsaProblems"`
	HoursWorked  float64  `json:"hoursWorked"`
	Mood         string   `json:"mood"`
	Energy       int      `json:"energy"`
	Achievements []string `json:"achievements"`
}

// ProgressService handles daily progress logs.
type ProgressService struct {
	repo   repository.ProgressRepository
	logger *slog.Logger
}

func NewProgressService(repo repository.ProgressRepository, logger *slog.Logger) *ProgressService {
	return &ProgressService{repo: repo, logger: logger}
}

func (s *ProgressService) validate(in *ProgressInput) error {
	if in.Date == "" {
		in.Date = today()
	}
	if err := validateDate("date", in.Date); err != nil {
		return err
	}
	var err error
	if in.Energy, err = validateEnergy(in.Energy); err != nil {
		return err
	}
	if in.Revenue < 0 {
		return apperror.ValidationFailed("revenue", "revenue cannot be negative")
	}
	if in.HoursWorked < 0 || in.HoursWorked > 24 {
		return apperror.ValidationFailed("hoursWorked", "hours worked must be between 0 and 24")
	}
	if in.DSAProblems < 0 {
		return apperror.ValidationFailed("dsaProblems", "problem count cannot be negative")
	}
	if in.Achievements == nil {
		in.Achievements = []string{}
	}
	return nil
}

// Log records a day's progress. Posting twice for the same date updates
// the existing record in place — there is never a second row for a day.
func (s *ProgressService) Log(ctx context.Context, userID string, in ProgressInput) (*model.Progress, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	p := &model.Progress{
		UserID:       userID,
		Date:         in.Date,
		Revenue:      in.Revenue,
		DSAProblems:  in.DSAProblems,
		HoursWorked:  in.HoursWorked,
		Mood:         in.Mood,
		Energy:       in.Energy,
		Achievements: in.Achievements,
	}

	if err := s.repo.UpsertProgress(ctx, p); err != nil {
		s.logger.Error("failed to log progress",
			slog.String("userID", userID),
			slog.String("date", in.Date),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("logging progress: %w", err)
	}

	s.logger.Info("progress logged",
		slog.String("id", p.ID),
		slog.String("date", p.Date),
	)
	return p, nil
}

// GetByID fetches one log scoped to the caller.
func (s *ProgressService) GetByID(ctx context.Context, id, userID string) (*model.Progress, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "progress ID is required")
	}
	return s.repo.GetProgressByID(ctx, id, userID)
}

// List returns the caller's logs, newest day first, with optional date
// range and pagination.
func (s *ProgressService) List(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Progress, error) {
	if opts.FromDate != "" {
		if err := validateDate("from", opts.FromDate); err != nil {
			return nil, err
		}
	}
	if opts.ToDate != "" {
		if err := validateDate("to", opts.ToDate); err != nil {
			return nil, err
		}
	}

	entries, err := s.repo.ListProgress(ctx, userID, opts)
	if err != nil {
		s.logger.Error("failed to list progress", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing progress: %w", err)
	}
	return entries, nil
}

// Update replaces a log's writable fields. The date itself cannot be
// moved — delete and re-log instead.
func (s *ProgressService) Update(ctx context.Context, id, userID string, in ProgressInput) (*model.Progress, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "progress ID is required")
	}

	p, err := s.repo.GetProgressByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	in.Date = p.Date // immutable
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	p.Revenue = in.Revenue
	p.DSAProblems = in.DSAProblems
	p.HoursWorked = in.HoursWorked
	p.Mood = in.Mood
	p.Energy = in.Energy
	p.Achievements = in.Achievements

	if err := s.repo.UpdateProgress(ctx, p); err != nil {
		s.logger.Error("failed to update progress",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating progress: %w", err)
	}
	return p, nil
}

// Delete removes a log scoped to the caller.
func (s *ProgressService) Delete(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed("id", "progress ID is required")
	}
	if err := s.repo.DeleteProgress(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("progress deleted", slog.String("id", id))
	return nil
}
