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

// JournalInput carries the client-writable fields of a journal entry.
// WordCount is not here — it is derived from Content at write time and
// never accepted from the client.
type JournalInput struct {
	Date          string   `json:"date"`
	Content       string   `json:"content"`
	Mood          string   `json:"mood"`
	Energy        int      `json:"energy"`
	Learnings     []string `json:"learnings"`
	Challenges    []string `json:"challenges"`
	Wins          []string `json:"wins"`
	Goals         []string `json:"goals"`
	Gratitude     []string `json:"gratitude"`
	TomorrowFocus []string `json:"tomorrowFocus"`
}

// JournalService handles daily journal entries.
type JournalService struct {
	repo   repository.JournalRepository
	logger *slog.Logger
}

func NewJournalService(repo repository.JournalRepository, logger *slog.Logger) *JournalService {
	return &JournalService{repo: repo, logger: logger}
}

func (s *JournalService) validate(in *JournalInput) error {
	if strings.TrimSpace(in.Content) == "" {
		return apperror.ValidationFailed("content", "journal content is required")
	}
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

	for _, list := range []*[]string{
		&in.Learnings, &in.Challenges, &in.Wins,
		&in.Goals, &in.Gratitude, &in.TomorrowFocus,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
	return nil
}

// Create validates and saves a new entry. A second entry for the same
// day is rejected with a conflict — journal days are write-once rows,
// edited through Update.
func (s *JournalService) Create(ctx context.Context, userID string, in JournalInput) (*model.Journal, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	j := &model.Journal{
		UserID:        userID,
		Date:          in.Date,
		Content:       in.Content,
		Mood:          in.Mood,
		Energy:        in.Energy,
		WordCount:     len(strings.Fields(in.Content)),
		Learnings:     in.Learnings,
		Challenges:    in.Challenges,
		Wins:          in.Wins,
		Goals:         in.Goals,
		Gratitude:     in.Gratitude,
		TomorrowFocus: in.TomorrowFocus,
	}

	if err := s.repo.CreateJournal(ctx, j); err != nil {
		return nil, err // conflict and storage errors pass through
	}

	s.logger.Info("journal entry created",
		slog.String("id", j.ID),
		slog.String("date", j.Date),
	)
	return j, nil
}

// GetByID fetches one entry scoped to the caller.
func (s *JournalService) GetByID(ctx context.Context, id, userID string) (*model.Journal, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "journal ID is required")
	}
	return s.repo.GetJournalByID(ctx, id, userID)
}

// List returns the caller's entries, newest day first, with optional
// date range and pagination.
func (s *JournalService) List(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Journal, error) {
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

	entries, err := s.repo.ListJournal(ctx, userID, opts)
	if err != nil {
		s.logger.Error("failed to list journal entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}
	return entries, nil
}

// Update replaces an entry's writable fields and rederives the word
// count. The date itself is immutable.
func (s *JournalService) Update(ctx context.Context, id, userID string, in JournalInput) (*model.Journal, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "journal ID is required")
	}

	j, err := s.repo.GetJournalByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	in.Date = j.Date // immutable
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	j.Content = in.Content
	j.Mood = in.Mood
	j.Energy = in.Energy
	j.WordCount = len(strings.Fields(in.Content))
	j.Learnings = in.Learnings
	j.Challenges = in.Challenges
	j.Wins = in.Wins
	j.Goals = in.Goals
	j.Gratitude = in.Gratitude
	j.TomorrowFocus = in.TomorrowFocus

	if err := s.repo.UpdateJournal(ctx, j); err != nil {
		s.logger.Error("failed to update journal entry",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating journal entry: %w", err)
	}
	return j, nil
}

// Delete removes an entry scoped to the caller.
func (s *JournalService) Delete(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed("id", "journal ID is required")
	}
	if err := s.repo.DeleteJournal(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("journal entry deleted", slog.String("id", id))
	return nil
}
