package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

// DashboardService computes the cross-resource stats shown on the
// dashboard home screen.
type DashboardService struct {
	repo   repository.StatsRepository
	logger *slog.Logger
	now    func() time.Time // injectable for tests
}

func NewDashboardService(repo repository.StatsRepository, logger *slog.Logger) *DashboardService {
	return &DashboardService{repo: repo, logger: logger, now: time.Now}
}

// Stats aggregates the caller's data into a single snapshot. "This week"
// starts on Monday; "this month" on the first of the current month. The
// whole snapshot is computed in one repository call so every section
// reflects the same instant.
func (s *DashboardService) Stats(ctx context.Context, userID string) (*model.DashboardStats, error) {
	now := s.now()
	stats, err := s.repo.DashboardStats(ctx, userID,
		now.Format(dayFormat), weekStart(now), monthStart(now))
	if err != nil {
		s.logger.Error("failed to compute dashboard stats",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("computing dashboard stats: %w", err)
	}
	return stats, nil
}
