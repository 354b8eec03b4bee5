package service

import (
	"context"
	"testing"
	"time"

	"github.com/cashflowcoders/devplanner/internal/model"
)

type mockStatsRepo struct {
	gotToday      string
	gotWeekStart  string
	gotMonthStart string
}

func (m *mockStatsRepo) DashboardStats(_ context.Context, _ string, today, weekStart, monthStart string) (*model.DashboardStats, error) {
	m.gotToday = today
	m.gotWeekStart = weekStart
	m.gotMonthStart = monthStart
	return &model.DashboardStats{}, nil
}

func TestDashboardStats_DateWindows(t *testing.T) {
	repo := &mockStatsRepo{}
	svc := NewDashboardService(repo, testLogger())
	// Pin the clock to a known Wednesday.
	svc.now = func() time.Time {
		return time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	}

	if _, err := svc.Stats(context.Background(), "user-1"); err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if repo.gotToday != "2026-08-26" {
		t.Errorf("today = %s, want 2026-08-26", repo.gotToday)
	}
	if repo.gotWeekStart != "2026-08-24" {
		t.Errorf("weekStart = %s, want the Monday", repo.gotWeekStart)
	}
	if repo.gotMonthStart != "2026-08-01" {
		t.Errorf("monthStart = %s, want the first", repo.gotMonthStart)
	}
}
