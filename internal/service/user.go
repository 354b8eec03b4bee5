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

// UserInput carries the profile fields a user may change about
// themselves. Email and password are deliberately absent — email is
// fixed at registration and passwords change only through the reset
// flow.
type UserInput struct {
	Name           string            `json:"name"`
	CurrentDay     int               `json:"currentDay"`
	TargetRevenue  float64           `json:"targetRevenue"`
	CurrentRevenue float64           `json:"currentRevenue"`
	StreakCount    int               `json:"streakCount"`
	Settings       model.Settings    `json:"settings"`
	SocialLinks    model.SocialLinks `json:"socialLinks"`
}

// UserService handles profile reads and updates.
type UserService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

func NewUserService(repo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// GetByID returns the full profile for an authenticated user.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.repo.GetUserByID(ctx, id)
}

// UpdateProfile replaces the caller's editable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in UserInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if in.CurrentDay < 1 || in.CurrentDay > 100 {
		return nil, apperror.ValidationFailed("currentDay", "current day must be between 1 and 100")
	}
	if in.TargetRevenue < 0 {
		return nil, apperror.ValidationFailed("targetRevenue", "target revenue cannot be negative")
	}
	if in.CurrentRevenue < 0 {
		return nil, apperror.ValidationFailed("currentRevenue", "current revenue cannot be negative")
	}
	if in.StreakCount < 0 {
		return nil, apperror.ValidationFailed("streakCount", "streak count cannot be negative")
	}

	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Name = in.Name
	u.CurrentDay = in.CurrentDay
	u.TargetRevenue = in.TargetRevenue
	u.CurrentRevenue = in.CurrentRevenue
	u.StreakCount = in.StreakCount
	u.Settings = in.Settings
	u.SocialLinks = in.SocialLinks

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		s.logger.Error("failed to update profile",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	s.logger.Info("profile updated", slog.String("id", id))
	return u, nil
}
