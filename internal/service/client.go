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

// ClientInput carries the client-writable fields of a client engagement.
type ClientInput struct {
	Name          string  `json:"name"`
	Project       string  `json:"project"`
	Budget        float64 `json:"budget"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	PaidAmount    float64 `json:"paidAmount"`
}

// ClientService handles freelance client engagements.
type ClientService struct {
	repo   repository.ClientRepository
	logger *slog.Logger
}

func NewClientService(repo repository.ClientRepository, logger *slog.Logger) *ClientService {
	return &ClientService{repo: repo, logger: logger}
}

func (s *ClientService) validate(in *ClientInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperror.ValidationFailed("name", "client name is required")
	}
	if in.Budget <= 0 {
		return apperror.ValidationFailed("budget", "budget is required and must be positive")
	}
	if in.PaidAmount < 0 {
		return apperror.ValidationFailed("paidAmount", "paid amount cannot be negative")
	}

	var err error
	if in.Status, err = validateEnum("status", in.Status, "pending", ClientStatuses); err != nil {
		return err
	}
	if in.PaymentStatus, err = validateEnum("paymentStatus", in.PaymentStatus, "pending", PaymentStatuses); err != nil {
		return err
	}
	return nil
}

// Create validates and saves a new client engagement.
func (s *ClientService) Create(ctx context.Context, userID string, in ClientInput) (*model.Client, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	c := &model.Client{
		UserID:        userID,
		Name:          in.Name,
		Project:       strings.TrimSpace(in.Project),
		Budget:        in.Budget,
		Status:        in.Status,
		PaymentStatus: in.PaymentStatus,
		PaidAmount:    in.PaidAmount,
	}

	if err := s.repo.CreateClient(ctx, c); err != nil {
		s.logger.Error("failed to create client",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating client: %w", err)
	}

	s.logger.Info("client created", slog.String("id", c.ID))
	return c, nil
}

// GetByID fetches one engagement scoped to the caller.
func (s *ClientService) GetByID(ctx context.Context, id, userID string) (*model.Client, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "client ID is required")
	}
	return s.repo.GetClientByID(ctx, id, userID)
}

// List returns the caller's clients narrowed by the whitelisted filter.
func (s *ClientService) List(ctx context.Context, userID string, filter repository.ClientFilter) ([]model.Client, error) {
	var err error
	if filter.Status != "" {
		if filter.Status, err = validateEnum("status", filter.Status, "", ClientStatuses); err != nil {
			return nil, err
		}
	}
	if filter.PaymentStatus != "" {
		if filter.PaymentStatus, err = validateEnum("paymentStatus", filter.PaymentStatus, "", PaymentStatuses); err != nil {
			return nil, err
		}
	}

	clients, err := s.repo.ListClients(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list clients", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return clients, nil
}

// Update replaces an engagement's writable fields. PaidAmount is tracked
// independently of Budget — no cross-field invariant.
func (s *ClientService) Update(ctx context.Context, id, userID string, in ClientInput) (*model.Client, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "client ID is required")
	}
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	c, err := s.repo.GetClientByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	c.Name = in.Name
	c.Project = strings.TrimSpace(in.Project)
	c.Budget = in.Budget
	c.Status = in.Status
	c.PaymentStatus = in.PaymentStatus
	c.PaidAmount = in.PaidAmount

	if err := s.repo.UpdateClient(ctx, c); err != nil {
		s.logger.Error("failed to update client",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating client: %w", err)
	}
	return c, nil
}

// Delete removes an engagement scoped to the caller.
func (s *ClientService) Delete(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed("id", "client ID is required")
	}
	if err := s.repo.DeleteClient(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("client deleted", slog.String("id", id))
	return nil
}
