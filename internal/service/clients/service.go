// Package clients manages the customers that sales and payments are attributed to.
package clients

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/repository"
)

// Service lists and registers clients.
type Service struct {
	repo   repository.ClientRepository
	logger *zap.Logger
}

// NewService wires a client service.
func NewService(repo repository.ClientRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// List returns every known client.
func (s *Service) List(ctx context.Context) ([]models.Client, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// Create registers a client. Name and phone are required; the phone is the
// reminder recipient.
func (s *Service) Create(ctx context.Context, name, phone string) (models.Client, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return models.Client{}, models.NewValidationError("name", "is required")
	}
	if phone == "" {
		return models.Client{}, models.NewValidationError("phone", "is required")
	}

	client, err := s.repo.CreateClient(ctx, models.Client{Name: name, Phone: phone})
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created", zap.String("client_id", client.ID))
	return client, nil
}
