// Package reminders sends payment reminders to clients with outstanding balances.
package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/ledger"
	"github.com/mamadbah2/farmflow/internal/repository"
)

// Notifier sends a templated payment reminder.
type Notifier interface {
	SendPaymentReminder(ctx context.Context, phone, customer string, amount decimal.Decimal, due time.Time, invoiceNumber string) (models.Outcome, error)
}

// Result summarises one reminder run.
type Result struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Service reads balances from the ledger and never writes to it.
type Service struct {
	events    repository.EventRepository
	clients   repository.ClientRepository
	notifier  Notifier
	dueInDays int
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a reminder service. Reminders are due dueInDays after the run.
func NewService(events repository.EventRepository, clients repository.ClientRepository, notifier Notifier, dueInDays int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		events:    events,
		clients:   clients,
		notifier:  notifier,
		dueInDays: dueInDays,
		logger:    logger,
		now:       time.Now,
	}
}

// SendOutstanding reminds every identified client whose sales across all crops
// exceed their payments. Clients without a phone number are skipped.
func (s *Service) SendOutstanding(ctx context.Context) (Result, error) {
	events, err := s.events.ListAllEvents(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load events: %w", err)
	}

	due := models.DateOnly(s.now()).AddDate(0, 0, s.dueInDays)
	var res Result

	for _, bal := range ledger.NewReconciliation(events).Outstanding() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		client, err := s.clients.GetClient(ctx, bal.ClientID)
		if err != nil {
			if !models.IsNotFound(err) {
				return res, fmt.Errorf("failed to load client %s: %w", bal.ClientID, err)
			}
			s.logger.Warn("outstanding balance for unknown client", zap.String("client_id", bal.ClientID))
			res.Skipped++
			continue
		}
		if client.Phone == "" {
			s.logger.Debug("client has no phone number", zap.String("client_id", client.ID))
			res.Skipped++
			continue
		}

		outcome, err := s.notifier.SendPaymentReminder(ctx, client.Phone, client.Name, bal.Outstanding, due, "")
		if err != nil || !outcome.Success {
			res.Failed++
			continue
		}
		res.Sent++
	}

	s.logger.Info("payment reminders processed", zap.Int("sent", res.Sent), zap.Int("failed", res.Failed), zap.Int("skipped", res.Skipped))
	return res, nil
}
