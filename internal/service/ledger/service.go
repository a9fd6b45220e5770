// Package ledger exposes crop ledger operations over the event repository.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	core "github.com/mamadbah2/farmflow/internal/ledger"
	"github.com/mamadbah2/farmflow/internal/repository"
)

// EventInput is a new or replacement event as received from a caller.
type EventInput struct {
	Kind   models.EventKind
	Date   time.Time
	Title  string
	Fields models.EventFields
}

// Summary is the financial position of one crop, recomputed on every call.
type Summary struct {
	CropID             string               `json:"crop_id"`
	EventCount         int                  `json:"event_count"`
	Totals             core.Totals          `json:"totals"`
	IsLoss             bool                 `json:"is_loss"`
	PendingReceivables decimal.Decimal      `json:"pending_receivables"`
	Outstanding        []core.ClientBalance `json:"outstanding"`
}

// ReconciliationView lists pool and per-client receivables for one crop.
type ReconciliationView struct {
	CropID             string               `json:"crop_id"`
	PendingReceivables decimal.Decimal      `json:"pending_receivables"`
	Clients            []core.ClientBalance `json:"clients"`
	Unattributed       core.ClientBalance   `json:"unattributed"`
}

// Service validates events before they reach the repository and derives
// totals from whatever the repository returns.
type Service struct {
	events  repository.EventRepository
	clients repository.ClientRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a ledger service. clients may be nil, in which case client
// ids on sales and payments are accepted without lookup.
func NewService(events repository.EventRepository, clients repository.ClientRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{events: events, clients: clients, logger: logger, now: time.Now}
}

// ListEvents returns a crop's events ordered by date.
func (s *Service) ListEvents(ctx context.Context, cropID string) ([]models.Event, error) {
	if strings.TrimSpace(cropID) == "" {
		return nil, models.NewValidationError("crop_id", "is required")
	}
	events, err := s.events.ListEvents(ctx, cropID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// RecordEvent validates the input and appends it to the crop ledger.
func (s *Service) RecordEvent(ctx context.Context, cropID string, in EventInput) (models.Event, error) {
	ev, err := s.build(ctx, cropID, in)
	if err != nil {
		return models.Event{}, err
	}

	now := s.now().UTC()
	ev.CreatedAt = now
	ev.UpdatedAt = now

	id, err := s.events.AppendEvent(ctx, ev)
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to append event: %w", err)
	}
	ev.ID = id

	s.logger.Info("event recorded", zap.String("crop_id", cropID), zap.String("event_id", id), zap.String("kind", string(ev.Kind)))
	return ev, nil
}

// ReplaceEvent overwrites an existing event of the crop with a freshly validated one.
func (s *Service) ReplaceEvent(ctx context.Context, cropID, eventID string, in EventInput) (models.Event, error) {
	existing, err := s.owned(ctx, cropID, eventID)
	if err != nil {
		return models.Event{}, err
	}

	ev, err := s.build(ctx, cropID, in)
	if err != nil {
		return models.Event{}, err
	}
	ev.ID = existing.ID
	ev.CreatedAt = existing.CreatedAt
	ev.UpdatedAt = s.now().UTC()

	if err := s.events.UpdateEvent(ctx, eventID, ev); err != nil {
		return models.Event{}, fmt.Errorf("failed to update event: %w", err)
	}

	s.logger.Info("event replaced", zap.String("crop_id", cropID), zap.String("event_id", eventID))
	return ev, nil
}

// DeleteEvent removes an event of the crop.
func (s *Service) DeleteEvent(ctx context.Context, cropID, eventID string) error {
	if _, err := s.owned(ctx, cropID, eventID); err != nil {
		return err
	}
	if err := s.events.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	s.logger.Info("event deleted", zap.String("crop_id", cropID), zap.String("event_id", eventID))
	return nil
}

// Summary aggregates the crop's events.
func (s *Service) Summary(ctx context.Context, cropID string) (Summary, error) {
	events, err := s.ListEvents(ctx, cropID)
	if err != nil {
		return Summary{}, err
	}
	totals := core.Aggregate(events)
	recon := core.NewReconciliation(events)
	return Summary{
		CropID:             cropID,
		EventCount:         len(events),
		Totals:             totals,
		IsLoss:             totals.IsLoss(),
		PendingReceivables: recon.PendingReceivables(),
		Outstanding:        recon.Outstanding(),
	}, nil
}

// Reconcile returns the crop's receivables broken down by client.
func (s *Service) Reconcile(ctx context.Context, cropID string) (ReconciliationView, error) {
	events, err := s.ListEvents(ctx, cropID)
	if err != nil {
		return ReconciliationView{}, err
	}
	recon := core.NewReconciliation(events)
	return ReconciliationView{
		CropID:             cropID,
		PendingReceivables: recon.PendingReceivables(),
		Clients:            recon.Clients(),
		Unattributed:       recon.Unattributed(),
	}, nil
}

func (s *Service) build(ctx context.Context, cropID string, in EventInput) (models.Event, error) {
	if strings.TrimSpace(cropID) == "" {
		return models.Event{}, models.NewValidationError("crop_id", "is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return models.Event{}, models.NewValidationError("title", "is required")
	}
	if in.Date.IsZero() {
		return models.Event{}, models.NewValidationError("date", "is required")
	}

	fields := in.Fields
	if fields.ClientID != "" && s.clients != nil {
		client, err := s.clients.GetClient(ctx, fields.ClientID)
		if err != nil {
			if models.IsNotFound(err) {
				return models.Event{}, models.NewValidationError("client_id", "does not match a known client")
			}
			return models.Event{}, fmt.Errorf("failed to resolve client: %w", err)
		}
		if fields.Client == "" {
			fields.Client = client.Name
		}
	}

	ev, err := models.NewEvent(in.Kind, in.Date, strings.TrimSpace(in.Title), fields)
	if err != nil {
		return models.Event{}, err
	}
	ev.CropID = cropID
	return ev, nil
}

// owned loads an event and hides events that belong to another crop.
func (s *Service) owned(ctx context.Context, cropID, eventID string) (models.Event, error) {
	ev, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		if models.IsNotFound(err) {
			return models.Event{}, err
		}
		return models.Event{}, fmt.Errorf("failed to load event: %w", err)
	}
	if ev.CropID != cropID {
		return models.Event{}, models.NewNotFoundError("event", eventID)
	}
	return ev, nil
}
