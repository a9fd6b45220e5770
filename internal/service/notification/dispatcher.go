// Package notification delivers templated messages through the configured transport.
//
// The dispatcher is independent of the ledger: it reads figures handed to it and
// never writes events, so a transport failure cannot show up as a ledger change.
package notification

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/repository"
)

// ErrNotConfigured is reported when no transport was configured.
var ErrNotConfigured = errors.New("sms service not initialized")

const sendTimeout = 20 * time.Second

// Transport delivers one message and returns the provider message id.
type Transport interface {
	Send(ctx context.Context, to, message string) (string, error)
	Name() string
}

// Status describes the dispatcher configuration without credentials.
type Status struct {
	Initialized bool   `json:"initialized"`
	Provider    string `json:"provider,omitempty"`
}

// Dispatcher sends messages, records every attempt and never retries on its own.
type Dispatcher struct {
	transport Transport
	logs      repository.SMSLogRepository
	bulkDelay time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewDispatcher wires a dispatcher. A nil transport yields a dispatcher whose
// sends all fail with ErrNotConfigured; a nil log repository disables logging.
func NewDispatcher(transport Transport, logs repository.SMSLogRepository, bulkDelay time.Duration, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		transport: transport,
		logs:      logs,
		bulkDelay: bulkDelay,
		logger:    logger,
		now:       time.Now,
	}
}

// Status reports whether a transport is configured.
func (d *Dispatcher) Status() Status {
	if d.transport == nil {
		return Status{}
	}
	return Status{Initialized: true, Provider: d.transport.Name()}
}

// Send delivers a general message. The error is reserved for rejected input;
// transport failures are reported through the outcome.
func (d *Dispatcher) Send(ctx context.Context, recipient, message string) (models.Outcome, error) {
	return d.SendTyped(ctx, TypeGeneral, recipient, message)
}

// SendTyped delivers a message and tags the log entry with kind.
func (d *Dispatcher) SendTyped(ctx context.Context, kind MessageType, recipient, message string) (models.Outcome, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return models.Outcome{}, models.NewValidationError("to", "is required")
	}
	if strings.TrimSpace(message) == "" {
		return models.Outcome{}, models.NewValidationError("message", "is required")
	}

	outcome := d.deliver(ctx, recipient, message)
	d.record(ctx, kind, recipient, message, outcome)
	return outcome, nil
}

func (d *Dispatcher) deliver(ctx context.Context, recipient, message string) models.Outcome {
	if d.transport == nil {
		return models.Outcome{To: recipient, Error: ErrNotConfigured.Error()}
	}

	provider := d.transport.Name()
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	id, err := d.transport.Send(sendCtx, recipient, message)
	if err != nil {
		perr := &models.ProviderError{Provider: provider, Err: err}
		d.logger.Warn("notification not delivered", zap.String("provider", provider), zap.String("to", recipient), zap.Error(perr))
		return models.Outcome{To: recipient, Provider: provider, Error: perr.Error()}
	}

	d.logger.Info("notification delivered", zap.String("provider", provider), zap.String("to", recipient), zap.String("message_id", id))
	return models.Outcome{To: recipient, Success: true, MessageID: id, Provider: provider}
}

func (d *Dispatcher) record(ctx context.Context, kind MessageType, recipient, message string, outcome models.Outcome) {
	if d.logs == nil {
		return
	}
	entry := models.SMSLog{
		To:        recipient,
		Message:   message,
		Type:      string(kind),
		Status:    models.SMSStatusSent,
		Provider:  outcome.Provider,
		MessageID: outcome.MessageID,
		Error:     outcome.Error,
		SentAt:    d.now().UTC(),
	}
	if !outcome.Success {
		entry.Status = models.SMSStatusFailed
	}
	if err := d.logs.SaveSMSLog(ctx, entry); err != nil {
		d.logger.Error("failed to record sms log", zap.String("to", recipient), zap.Error(err))
	}
}

// SendBulk sends the same message to each recipient in order, pausing between
// sends. It stops early when ctx is done; recipients not attempted are absent
// from the result.
func (d *Dispatcher) SendBulk(ctx context.Context, recipients []string, message string) ([]models.Outcome, error) {
	if strings.TrimSpace(message) == "" {
		return nil, models.NewValidationError("message", "is required")
	}

	outcomes := make([]models.Outcome, 0, len(recipients))
	for i, recipient := range recipients {
		if i > 0 && d.bulkDelay > 0 {
			select {
			case <-ctx.Done():
				return outcomes, ctx.Err()
			case <-time.After(d.bulkDelay):
			}
		}
		outcome, err := d.Send(ctx, recipient, message)
		if err != nil {
			outcome = models.Outcome{To: recipient, Error: err.Error()}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}
