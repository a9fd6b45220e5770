// Package checks turns uploaded check images into payment events.
package checks

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	ledgersvc "github.com/mamadbah2/farmflow/internal/service/ledger"
)

// MaxImageBytes caps uploaded check images at 5MB.
const MaxImageBytes = 5 * 1024 * 1024

// Recorder validates and appends events to a crop ledger, resolving client ids.
type Recorder interface {
	RecordEvent(ctx context.Context, cropID string, in ledgersvc.EventInput) (models.Event, error)
}

// Service extracts check data and records it on a crop ledger.
type Service struct {
	extractor Extractor
	ledger    Recorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a check ingestion service. A nil extractor disables ingestion.
func NewService(extractor Extractor, ledger Recorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{extractor: extractor, ledger: ledger, logger: logger, now: time.Now}
}

// Enabled reports whether an extractor is configured.
func (s *Service) Enabled() bool {
	return s.extractor != nil
}

// Extract reads a check image without touching the ledger.
func (s *Service) Extract(ctx context.Context, image []byte) (models.CheckData, error) {
	if s.extractor == nil {
		return models.CheckData{}, wrapExtractionError("Extract", ErrExtractionFailed, "check extraction is not configured")
	}
	if err := validateImage(image); err != nil {
		return models.CheckData{}, err
	}

	text, err := s.extractor.ExtractText(ctx, image)
	if err != nil {
		return models.CheckData{}, wrapExtractionError("Extract", err, "")
	}
	data, err := ParseCheckText(text)
	if err != nil {
		return models.CheckData{}, err
	}
	if data.Date.IsZero() {
		data.Date = models.DateOnly(s.now())
		s.logger.Debug("check date unreadable, using upload date", zap.Time("date", data.Date))
	}
	return data, nil
}

// Ingest extracts a check and appends it to the crop as a payment event.
// clientID links the payment to a known client and may be empty.
func (s *Service) Ingest(ctx context.Context, cropID string, image []byte, clientID string) (models.Event, models.CheckData, error) {
	if strings.TrimSpace(cropID) == "" {
		return models.Event{}, models.CheckData{}, models.NewValidationError("crop_id", "is required")
	}

	data, err := s.Extract(ctx, image)
	if err != nil {
		return models.Event{}, models.CheckData{}, err
	}

	title, fields := data.PaymentFields(clientID)
	ev, err := s.ledger.RecordEvent(ctx, cropID, ledgersvc.EventInput{
		Kind:   models.KindPayment,
		Date:   data.Date,
		Title:  title,
		Fields: fields,
	})
	if err != nil {
		return models.Event{}, data, err
	}

	s.logger.Info("check payment recorded",
		zap.String("crop_id", cropID),
		zap.String("event_id", ev.ID),
		zap.String("check_number", data.CheckNumber),
		zap.Float64("amount", data.Amount))
	return ev, data, nil
}

func validateImage(image []byte) error {
	if len(image) == 0 {
		return models.NewValidationError("image", "is required")
	}
	if len(image) > MaxImageBytes {
		return models.NewValidationError("image", "must be smaller than 5MB")
	}
	if !strings.HasPrefix(http.DetectContentType(image), "image/") {
		return models.NewValidationError("image", "must be an image file")
	}
	return nil
}
