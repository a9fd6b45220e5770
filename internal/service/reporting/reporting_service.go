package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/ledger"
	"github.com/mamadbah2/farmflow/internal/repository"
	repo "github.com/mamadbah2/farmflow/internal/repository/sheets"
)

const (
	dateLayout = "2006-01-02"
	currency   = "KSH"
)

// Service builds ledger reports and point-in-time snapshots.
type Service struct {
	events     repository.EventRepository
	snapshots  repository.SnapshotRepository
	sheets     repo.Repository
	sheetRange string
	logger     *zap.Logger
	now        func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithSheetsExport appends every snapshot as a row of sheetRange.
func WithSheetsExport(sheets repo.Repository, sheetRange string) Option {
	return func(s *Service) {
		s.sheets = sheets
		s.sheetRange = sheetRange
	}
}

// NewService wires a new reporting service instance.
func NewService(events repository.EventRepository, snapshots repository.SnapshotRepository, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{events: events, snapshots: snapshots, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CropReport renders a crop's totals as a short text summary.
func (s *Service) CropReport(ctx context.Context, cropID string) (string, error) {
	events, err := s.events.ListEvents(ctx, cropID)
	if err != nil {
		return "", fmt.Errorf("load events: %w", err)
	}
	if len(events) == 0 {
		return fmt.Sprintf("Crop %s: no events recorded yet.", cropID), nil
	}

	totals := ledger.Aggregate(events)
	pending := ledger.NewReconciliation(events).PendingReceivables()
	start, end := events[0].Date, events[len(events)-1].Date

	var b strings.Builder
	fmt.Fprintf(&b, "Crop %s (%s-%s): %d events.", cropID, start.Format(dateLayout), end.Format(dateLayout), len(events))
	fmt.Fprintf(&b, " Cost %s, revenue %s, ", money(totals.TotalCost), money(totals.TotalRevenue))
	if totals.IsLoss() {
		fmt.Fprintf(&b, "loss %s.", money(totals.Profit.Neg()))
	} else {
		fmt.Fprintf(&b, "profit %s.", money(totals.Profit))
	}
	fmt.Fprintf(&b, " Harvested %s, sold %s.", totals.TotalHarvestQuantity.String(), totals.TotalSoldQuantity.String())
	fmt.Fprintf(&b, " Pending receivables %s.", money(pending))
	return b.String(), nil
}

// Snapshot computes a crop's snapshot without storing it.
func (s *Service) Snapshot(ctx context.Context, cropID string, at time.Time) (models.LedgerSnapshot, error) {
	events, err := s.events.ListEvents(ctx, cropID)
	if err != nil {
		return models.LedgerSnapshot{}, fmt.Errorf("load events for %s: %w", cropID, err)
	}

	totals := ledger.Aggregate(events)
	return models.LedgerSnapshot{
		CropID:               cropID,
		Date:                 models.DateOnly(at),
		EventCount:           len(events),
		TotalCost:            totals.TotalCost,
		TotalRevenue:         totals.TotalRevenue,
		Profit:               totals.Profit,
		TotalHarvestQuantity: totals.TotalHarvestQuantity,
		TotalSoldQuantity:    totals.TotalSoldQuantity,
		PendingReceivables:   ledger.NewReconciliation(events).PendingReceivables(),
		CreatedAt:            s.now().UTC(),
	}, nil
}

// SnapshotAll stores a snapshot for every crop with events and, when configured,
// appends the ones not yet exported to the spreadsheet.
func (s *Service) SnapshotAll(ctx context.Context) ([]models.LedgerSnapshot, error) {
	cropIDs, err := s.events.CropIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}

	at := s.now()
	out := make([]models.LedgerSnapshot, 0, len(cropIDs))
	for _, cropID := range cropIDs {
		snap, err := s.Snapshot(ctx, cropID, at)
		if err != nil {
			return out, err
		}
		if err := s.snapshots.SaveSnapshot(ctx, snap); err != nil {
			return out, fmt.Errorf("save snapshot for %s: %w", cropID, err)
		}
		out = append(out, snap)
	}

	s.logger.Info("ledger snapshots stored", zap.Int("crops", len(out)))

	if s.sheets != nil {
		if err := s.export(ctx, out); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (s *Service) export(ctx context.Context, snaps []models.LedgerSnapshot) error {
	existing, err := s.sheets.ReadRange(ctx, s.sheetRange)
	if err != nil {
		return fmt.Errorf("read exported snapshots: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for _, row := range existing {
		if len(row) < 2 {
			continue
		}
		dateValue, err := parseDate(row[0])
		if err != nil {
			s.logger.Debug("skip sheet row with invalid date", zap.Any("value", row[0]), zap.Error(err))
			continue
		}
		seen[exportKey(dateValue, fmt.Sprint(row[1]))] = true
	}

	rows := make([][]interface{}, 0, len(snaps))
	for _, snap := range snaps {
		if seen[exportKey(snap.Date, snap.CropID)] {
			continue
		}
		rows = append(rows, snapshotRow(snap))
	}

	if err := s.sheets.AppendRows(ctx, s.sheetRange, rows); err != nil {
		return fmt.Errorf("export snapshots: %w", err)
	}
	s.logger.Info("ledger snapshots exported", zap.Int("rows", len(rows)), zap.Int("skipped", len(snaps)-len(rows)))
	return nil
}

func snapshotRow(snap models.LedgerSnapshot) []interface{} {
	return []interface{}{
		snap.Date.Format(dateLayout),
		snap.CropID,
		snap.EventCount,
		snap.TotalCost.StringFixed(2),
		snap.TotalRevenue.StringFixed(2),
		snap.Profit.StringFixed(2),
		snap.TotalHarvestQuantity.String(),
		snap.TotalSoldQuantity.String(),
		snap.PendingReceivables.StringFixed(2),
	}
}

func exportKey(date time.Time, cropID string) string {
	return date.Format(dateLayout) + "|" + cropID
}

func money(v decimal.Decimal) string {
	return fmt.Sprintf("%s %s", currency, v.StringFixed(2))
}

func parseDate(value interface{}) (time.Time, error) {
	str := fmt.Sprint(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(str) > 10 {
		str = str[:10]
	}
	return time.Parse(dateLayout, str)
}
