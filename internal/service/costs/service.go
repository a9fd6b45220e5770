// Package costs persists crop cost breakdowns built with the ledger cost item builder.
package costs

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/ledger"
	"github.com/mamadbah2/farmflow/internal/repository"
)

// Breakdown is a crop's cost items with their derived totals.
type Breakdown struct {
	CropID     string                                  `json:"crop_id"`
	Items      []models.CostItem                       `json:"items"`
	Total      decimal.Decimal                         `json:"total"`
	ByCategory map[models.CostCategory]decimal.Decimal `json:"by_category"`
}

// Service applies one builder mutation per call and writes the crop's new
// TotalCost whenever the builder reports a change.
type Service struct {
	repo   repository.CostItemRepository
	logger *zap.Logger
	opts   []ledger.BuilderOption
}

// NewService wires a cost service. Builder options are applied to every
// builder it creates.
func NewService(repo repository.CostItemRepository, logger *zap.Logger, opts ...ledger.BuilderOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, opts: opts}
}

// List returns the crop's current breakdown.
func (s *Service) List(ctx context.Context, cropID string) (Breakdown, error) {
	b, err := s.load(ctx, cropID)
	if err != nil {
		return Breakdown{}, err
	}
	return breakdown(cropID, b), nil
}

// AddItem validates and stores a new cost item.
func (s *Service) AddItem(ctx context.Context, cropID string, in ledger.NewCostItem) (models.CostItem, error) {
	b, err := s.load(ctx, cropID)
	if err != nil {
		return models.CostItem{}, err
	}
	changed := watch(b)

	item, err := b.AddItem(in)
	if err != nil {
		return models.CostItem{}, err
	}
	if err := s.repo.InsertCostItem(ctx, item); err != nil {
		return models.CostItem{}, fmt.Errorf("failed to insert cost item: %w", err)
	}
	if err := s.syncTotal(ctx, cropID, changed); err != nil {
		s.rollback(ctx, "add", item.ID, func(ctx context.Context) error {
			return s.repo.DeleteCostItem(ctx, cropID, item.ID)
		})
		return models.CostItem{}, err
	}

	s.logger.Info("cost item added", zap.String("crop_id", cropID), zap.String("item_id", item.ID), zap.String("category", string(item.Category)))
	return item, nil
}

// UpdateCost replaces the cost of an existing item.
func (s *Service) UpdateCost(ctx context.Context, cropID, itemID string, cost float64) (models.CostItem, error) {
	b, err := s.load(ctx, cropID)
	if err != nil {
		return models.CostItem{}, err
	}
	changed := watch(b)
	before, _ := b.Item(itemID)

	if err := b.UpdateCost(itemID, cost); err != nil {
		return models.CostItem{}, err
	}
	item, _ := b.Item(itemID)
	if err := s.repo.UpdateCostItem(ctx, item); err != nil {
		return models.CostItem{}, fmt.Errorf("failed to update cost item: %w", err)
	}
	if err := s.syncTotal(ctx, cropID, changed); err != nil {
		s.rollback(ctx, "update", itemID, func(ctx context.Context) error {
			return s.repo.UpdateCostItem(ctx, before)
		})
		return models.CostItem{}, err
	}

	s.logger.Info("cost item updated", zap.String("crop_id", cropID), zap.String("item_id", itemID))
	return item, nil
}

// RemoveItem deletes an item from the crop's breakdown.
func (s *Service) RemoveItem(ctx context.Context, cropID, itemID string) error {
	b, err := s.load(ctx, cropID)
	if err != nil {
		return err
	}
	changed := watch(b)
	before, _ := b.Item(itemID)

	if err := b.RemoveItem(itemID); err != nil {
		return err
	}
	if err := s.repo.DeleteCostItem(ctx, cropID, itemID); err != nil {
		return fmt.Errorf("failed to delete cost item: %w", err)
	}
	if err := s.syncTotal(ctx, cropID, changed); err != nil {
		s.rollback(ctx, "remove", itemID, func(ctx context.Context) error {
			return s.repo.InsertCostItem(ctx, before)
		})
		return err
	}

	s.logger.Info("cost item removed", zap.String("crop_id", cropID), zap.String("item_id", itemID))
	return nil
}

func (s *Service) load(ctx context.Context, cropID string) (*ledger.CostItemBuilder, error) {
	if strings.TrimSpace(cropID) == "" {
		return nil, models.NewValidationError("crop_id", "is required")
	}
	items, err := s.repo.ListCostItems(ctx, cropID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cost items: %w", err)
	}
	opts := append([]ledger.BuilderOption{ledger.WithCropID(cropID), ledger.WithItems(items...)}, s.opts...)
	return ledger.NewCostItemBuilder(opts...), nil
}

// watch captures the last total announced by the builder.
func watch(b *ledger.CostItemBuilder) *decimal.NullDecimal {
	last := &decimal.NullDecimal{}
	b.OnCostChanged(func(total decimal.Decimal) {
		last.Decimal = total
		last.Valid = true
	})
	return last
}

func (s *Service) syncTotal(ctx context.Context, cropID string, changed *decimal.NullDecimal) error {
	if !changed.Valid {
		return nil
	}
	if err := s.repo.SetCropTotalCost(ctx, cropID, changed.Decimal); err != nil {
		return fmt.Errorf("failed to update crop total cost: %w", err)
	}
	return nil
}

// rollback undoes the item write of a mutation whose crop total could not be written.
func (s *Service) rollback(ctx context.Context, op, itemID string, undo func(context.Context) error) {
	if err := undo(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("failed to roll back cost item write",
			zap.String("op", op),
			zap.String("item_id", itemID),
			zap.Error(err))
		return
	}
	s.logger.Warn("cost item write rolled back", zap.String("op", op), zap.String("item_id", itemID))
}

func breakdown(cropID string, b *ledger.CostItemBuilder) Breakdown {
	return Breakdown{
		CropID:     cropID,
		Items:      b.Items(),
		Total:      b.Total(),
		ByCategory: b.ByCategory(),
	}
}
