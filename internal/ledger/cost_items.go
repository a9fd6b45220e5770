package ledger

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

// NewCostItem is the input accepted by CostItemBuilder.AddItem.
type NewCostItem struct {
	Category    string
	Description string
	Cost        float64
	Quantity    *float64
	Unit        string
}

// CostItemBuilder maintains the direct-cost line items of one crop. The total is
// summed from the current items on every call. Listeners registered with
// OnCostChanged are invoked synchronously after each successful mutation; a
// rejected mutation changes nothing and notifies nobody.
//
// A builder is not safe for concurrent use.
type CostItemBuilder struct {
	cropID    string
	items     []models.CostItem
	newID     func() string
	listeners []func(total decimal.Decimal)
}

// BuilderOption customizes a CostItemBuilder.
type BuilderOption func(*CostItemBuilder)

// WithCropID stamps added items with the owning crop.
func WithCropID(cropID string) BuilderOption {
	return func(b *CostItemBuilder) { b.cropID = cropID }
}

// WithItems seeds the builder with previously persisted items.
func WithItems(items ...models.CostItem) BuilderOption {
	return func(b *CostItemBuilder) {
		b.items = append(b.items, items...)
	}
}

// WithIDGenerator replaces the default uuid generator.
func WithIDGenerator(fn func() string) BuilderOption {
	return func(b *CostItemBuilder) {
		if fn != nil {
			b.newID = fn
		}
	}
}

// NewCostItemBuilder creates an empty builder unless WithItems is supplied.
func NewCostItemBuilder(opts ...BuilderOption) *CostItemBuilder {
	b := &CostItemBuilder{newID: uuid.NewString}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OnCostChanged registers fn to receive the new total after each mutation.
func (b *CostItemBuilder) OnCostChanged(fn func(total decimal.Decimal)) {
	if fn != nil {
		b.listeners = append(b.listeners, fn)
	}
}

// AddItem validates and appends a line item, returning it with its assigned id.
func (b *CostItemBuilder) AddItem(in NewCostItem) (models.CostItem, error) {
	category, err := models.ParseCostCategory(strings.TrimSpace(in.Category))
	if err != nil {
		return models.CostItem{}, err
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return models.CostItem{}, models.NewValidationError("description", "is required")
	}
	cost, err := models.ParseAmount("cost", in.Cost)
	if err != nil {
		return models.CostItem{}, err
	}

	item := models.CostItem{
		ID:          b.newID(),
		CropID:      b.cropID,
		Category:    category,
		Description: description,
		Cost:        cost,
	}
	if in.Quantity != nil {
		qty, err := models.ParseAmount("quantity", *in.Quantity)
		if err != nil {
			return models.CostItem{}, err
		}
		item.Quantity = &models.Quantity{Amount: qty, Unit: strings.TrimSpace(in.Unit)}
	}

	b.items = append(b.items, item)
	b.notify()
	return item, nil
}

// UpdateCost replaces the cost of an existing item.
func (b *CostItemBuilder) UpdateCost(itemID string, newCost float64) error {
	idx := b.indexOf(itemID)
	if idx < 0 {
		return models.NewNotFoundError("cost item", itemID)
	}
	cost, err := models.ParseAmount("cost", newCost)
	if err != nil {
		return err
	}

	b.items[idx].Cost = cost
	b.notify()
	return nil
}

// RemoveItem deletes an item so that it no longer counts toward the total.
func (b *CostItemBuilder) RemoveItem(itemID string) error {
	idx := b.indexOf(itemID)
	if idx < 0 {
		return models.NewNotFoundError("cost item", itemID)
	}

	b.items = append(b.items[:idx], b.items[idx+1:]...)
	b.notify()
	return nil
}

// Total is the sum of the current items' costs.
func (b *CostItemBuilder) Total() decimal.Decimal {
	return SumCostItems(b.items)
}

// Items returns a copy of the current line items in insertion order.
func (b *CostItemBuilder) Items() []models.CostItem {
	out := make([]models.CostItem, len(b.items))
	copy(out, b.items)
	return out
}

// Item looks up a single line item.
func (b *CostItemBuilder) Item(itemID string) (models.CostItem, bool) {
	if idx := b.indexOf(itemID); idx >= 0 {
		return b.items[idx], true
	}
	return models.CostItem{}, false
}

// ByCategory sums the current items per category.
func (b *CostItemBuilder) ByCategory() map[models.CostCategory]decimal.Decimal {
	out := make(map[models.CostCategory]decimal.Decimal)
	for _, item := range b.items {
		out[item.Category] = out[item.Category].Add(item.Cost)
	}
	return out
}

func (b *CostItemBuilder) indexOf(itemID string) int {
	for i, item := range b.items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

func (b *CostItemBuilder) notify() {
	total := b.Total()
	for _, fn := range b.listeners {
		fn(total)
	}
}

// SumCostItems adds up the cost of every item.
func SumCostItems(items []models.CostItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Cost)
	}
	return total
}
