package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

// eventDocument is the flat shape stored in the events collection. Amounts are
// Decimal128 so they round-trip without float error.
type eventDocument struct {
	ID           string                `bson:"_id"`
	CropID       string                `bson:"crop_id"`
	Kind         string                `bson:"kind"`
	Date         time.Time             `bson:"date"`
	Title        string                `bson:"title"`
	Description  string                `bson:"description,omitempty"`
	Cost         *primitive.Decimal128 `bson:"cost,omitempty"`
	Revenue      *primitive.Decimal128 `bson:"revenue,omitempty"`
	Quantity     *primitive.Decimal128 `bson:"quantity,omitempty"`
	Unit         string                `bson:"unit,omitempty"`
	PricePerUnit *primitive.Decimal128 `bson:"price_per_unit,omitempty"`
	Worker       string                `bson:"worker,omitempty"`
	Client       string                `bson:"client,omitempty"`
	ClientID     string                `bson:"client_id,omitempty"`
	CheckNumber  string                `bson:"check_number,omitempty"`
	Bank         string                `bson:"bank,omitempty"`
	Notes        string                `bson:"notes,omitempty"`
	CreatedAt    time.Time             `bson:"created_at"`
	UpdatedAt    time.Time             `bson:"updated_at"`
}

func toEventDocument(ev models.Event) (eventDocument, error) {
	doc := eventDocument{
		ID:          ev.ID,
		CropID:      ev.CropID,
		Kind:        string(ev.Kind),
		Date:        ev.Date,
		Title:       ev.Title,
		Description: ev.Description,
		Worker:      ev.Worker(),
		CreatedAt:   ev.CreatedAt,
		UpdatedAt:   ev.UpdatedAt,
	}
	doc.Client, doc.ClientID = ev.Counterparty()

	var err error
	if cost, ok := ev.Cost(); ok {
		if doc.Cost, err = toDecimal128(cost); err != nil {
			return eventDocument{}, err
		}
	}
	if revenue, ok := ev.Revenue(); ok {
		if doc.Revenue, err = toDecimal128(revenue); err != nil {
			return eventDocument{}, err
		}
	}
	if qty, ok := ev.Quantity(); ok {
		if doc.Quantity, err = toDecimal128(qty.Amount); err != nil {
			return eventDocument{}, err
		}
		doc.Unit = qty.Unit
	}
	if ev.Sale != nil && ev.Sale.PricePerUnit != nil {
		if doc.PricePerUnit, err = toDecimal128(*ev.Sale.PricePerUnit); err != nil {
			return eventDocument{}, err
		}
	}
	if ev.Payment != nil {
		doc.CheckNumber = ev.Payment.CheckNumber
		doc.Bank = ev.Payment.Bank
		doc.Notes = ev.Payment.Notes
	}
	return doc, nil
}

func (d eventDocument) toEvent() (models.Event, error) {
	ev := models.Event{
		ID:          d.ID,
		CropID:      d.CropID,
		Kind:        models.EventKind(d.Kind),
		Date:        d.Date.UTC(),
		Title:       d.Title,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}

	cost, err := fromDecimal128(d.Cost)
	if err != nil {
		return models.Event{}, err
	}
	revenue, err := fromDecimal128(d.Revenue)
	if err != nil {
		return models.Event{}, err
	}
	qtyAmount, err := fromDecimal128(d.Quantity)
	if err != nil {
		return models.Event{}, err
	}
	ppu, err := fromDecimal128(d.PricePerUnit)
	if err != nil {
		return models.Event{}, err
	}

	var qty *models.Quantity
	if qtyAmount != nil {
		qty = &models.Quantity{Amount: *qtyAmount, Unit: d.Unit}
	}

	switch {
	case ev.Kind.IsActivity():
		ev.Activity = &models.Activity{Cost: cost, Worker: d.Worker}
	case ev.Kind == models.KindHarvesting:
		ev.Harvest = &models.Harvest{Cost: cost, Quantity: qty, Worker: d.Worker}
	case ev.Kind == models.KindSale:
		ev.Sale = &models.Sale{Revenue: valueOrZero(revenue), Quantity: qty, PricePerUnit: ppu, Client: d.Client, ClientID: d.ClientID}
	case ev.Kind == models.KindPayment:
		ev.Payment = &models.Payment{
			Revenue:     valueOrZero(revenue),
			Client:      d.Client,
			ClientID:    d.ClientID,
			CheckNumber: d.CheckNumber,
			Bank:        d.Bank,
			Notes:       d.Notes,
		}
	}

	if err := ev.Validate(); err != nil {
		return models.Event{}, fmt.Errorf("stored event %s: %w", d.ID, err)
	}
	return ev, nil
}

type costItemDocument struct {
	ID          string                `bson:"_id"`
	CropID      string                `bson:"crop_id"`
	Category    string                `bson:"category"`
	Description string                `bson:"description"`
	Cost        primitive.Decimal128  `bson:"cost"`
	Quantity    *primitive.Decimal128 `bson:"quantity,omitempty"`
	Unit        string                `bson:"unit,omitempty"`
}

func toCostItemDocument(item models.CostItem) (costItemDocument, error) {
	cost, err := toDecimal128(item.Cost)
	if err != nil {
		return costItemDocument{}, err
	}
	doc := costItemDocument{
		ID:          item.ID,
		CropID:      item.CropID,
		Category:    string(item.Category),
		Description: item.Description,
		Cost:        *cost,
	}
	if item.Quantity != nil {
		if doc.Quantity, err = toDecimal128(item.Quantity.Amount); err != nil {
			return costItemDocument{}, err
		}
		doc.Unit = item.Quantity.Unit
	}
	return doc, nil
}

func (d costItemDocument) toCostItem() (models.CostItem, error) {
	cost, err := decimal.NewFromString(d.Cost.String())
	if err != nil {
		return models.CostItem{}, fmt.Errorf("cost item %s cost: %w", d.ID, err)
	}
	item := models.CostItem{
		ID:          d.ID,
		CropID:      d.CropID,
		Category:    models.CostCategory(d.Category),
		Description: d.Description,
		Cost:        cost,
	}
	qty, err := fromDecimal128(d.Quantity)
	if err != nil {
		return models.CostItem{}, err
	}
	if qty != nil {
		item.Quantity = &models.Quantity{Amount: *qty, Unit: d.Unit}
	}
	return item, nil
}

type snapshotDocument struct {
	CropID               string               `bson:"crop_id"`
	Date                 time.Time            `bson:"date"`
	EventCount           int                  `bson:"event_count"`
	TotalCost            primitive.Decimal128 `bson:"total_cost"`
	TotalRevenue         primitive.Decimal128 `bson:"total_revenue"`
	Profit               primitive.Decimal128 `bson:"profit"`
	TotalHarvestQuantity primitive.Decimal128 `bson:"total_harvest_quantity"`
	TotalSoldQuantity    primitive.Decimal128 `bson:"total_sold_quantity"`
	PendingReceivables   primitive.Decimal128 `bson:"pending_receivables"`
	CreatedAt            time.Time            `bson:"created_at"`
}

func toSnapshotDocument(s models.LedgerSnapshot) (snapshotDocument, error) {
	doc := snapshotDocument{
		CropID:     s.CropID,
		Date:       s.Date,
		EventCount: s.EventCount,
		CreatedAt:  s.CreatedAt,
	}
	fields := []struct {
		dst *primitive.Decimal128
		src decimal.Decimal
	}{
		{&doc.TotalCost, s.TotalCost},
		{&doc.TotalRevenue, s.TotalRevenue},
		{&doc.Profit, s.Profit},
		{&doc.TotalHarvestQuantity, s.TotalHarvestQuantity},
		{&doc.TotalSoldQuantity, s.TotalSoldQuantity},
		{&doc.PendingReceivables, s.PendingReceivables},
	}
	for _, f := range fields {
		v, err := toDecimal128(f.src)
		if err != nil {
			return snapshotDocument{}, err
		}
		*f.dst = *v
	}
	return doc, nil
}

func toDecimal128(d decimal.Decimal) (*primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return nil, fmt.Errorf("encode decimal %s: %w", d.String(), err)
	}
	return &v, nil
}

func fromDecimal128(v *primitive.Decimal128) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return nil, fmt.Errorf("decode decimal %s: %w", v.String(), err)
	}
	return &d, nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// clientDocument reads customers keyed either by ObjectId or by a string id.
type clientDocument struct {
	ID        interface{} `bson:"_id"`
	Name      string      `bson:"name"`
	Phone     string      `bson:"phone,omitempty"`
	Status    string      `bson:"status,omitempty"`
	CreatedAt time.Time   `bson:"createdAt,omitempty"`
	UpdatedAt time.Time   `bson:"updatedAt,omitempty"`
}

func (d clientDocument) toClient() (models.Client, error) {
	var id string
	switch v := d.ID.(type) {
	case primitive.ObjectID:
		id = v.Hex()
	case string:
		id = v
	default:
		return models.Client{}, fmt.Errorf("decode client: unsupported _id type %T", d.ID)
	}
	return models.Client{ID: id, Name: d.Name, Phone: d.Phone}, nil
}

// idFilter matches documents created with an ObjectId as well as documents
// written with a plain string id.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}
