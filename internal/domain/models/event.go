package models

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// EventKind enumerates the farm and financial occurrences tracked on a crop timeline.
type EventKind string

const (
	KindPlanting    EventKind = "planting"
	KindFertilizing EventKind = "fertilizing"
	KindWatering    EventKind = "watering"
	KindPestControl EventKind = "pest_control"
	KindHarvesting  EventKind = "harvesting"
	KindSale        EventKind = "sale"
	KindPayment     EventKind = "payment"
)

// EventKinds lists every supported kind in timeline order.
var EventKinds = []EventKind{
	KindPlanting,
	KindFertilizing,
	KindWatering,
	KindPestControl,
	KindHarvesting,
	KindSale,
	KindPayment,
}

// Valid reports whether k is one of the supported kinds.
func (k EventKind) Valid() bool {
	for _, kind := range EventKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// IsActivity reports whether k is an input-consuming field activity.
func (k EventKind) IsActivity() bool {
	switch k {
	case KindPlanting, KindFertilizing, KindWatering, KindPestControl:
		return true
	default:
		return false
	}
}

// Quantity is a magnitude with its unit, e.g. 50 "kg".
type Quantity struct {
	Amount decimal.Decimal `json:"amount"`
	Unit   string          `json:"unit,omitempty"`
}

// Activity is the payload of planting, fertilizing, watering and pest control events.
type Activity struct {
	Cost   *decimal.Decimal `json:"cost,omitempty"`
	Worker string           `json:"worker,omitempty"`
}

// Harvest is the payload of harvesting events. Cost is the labor cost of the harvest.
type Harvest struct {
	Cost     *decimal.Decimal `json:"cost,omitempty"`
	Quantity *Quantity        `json:"quantity,omitempty"`
	Worker   string           `json:"worker,omitempty"`
}

// Sale is the payload of sale events.
type Sale struct {
	Revenue      decimal.Decimal  `json:"revenue"`
	Quantity     *Quantity        `json:"quantity,omitempty"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit,omitempty"`
	Client       string           `json:"client,omitempty"`
	ClientID     string           `json:"client_id,omitempty"`
}

// Payment is the payload of payment events. A payment is pure revenue.
type Payment struct {
	Revenue     decimal.Decimal `json:"revenue"`
	Client      string          `json:"client,omitempty"`
	ClientID    string          `json:"client_id,omitempty"`
	CheckNumber string          `json:"check_number,omitempty"`
	Bank        string          `json:"bank,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// Event is one atomic entry of a crop ledger. Exactly one payload is set and it
// always matches Kind.
type Event struct {
	ID          string    `json:"id"`
	CropID      string    `json:"crop_id"`
	Kind        EventKind `json:"kind"`
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`

	Activity *Activity `json:"activity,omitempty"`
	Harvest  *Harvest  `json:"harvest,omitempty"`
	Sale     *Sale     `json:"sale,omitempty"`
	Payment  *Payment  `json:"payment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Cost returns the outflow recorded on the event, if any.
func (e Event) Cost() (decimal.Decimal, bool) {
	switch {
	case e.Activity != nil && e.Activity.Cost != nil:
		return *e.Activity.Cost, true
	case e.Harvest != nil && e.Harvest.Cost != nil:
		return *e.Harvest.Cost, true
	default:
		return decimal.Zero, false
	}
}

// Revenue returns the inflow recorded on the event, if any.
func (e Event) Revenue() (decimal.Decimal, bool) {
	switch {
	case e.Sale != nil:
		return e.Sale.Revenue, true
	case e.Payment != nil:
		return e.Payment.Revenue, true
	default:
		return decimal.Zero, false
	}
}

// Quantity returns the harvested or sold volume, if any.
func (e Event) Quantity() (Quantity, bool) {
	switch {
	case e.Harvest != nil && e.Harvest.Quantity != nil:
		return *e.Harvest.Quantity, true
	case e.Sale != nil && e.Sale.Quantity != nil:
		return *e.Sale.Quantity, true
	default:
		return Quantity{}, false
	}
}

// Worker returns the person who performed a field activity or harvest.
func (e Event) Worker() string {
	switch {
	case e.Activity != nil:
		return e.Activity.Worker
	case e.Harvest != nil:
		return e.Harvest.Worker
	default:
		return ""
	}
}

// Counterparty returns the client name and stable id of a sale or payment.
func (e Event) Counterparty() (name, id string) {
	switch {
	case e.Sale != nil:
		return e.Sale.Client, e.Sale.ClientID
	case e.Payment != nil:
		return e.Payment.Client, e.Payment.ClientID
	default:
		return "", ""
	}
}

// Validate enforces the record invariants. Aggregation assumes every stored event passed it.
func (e Event) Validate() error {
	if !e.Kind.Valid() {
		return NewValidationError("kind", fmt.Sprintf("%q is not a supported event kind", e.Kind))
	}
	if e.Date.IsZero() {
		return NewValidationError("date", "is required")
	}

	payloads := 0
	for _, set := range []bool{e.Activity != nil, e.Harvest != nil, e.Sale != nil, e.Payment != nil} {
		if set {
			payloads++
		}
	}
	if payloads != 1 {
		return NewValidationError("payload", fmt.Sprintf("expected exactly one payload, got %d", payloads))
	}

	switch {
	case e.Kind.IsActivity():
		if e.Activity == nil {
			return NewValidationError("payload", fmt.Sprintf("%s event requires activity details", e.Kind))
		}
		return nonNegative("cost", e.Activity.Cost)
	case e.Kind == KindHarvesting:
		if e.Harvest == nil {
			return NewValidationError("payload", "harvesting event requires harvest details")
		}
		if err := nonNegative("cost", e.Harvest.Cost); err != nil {
			return err
		}
		return validQuantity(e.Harvest.Quantity)
	case e.Kind == KindSale:
		if e.Sale == nil {
			return NewValidationError("payload", "sale event requires sale details")
		}
		return e.Sale.validate()
	case e.Kind == KindPayment:
		if e.Payment == nil {
			return NewValidationError("payload", "payment event requires payment details")
		}
		return nonNegative("revenue", &e.Payment.Revenue)
	}

	return nil
}

// PriceConsistent reports whether PricePerUnit equals Revenue/Quantity to the cent.
// Sales missing any of the three values are trivially consistent.
func (s Sale) PriceConsistent() bool {
	if s.PricePerUnit == nil || s.Quantity == nil || s.Quantity.Amount.IsZero() {
		return true
	}
	expected := s.Revenue.DivRound(s.Quantity.Amount, 2)
	return expected.Equal(s.PricePerUnit.Round(2))
}

func (s Sale) validate() error {
	if err := nonNegative("revenue", &s.Revenue); err != nil {
		return err
	}
	if err := validQuantity(s.Quantity); err != nil {
		return err
	}
	if err := nonNegative("price_per_unit", s.PricePerUnit); err != nil {
		return err
	}
	if !s.PriceConsistent() {
		return NewValidationError("price_per_unit", "must equal revenue divided by quantity")
	}
	return nil
}

func nonNegative(field string, value *decimal.Decimal) error {
	if value != nil && value.IsNegative() {
		return NewValidationError(field, "must not be negative")
	}
	return nil
}

func validQuantity(q *Quantity) error {
	if q == nil {
		return nil
	}
	return nonNegative("quantity", &q.Amount)
}

// EventFields is the flat, kind-agnostic input shape accepted at the API boundary.
// NewEvent maps it onto the payload matching the kind and rejects fields that
// do not belong to it.
type EventFields struct {
	Description  string
	Cost         *float64
	Revenue      *float64
	Quantity     *float64
	Unit         string
	PricePerUnit *float64
	Worker       string
	Client       string
	ClientID     string
	CheckNumber  string
	Bank         string
	Notes        string
}

// NewEvent builds a validated event of the given kind.
func NewEvent(kind EventKind, date time.Time, title string, f EventFields) (Event, error) {
	if !kind.Valid() {
		return Event{}, NewValidationError("kind", fmt.Sprintf("%q is not a supported event kind", kind))
	}
	if f.Cost != nil && f.Revenue != nil {
		return Event{}, NewValidationError("", "an event cannot carry both cost and revenue")
	}

	ev := Event{
		Kind:        kind,
		Date:        DateOnly(date),
		Title:       title,
		Description: f.Description,
	}

	cost, err := optionalAmount("cost", f.Cost)
	if err != nil {
		return Event{}, err
	}
	qty, err := optionalQuantity(f.Quantity, f.Unit)
	if err != nil {
		return Event{}, err
	}

	switch {
	case kind.IsActivity():
		if err := rejectFields(kind, f, "revenue", "quantity", "price_per_unit", "client", "payment"); err != nil {
			return Event{}, err
		}
		ev.Activity = &Activity{Cost: cost, Worker: f.Worker}
	case kind == KindHarvesting:
		if err := rejectFields(kind, f, "revenue", "price_per_unit", "client", "payment"); err != nil {
			return Event{}, err
		}
		ev.Harvest = &Harvest{Cost: cost, Quantity: qty, Worker: f.Worker}
	case kind == KindSale:
		if err := rejectFields(kind, f, "cost", "worker", "payment"); err != nil {
			return Event{}, err
		}
		revenue, err := requiredAmount("revenue", f.Revenue)
		if err != nil {
			return Event{}, err
		}
		ppu, err := optionalAmount("price_per_unit", f.PricePerUnit)
		if err != nil {
			return Event{}, err
		}
		ev.Sale = &Sale{Revenue: revenue, Quantity: qty, PricePerUnit: ppu, Client: f.Client, ClientID: f.ClientID}
	case kind == KindPayment:
		if err := rejectFields(kind, f, "cost", "worker", "quantity", "price_per_unit"); err != nil {
			return Event{}, err
		}
		revenue, err := requiredAmount("revenue", f.Revenue)
		if err != nil {
			return Event{}, err
		}
		ev.Payment = &Payment{
			Revenue:     revenue,
			Client:      f.Client,
			ClientID:    f.ClientID,
			CheckNumber: f.CheckNumber,
			Bank:        f.Bank,
			Notes:       f.Notes,
		}
	}

	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func rejectFields(kind EventKind, f EventFields, fields ...string) error {
	for _, field := range fields {
		present := false
		switch field {
		case "cost":
			present = f.Cost != nil
		case "revenue":
			present = f.Revenue != nil
		case "quantity":
			present = f.Quantity != nil || f.Unit != ""
		case "price_per_unit":
			present = f.PricePerUnit != nil
		case "worker":
			present = f.Worker != ""
		case "client":
			present = f.Client != "" || f.ClientID != ""
		case "payment":
			present = f.CheckNumber != "" || f.Bank != "" || f.Notes != ""
		}
		if present {
			return NewValidationError(field, fmt.Sprintf("is not allowed on %s events", kind))
		}
	}
	return nil
}

// ParseAmount converts a boundary float into a money amount. NaN, infinities and
// negative values are rejected.
func ParseAmount(field string, value float64) (decimal.Decimal, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero, NewValidationError(field, "must be a finite number")
	}
	if value < 0 {
		return decimal.Zero, NewValidationError(field, "must not be negative")
	}
	return decimal.NewFromFloat(value), nil
}

func requiredAmount(field string, value *float64) (decimal.Decimal, error) {
	if value == nil {
		return decimal.Zero, NewValidationError(field, "is required")
	}
	return ParseAmount(field, *value)
}

func optionalAmount(field string, value *float64) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	amount, err := ParseAmount(field, *value)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}

func optionalQuantity(value *float64, unit string) (*Quantity, error) {
	if value == nil {
		if unit != "" {
			return nil, NewValidationError("unit", "requires a quantity")
		}
		return nil, nil
	}
	amount, err := ParseAmount("quantity", *value)
	if err != nil {
		return nil, err
	}
	return &Quantity{Amount: amount, Unit: unit}, nil
}

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
