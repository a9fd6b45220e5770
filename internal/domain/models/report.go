package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSnapshot is a point-in-time copy of a crop's derived totals, stored by the
// snapshot job. Live figures are always recomputed from events.
type LedgerSnapshot struct {
	CropID               string          `json:"crop_id"`
	Date                 time.Time       `json:"date"`
	EventCount           int             `json:"event_count"`
	TotalCost            decimal.Decimal `json:"total_cost"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	Profit               decimal.Decimal `json:"profit"`
	TotalHarvestQuantity decimal.Decimal `json:"total_harvest_quantity"`
	TotalSoldQuantity    decimal.Decimal `json:"total_sold_quantity"`
	PendingReceivables   decimal.Decimal `json:"pending_receivables"`
	CreatedAt            time.Time       `json:"created_at"`
}
