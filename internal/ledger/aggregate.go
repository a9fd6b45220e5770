// Package ledger derives financial facts from a crop's event records.
//
// Everything here is a pure recomputation over whatever collection the caller
// passes in. Nothing is cached between calls, so totals can never drift from the
// events they describe.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

// Totals are the aggregates derived from a set of events.
type Totals struct {
	TotalCost            decimal.Decimal `json:"total_cost"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	Profit               decimal.Decimal `json:"profit"`
	TotalHarvestQuantity decimal.Decimal `json:"total_harvest_quantity"`
	TotalSoldQuantity    decimal.Decimal `json:"total_sold_quantity"`
}

// Aggregate folds events into Totals. Absent cost, revenue or quantity fields
// contribute zero. The result does not depend on the order of events.
func Aggregate(events []models.Event) Totals {
	var t Totals
	for _, ev := range events {
		if cost, ok := ev.Cost(); ok {
			t.TotalCost = t.TotalCost.Add(cost)
		}
		if revenue, ok := ev.Revenue(); ok {
			t.TotalRevenue = t.TotalRevenue.Add(revenue)
		}
		qty, ok := ev.Quantity()
		if !ok {
			continue
		}
		switch ev.Kind {
		case models.KindHarvesting:
			t.TotalHarvestQuantity = t.TotalHarvestQuantity.Add(qty.Amount)
		case models.KindSale:
			t.TotalSoldQuantity = t.TotalSoldQuantity.Add(qty.Amount)
		}
	}
	t.Profit = t.TotalRevenue.Sub(t.TotalCost)
	return t
}

// Add combines two sets of totals. Aggregating disjoint collections and adding the
// results equals aggregating their union.
func (t Totals) Add(other Totals) Totals {
	sum := Totals{
		TotalCost:            t.TotalCost.Add(other.TotalCost),
		TotalRevenue:         t.TotalRevenue.Add(other.TotalRevenue),
		TotalHarvestQuantity: t.TotalHarvestQuantity.Add(other.TotalHarvestQuantity),
		TotalSoldQuantity:    t.TotalSoldQuantity.Add(other.TotalSoldQuantity),
	}
	sum.Profit = sum.TotalRevenue.Sub(sum.TotalCost)
	return sum
}

// IsLoss reports whether costs exceed revenue.
func (t Totals) IsLoss() bool {
	return t.Profit.IsNegative()
}

// Equal compares every aggregate by value.
func (t Totals) Equal(other Totals) bool {
	return t.TotalCost.Equal(other.TotalCost) &&
		t.TotalRevenue.Equal(other.TotalRevenue) &&
		t.Profit.Equal(other.Profit) &&
		t.TotalHarvestQuantity.Equal(other.TotalHarvestQuantity) &&
		t.TotalSoldQuantity.Equal(other.TotalSoldQuantity)
}
