package models

import "github.com/shopspring/decimal"

// Client is a customer with a stable identifier. Sales and payments that carry the
// ClientID take part in per-client reconciliation.
type Client struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Crop holds the crop fields maintained by the ledger service.
type Crop struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	TotalCost decimal.Decimal `json:"total_cost"`
}
