// Package repository declares the persistence collaborators of the ledger service.
// The aggregation code only ever sees what these return.
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

// EventRepository stores crop event records. Updates replace the whole record.
type EventRepository interface {
	ListEvents(ctx context.Context, cropID string) ([]models.Event, error)
	ListAllEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (models.Event, error)
	AppendEvent(ctx context.Context, ev models.Event) (string, error)
	UpdateEvent(ctx context.Context, id string, ev models.Event) error
	DeleteEvent(ctx context.Context, id string) error
	CropIDs(ctx context.Context) ([]string, error)
}

// CostItemRepository stores crop cost breakdowns and the crop's derived total.
type CostItemRepository interface {
	ListCostItems(ctx context.Context, cropID string) ([]models.CostItem, error)
	InsertCostItem(ctx context.Context, item models.CostItem) error
	UpdateCostItem(ctx context.Context, item models.CostItem) error
	DeleteCostItem(ctx context.Context, cropID, itemID string) error
	SetCropTotalCost(ctx context.Context, cropID string, total decimal.Decimal) error
}

// ClientRepository resolves stable client identities. CreateClient assigns the id.
type ClientRepository interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	GetClient(ctx context.Context, id string) (models.Client, error)
	CreateClient(ctx context.Context, client models.Client) (models.Client, error)
}

// SMSLogRepository records every notification attempt.
type SMSLogRepository interface {
	SaveSMSLog(ctx context.Context, entry models.SMSLog) error
}

// SnapshotRepository stores periodic copies of derived ledger totals.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snapshot models.LedgerSnapshot) error
}
