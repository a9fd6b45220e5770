package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/repository/memory"
	"github.com/mamadbah2/farmflow/internal/service/ledger"
)

func amount(v float64) *float64 { return &v }

func day(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

func newService(t *testing.T) (*ledger.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.PutClient(models.Client{ID: "green-valley", Name: "Green Valley Market", Phone: "+254700000001"})
	return ledger.NewService(store, store, nil), store
}

func record(t *testing.T, svc *ledger.Service, kind models.EventKind, d int, f models.EventFields) models.Event {
	t.Helper()
	ev, err := svc.RecordEvent(context.Background(), "tomatoes", ledger.EventInput{Kind: kind, Date: day(d), Title: string(kind), Fields: f})
	require.NoError(t, err)
	return ev
}

func TestService_SummaryOfCropSeason(t *testing.T) {
	svc, _ := newService(t)
	record(t, svc, models.KindPlanting, 1, models.EventFields{Cost: amount(150)})
	record(t, svc, models.KindFertilizing, 5, models.EventFields{Cost: amount(75)})
	record(t, svc, models.KindHarvesting, 20, models.EventFields{Quantity: amount(200), Unit: "kg"})
	record(t, svc, models.KindSale, 21, models.EventFields{Revenue: amount(500), Quantity: amount(100), Unit: "kg", PricePerUnit: amount(5), ClientID: "green-valley"})
	record(t, svc, models.KindPayment, 28, models.EventFields{Revenue: amount(300), ClientID: "green-valley"})

	summary, err := svc.Summary(context.Background(), "tomatoes")
	require.NoError(t, err)

	assert.Equal(t, 5, summary.EventCount)
	assert.True(t, summary.Totals.TotalCost.Equal(decimal.NewFromInt(225)))
	assert.True(t, summary.Totals.TotalRevenue.Equal(decimal.NewFromInt(800)))
	assert.True(t, summary.Totals.Profit.Equal(decimal.NewFromInt(575)))
	assert.True(t, summary.Totals.TotalHarvestQuantity.Equal(decimal.NewFromInt(200)))
	assert.True(t, summary.Totals.TotalSoldQuantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.PendingReceivables.Equal(decimal.NewFromInt(200)))
	assert.False(t, summary.IsLoss)

	require.Len(t, summary.Outstanding, 1)
	assert.Equal(t, "green-valley", summary.Outstanding[0].ClientID)
	assert.Equal(t, "Green Valley Market", summary.Outstanding[0].Client)
}

func TestService_EmptyCropSummary(t *testing.T) {
	svc, _ := newService(t)

	summary, err := svc.Summary(context.Background(), "beans")
	require.NoError(t, err)
	assert.Zero(t, summary.EventCount)
	assert.True(t, summary.Totals.Profit.IsZero())
	assert.True(t, summary.PendingReceivables.IsZero())
	assert.Empty(t, summary.Outstanding)
}

func TestService_RejectedEventsTouchNothing(t *testing.T) {
	tests := []struct {
		name  string
		in    ledger.EventInput
		field string
	}{
		{"missing title", ledger.EventInput{Kind: models.KindPlanting, Date: day(1)}, "title"},
		{"missing date", ledger.EventInput{Kind: models.KindPlanting, Title: "x"}, "date"},
		{"unknown kind", ledger.EventInput{Kind: "pruning", Date: day(1), Title: "x"}, "kind"},
		{"negative cost", ledger.EventInput{Kind: models.KindWatering, Date: day(1), Title: "x", Fields: models.EventFields{Cost: amount(-1)}}, "cost"},
		{"revenue on activity", ledger.EventInput{Kind: models.KindWatering, Date: day(1), Title: "x", Fields: models.EventFields{Revenue: amount(1)}}, "revenue"},
		{"unknown client", ledger.EventInput{Kind: models.KindSale, Date: day(1), Title: "x", Fields: models.EventFields{Revenue: amount(1), ClientID: "nobody"}}, "client_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)

			_, err := svc.RecordEvent(context.Background(), "tomatoes", tt.in)
			require.Error(t, err)

			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			events, err := store.ListAllEvents(context.Background())
			require.NoError(t, err)
			assert.Empty(t, events)
		})
	}
}

func TestService_ReplaceAndDelete(t *testing.T) {
	svc, store := newService(t)
	ev := record(t, svc, models.KindPlanting, 1, models.EventFields{Cost: amount(150)})

	replaced, err := svc.ReplaceEvent(context.Background(), "tomatoes", ev.ID, ledger.EventInput{
		Kind: models.KindPlanting, Date: day(2), Title: "Planting", Fields: models.EventFields{Cost: amount(180)},
	})
	require.NoError(t, err)
	assert.Equal(t, ev.ID, replaced.ID)
	assert.Equal(t, ev.CreatedAt, replaced.CreatedAt)

	stored, err := store.GetEvent(context.Background(), ev.ID)
	require.NoError(t, err)
	cost, ok := stored.Cost()
	require.True(t, ok)
	assert.True(t, cost.Equal(decimal.NewFromInt(180)))

	_, err = svc.ReplaceEvent(context.Background(), "tomatoes", ev.ID, ledger.EventInput{
		Kind: models.KindPlanting, Date: day(2), Title: "Planting", Fields: models.EventFields{Cost: amount(-5)},
	})
	require.True(t, models.IsValidation(err))
	stored, err = store.GetEvent(context.Background(), ev.ID)
	require.NoError(t, err)
	cost, _ = stored.Cost()
	assert.True(t, cost.Equal(decimal.NewFromInt(180)))

	err = svc.DeleteEvent(context.Background(), "maize", ev.ID)
	assert.True(t, models.IsNotFound(err))

	require.NoError(t, svc.DeleteEvent(context.Background(), "tomatoes", ev.ID))
	assert.True(t, models.IsNotFound(svc.DeleteEvent(context.Background(), "tomatoes", ev.ID)))
}

func TestService_Reconcile(t *testing.T) {
	svc, _ := newService(t)
	record(t, svc, models.KindSale, 1, models.EventFields{Revenue: amount(100), ClientID: "green-valley"})
	record(t, svc, models.KindPayment, 2, models.EventFields{Revenue: amount(100), Client: "Walk-in"})

	view, err := svc.Reconcile(context.Background(), "tomatoes")
	require.NoError(t, err)

	assert.True(t, view.PendingReceivables.IsZero())
	require.Len(t, view.Clients, 1)
	assert.True(t, view.Clients[0].Outstanding.Equal(decimal.NewFromInt(100)))
	assert.True(t, view.Unattributed.Paid.Equal(decimal.NewFromInt(100)))
}
