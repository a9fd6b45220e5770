package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/ledger"
)

func TestReconciliation_PaymentSettlesPool(t *testing.T) {
	events := cropSeason(t)
	assert.Equal(t, "4500", ledger.NewReconciliation(events).PendingReceivables().String())

	events = append(events, event(t, models.KindPayment, 75, models.EventFields{
		Revenue:     amount(4500),
		Client:      "Green Valley",
		ClientID:    "green-valley",
		CheckNumber: "CHK-2024-001234",
		Bank:        "Equity Bank",
	}))

	rec := ledger.NewReconciliation(events)
	assert.True(t, rec.PendingReceivables().IsZero())
	assert.True(t, rec.PerClientOutstanding("green-valley").IsZero())
	assert.Empty(t, rec.Outstanding())
}

func TestReconciliation_UnrelatedPaymentNetsPoolButNotClient(t *testing.T) {
	// GIVEN: a sale to A and an unrelated payment of the same size from B
	events := []models.Event{
		event(t, models.KindSale, 1, models.EventFields{Revenue: amount(1000), Client: "Alpha Grocers", ClientID: "A"}),
		event(t, models.KindPayment, 2, models.EventFields{Revenue: amount(1000), Client: "Beta Hotel", ClientID: "B"}),
	}

	rec := ledger.NewReconciliation(events)

	// THEN: the pool is settled while A still owes and B is in credit
	assert.True(t, rec.PendingReceivables().IsZero())
	assert.Equal(t, "1000", rec.PerClientOutstanding("A").String())
	assert.Equal(t, "-1000", rec.PerClientOutstanding("B").String())

	owing := rec.Outstanding()
	require.Len(t, owing, 1)
	assert.Equal(t, "A", owing[0].ClientID)
	assert.Equal(t, "Alpha Grocers", owing[0].Client)
}

func TestReconciliation_PoolIsNotClamped(t *testing.T) {
	events := []models.Event{
		event(t, models.KindSale, 1, models.EventFields{Revenue: amount(300)}),
		event(t, models.KindPayment, 2, models.EventFields{Revenue: amount(500)}),
	}

	assert.Equal(t, "-200", ledger.NewReconciliation(events).PendingReceivables().String())
}

func TestReconciliation_NamesAreNotJoinKeys(t *testing.T) {
	events := []models.Event{
		event(t, models.KindSale, 1, models.EventFields{Revenue: amount(800), Client: "Green Valley"}),
		event(t, models.KindPayment, 2, models.EventFields{Revenue: amount(300), Client: "green valley "}),
	}

	rec := ledger.NewReconciliation(events)

	assert.Equal(t, "500", rec.PendingReceivables().String())
	assert.Empty(t, rec.Clients())
	assert.True(t, rec.PerClientOutstanding("Green Valley").IsZero())

	loose := rec.Unattributed()
	assert.Equal(t, "800", loose.Sold.String())
	assert.Equal(t, "300", loose.Paid.String())
	assert.Equal(t, "500", loose.Outstanding.String())
}

func TestReconciliation_OutstandingOrderedByBalance(t *testing.T) {
	events := []models.Event{
		event(t, models.KindSale, 1, models.EventFields{Revenue: amount(200), ClientID: "small"}),
		event(t, models.KindSale, 2, models.EventFields{Revenue: amount(900), ClientID: "big"}),
		event(t, models.KindSale, 3, models.EventFields{Revenue: amount(400), ClientID: "mid"}),
		event(t, models.KindPayment, 4, models.EventFields{Revenue: amount(100), ClientID: "big"}),
		event(t, models.KindHarvesting, 0, models.EventFields{Cost: amount(50)}),
	}

	owing := ledger.NewReconciliation(events).Outstanding()

	require.Len(t, owing, 3)
	assert.Equal(t, []string{"big", "mid", "small"}, []string{owing[0].ClientID, owing[1].ClientID, owing[2].ClientID})
	assert.Equal(t, "800", owing[0].Outstanding.String())
}

func TestReconciliation_Empty(t *testing.T) {
	rec := ledger.NewReconciliation(nil)

	assert.True(t, rec.PendingReceivables().IsZero())
	assert.True(t, rec.PerClientOutstanding("anyone").IsZero())
	assert.Empty(t, rec.Outstanding())
}
