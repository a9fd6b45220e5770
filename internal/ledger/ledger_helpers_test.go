package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

var seasonStart = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

func amount(v float64) *float64 { return &v }

func event(t *testing.T, kind models.EventKind, day int, f models.EventFields) models.Event {
	t.Helper()
	ev, err := models.NewEvent(kind, seasonStart.AddDate(0, 0, day), string(kind), f)
	require.NoError(t, err)
	return ev
}

// cropSeason is the planting-to-sale sequence of a tomato crop.
func cropSeason(t *testing.T) []models.Event {
	t.Helper()
	return []models.Event{
		event(t, models.KindPlanting, 0, models.EventFields{Cost: amount(500), Worker: "John Kamau"}),
		event(t, models.KindFertilizing, 14, models.EventFields{Cost: amount(300)}),
		event(t, models.KindHarvesting, 60, models.EventFields{Cost: amount(100), Quantity: amount(50), Unit: "kg"}),
		event(t, models.KindSale, 62, models.EventFields{Revenue: amount(4500), Quantity: amount(30), Unit: "kg", Client: "Green Valley", ClientID: "green-valley"}),
	}
}
