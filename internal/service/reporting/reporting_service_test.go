package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/repository/memory"
)

type fakeSheets struct {
	existing [][]interface{}
	appended [][]interface{}
	readErr  error
}

func (f *fakeSheets) AppendRows(_ context.Context, _ string, rows [][]interface{}) error {
	f.appended = append(f.appended, rows...)
	return nil
}

func (f *fakeSheets) ReadRange(context.Context, string) ([][]interface{}, error) {
	return f.existing, f.readErr
}

func amount(v float64) *float64 { return &v }

func seed(t *testing.T, store *memory.Store, cropID string, kind models.EventKind, day int, f models.EventFields) {
	t.Helper()
	ev, err := models.NewEvent(kind, time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC), string(kind), f)
	require.NoError(t, err)
	ev.CropID = cropID
	_, err = store.AppendEvent(context.Background(), ev)
	require.NoError(t, err)
}

func fixedNow() time.Time { return time.Date(2024, 3, 30, 20, 0, 0, 0, time.UTC) }

func TestCropReport(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "tomatoes", models.KindPlanting, 1, models.EventFields{Cost: amount(150)})
	seed(t, store, "tomatoes", models.KindSale, 21, models.EventFields{Revenue: amount(500)})
	seed(t, store, "tomatoes", models.KindPayment, 28, models.EventFields{Revenue: amount(300)})

	svc := NewService(store, store, nil)

	report, err := svc.CropReport(context.Background(), "tomatoes")
	require.NoError(t, err)
	assert.Equal(t,
		"Crop tomatoes (2024-03-01-2024-03-28): 3 events. Cost KSH 150.00, revenue KSH 800.00, profit KSH 650.00. Harvested 0, sold 0. Pending receivables KSH 200.00.",
		report)

	report, err = svc.CropReport(context.Background(), "maize")
	require.NoError(t, err)
	assert.Equal(t, "Crop maize: no events recorded yet.", report)
}

func TestCropReport_Loss(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "beans", models.KindPlanting, 1, models.EventFields{Cost: amount(100)})

	report, err := NewService(store, store, nil).CropReport(context.Background(), "beans")
	require.NoError(t, err)
	assert.Contains(t, report, "loss KSH 100.00")
}

func TestSnapshotAll_StoresAndExportsNewRows(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "tomatoes", models.KindPlanting, 1, models.EventFields{Cost: amount(150)})
	seed(t, store, "tomatoes", models.KindSale, 2, models.EventFields{Revenue: amount(500)})
	seed(t, store, "maize", models.KindWatering, 3, models.EventFields{Cost: amount(20)})

	sheets := &fakeSheets{existing: [][]interface{}{
		{"Date", "Crop"},
		{"2024-03-30", "maize"},
	}}
	svc := NewService(store, store, nil, WithSheetsExport(sheets, "Ledger!A:I"))
	svc.now = fixedNow

	snaps, err := svc.SnapshotAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	assert.Equal(t, "maize", snaps[0].CropID)
	assert.Equal(t, "tomatoes", snaps[1].CropID)
	assert.True(t, snaps[1].Profit.Equal(decimal.NewFromInt(350)))
	assert.True(t, snaps[1].PendingReceivables.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC), snaps[1].Date)

	assert.Len(t, store.Snapshots(), 2)

	require.Len(t, sheets.appended, 1)
	assert.Equal(t, []interface{}{"2024-03-30", "tomatoes", 2, "150.00", "500.00", "350.00", "0", "0", "500.00"}, sheets.appended[0])
}

func TestSnapshotAll_ExportFailureKeepsStoredSnapshots(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "tomatoes", models.KindPlanting, 1, models.EventFields{Cost: amount(150)})

	sheets := &fakeSheets{readErr: errors.New("quota")}
	svc := NewService(store, store, nil, WithSheetsExport(sheets, "Ledger!A:I"))

	_, err := svc.SnapshotAll(context.Background())
	require.Error(t, err)
	assert.Len(t, store.Snapshots(), 1)
}
