package costs_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/ledger"
	"github.com/mamadbah2/farmflow/internal/repository/memory"
	"github.com/mamadbah2/farmflow/internal/service/costs"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func TestService_MutationsPersistItemsAndCropTotal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := costs.NewService(store, nil, ledger.WithIDGenerator(sequentialIDs()))

	seeds, err := svc.AddItem(ctx, "tomatoes", ledger.NewCostItem{Category: "Seeds/Seedlings", Description: "Hybrid seed", Cost: 120})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "tomatoes", ledger.NewCostItem{Category: "Labor", Description: "Transplanting", Cost: 80.5})
	require.NoError(t, err)

	total, ok := store.CropTotalCost("tomatoes")
	require.True(t, ok)
	assert.True(t, total.Equal(decimal.RequireFromString("200.5")))

	updated, err := svc.UpdateCost(ctx, "tomatoes", seeds.ID, 100)
	require.NoError(t, err)
	assert.True(t, updated.Cost.Equal(decimal.NewFromInt(100)))

	total, _ = store.CropTotalCost("tomatoes")
	assert.True(t, total.Equal(decimal.RequireFromString("180.5")))

	require.NoError(t, svc.RemoveItem(ctx, "tomatoes", seeds.ID))
	total, _ = store.CropTotalCost("tomatoes")
	assert.True(t, total.Equal(decimal.RequireFromString("80.5")))

	breakdown, err := svc.List(ctx, "tomatoes")
	require.NoError(t, err)
	require.Len(t, breakdown.Items, 1)
	assert.True(t, breakdown.Total.Equal(total))
	assert.True(t, breakdown.ByCategory[models.CategoryLabor].Equal(total))
}

func TestService_RejectionsLeaveStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := costs.NewService(store, nil)

	_, err := svc.AddItem(ctx, "tomatoes", ledger.NewCostItem{Category: "Fertilizer", Description: "NPK", Cost: 50})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "tomatoes", ledger.NewCostItem{Category: "Fertilizer", Description: "", Cost: 10})
	assert.True(t, models.IsValidation(err))

	_, err = svc.AddItem(ctx, "tomatoes", ledger.NewCostItem{Category: "Gold", Description: "x", Cost: 10})
	assert.True(t, models.IsValidation(err))

	_, err = svc.UpdateCost(ctx, "tomatoes", "missing", 10)
	assert.True(t, models.IsNotFound(err))

	assert.True(t, models.IsNotFound(svc.RemoveItem(ctx, "tomatoes", "missing")))

	items, err := store.ListCostItems(ctx, "tomatoes")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	total, _ := store.CropTotalCost("tomatoes")
	assert.True(t, total.Equal(decimal.NewFromInt(50)))
}

func TestService_CropsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := costs.NewService(store, nil)

	item, err := svc.AddItem(ctx, "tomatoes", ledger.NewCostItem{Category: "Water", Description: "Irrigation", Cost: 30})
	require.NoError(t, err)

	assert.True(t, models.IsNotFound(svc.RemoveItem(ctx, "maize", item.ID)))

	breakdown, err := svc.List(ctx, "maize")
	require.NoError(t, err)
	assert.Empty(t, breakdown.Items)
	assert.True(t, breakdown.Total.IsZero())
}

// flakyTotals fails crop total writes while failTotals is set.
type flakyTotals struct {
	*memory.Store
	failTotals bool
}

func (f *flakyTotals) SetCropTotalCost(ctx context.Context, cropID string, total decimal.Decimal) error {
	if f.failTotals {
		return errors.New("crops write failed")
	}
	return f.Store.SetCropTotalCost(ctx, cropID, total)
}

func TestService_FailedTotalWriteRollsBackItem(t *testing.T) {
	ctx := context.Background()
	repo := &flakyTotals{Store: memory.NewStore()}
	svc := costs.NewService(repo, nil, ledger.WithIDGenerator(sequentialIDs()))

	// GIVEN a crop with one stored item and a matching total
	seeds, err := svc.AddItem(ctx, "maize", ledger.NewCostItem{Category: "Seeds/Seedlings", Cost: 50})
	require.NoError(t, err)

	// WHEN every following total write fails
	repo.failTotals = true

	_, err = svc.AddItem(ctx, "maize", ledger.NewCostItem{Category: "Fertilizer", Cost: 30})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crops write failed")

	_, err = svc.UpdateCost(ctx, "maize", seeds.ID, 75)
	require.Error(t, err)

	err = svc.RemoveItem(ctx, "maize", seeds.ID)
	require.Error(t, err)

	// THEN the stored items and the crop total are as before the failed calls
	items, err := repo.ListCostItems(ctx, "maize")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, seeds.ID, items[0].ID)
	assert.True(t, items[0].Cost.Equal(decimal.NewFromInt(50)))

	total, ok := repo.CropTotalCost("maize")
	require.True(t, ok)
	assert.True(t, total.Equal(decimal.NewFromInt(50)))

	breakdown, err := svc.List(ctx, "maize")
	require.NoError(t, err)
	assert.True(t, breakdown.Total.Equal(total))
}
