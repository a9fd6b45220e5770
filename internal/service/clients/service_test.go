package clients_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/repository/memory"
	"github.com/mamadbah2/farmflow/internal/service/clients"
)

func TestService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := clients.NewService(store, nil)

	created, err := svc.Create(ctx, "  Green Valley Market ", "+254700000001")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Green Valley Market", created.Name)

	stored, err := store.GetClient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, stored)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Client{created}, list)
}

func TestService_CreateRequiresNameAndPhone(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := clients.NewService(store, nil)

	tests := []struct {
		name, phone, field string
	}{
		{"", "+254700000001", "name"},
		{"Green Valley", " ", "phone"},
	}
	for _, tt := range tests {
		_, err := svc.Create(ctx, tt.name, tt.phone)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, tt.field, verr.Field)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
