package item_test

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winsbygroup.com/reviewserver/internal/item"
	"winsbygroup.com/reviewserver/internal/testutil"
)

func TestItemLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := item.NewService(testutil.NewTestDB(t))

	created, err := svc.Create(ctx, &item.Item{Name: "Mug", Price: 9.99})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Name)
	assert.InDelta(t, 9.99, got.Price, 1e-9)

	got.Price = 12.5
	require.NoError(t, svc.Update(ctx, got))

	updated, err := svc.Get(ctx, got.ID)
	require.NoError(t, err)
	assert.InDelta(t, 12.5, updated.Price, 1e-9)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, got.ID))
	_, err = svc.Get(ctx, got.ID)
	assert.ErrorIs(t, err, item.ErrNotFound)
}

func TestItemValidation(t *testing.T) {
	ctx := context.Background()
	svc := item.NewService(testutil.NewTestDB(t))

	_, err := svc.Create(ctx, &item.Item{Name: "", Price: 1})
	assert.ErrorIs(t, err, item.ErrNameRequired)

	_, err = svc.Create(ctx, &item.Item{Name: "Mug", Price: -1})
	assert.ErrorIs(t, err, item.ErrNegativePrice)

	// zero is a valid price
	free, err := svc.Create(ctx, &item.Item{Name: "Sticker"})
	require.NoError(t, err)
	assert.Zero(t, free.Price)
}

func TestItemGetAllEmpty(t *testing.T) {
	svc := item.NewService(testutil.NewTestDB(t))

	all, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}
