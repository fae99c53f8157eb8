package review_test

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winsbygroup.com/reviewserver/internal/review"
	"winsbygroup.com/reviewserver/internal/testutil"
)

const fixtures = `
	INSERT INTO customers (id, name) VALUES (1, 'Ana'), (2, 'Ben');
	INSERT INTO items (id, name, price) VALUES (1, 'Mug', 9.99), (2, 'Pen', 1.5);
`

func TestReviewLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.Exec(t, db, fixtures)
	svc := review.NewService(db)

	created, err := svc.Create(ctx, &review.Review{Comment: "Nice", CustomerID: 1, ItemID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Nice", created.Comment)
	assert.Equal(t, int64(1), created.CustomerID)
	assert.Equal(t, int64(1), created.ItemID)

	created.Comment = "Very nice"
	created.ItemID = 2
	require.NoError(t, svc.Update(ctx, created))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Very nice", got.Comment)
	assert.Equal(t, int64(2), got.ItemID)

	forItem, err := svc.GetForItem(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, forItem, 1)

	forCustomer, err := svc.GetForCustomer(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, forCustomer, 1)

	require.NoError(t, svc.Delete(ctx, got.ID))
	_, err = svc.Get(ctx, got.ID)
	assert.ErrorIs(t, err, review.ErrNotFound)
}

func TestReviewRequiresParents(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.Exec(t, db, fixtures)
	svc := review.NewService(db)

	_, err := svc.Create(ctx, &review.Review{Comment: "orphan", ItemID: 1})
	assert.ErrorIs(t, err, review.ErrCustomerRequired)
	assert.ErrorIs(t, err, review.ErrRequiredField)

	_, err = svc.Create(ctx, &review.Review{Comment: "orphan", CustomerID: 1})
	assert.ErrorIs(t, err, review.ErrItemRequired)

	assert.Equal(t, 0, testutil.Count(t, db, `SELECT COUNT(*) FROM reviews`))
}

func TestReviewDanglingItemIsRejected(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.Exec(t, db, fixtures)
	svc := review.NewService(db)

	_, err := svc.Create(ctx, &review.Review{Comment: "ghost item", CustomerID: 1, ItemID: 99})
	require.Error(t, err)
	assert.ErrorIs(t, err, review.ErrReferentialIntegrity)
	assert.Contains(t, err.Error(), "item 99")
	assert.NotContains(t, err.Error(), "customer 1")

	// the row was not created
	assert.Equal(t, 0, testutil.Count(t, db, `SELECT COUNT(*) FROM reviews`))
}

func TestReviewDanglingCustomerIsRejected(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.Exec(t, db, fixtures)
	svc := review.NewService(db)

	_, err := svc.Create(ctx, &review.Review{CustomerID: 77, ItemID: 88})
	assert.ErrorIs(t, err, review.ErrReferentialIntegrity)
	assert.Contains(t, err.Error(), "customer 77 and item 88")
	assert.Equal(t, 0, testutil.Count(t, db, `SELECT COUNT(*) FROM reviews`))
}

func TestReviewUpdateToDanglingParentKeepsRow(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.Exec(t, db, fixtures)
	svc := review.NewService(db)

	created, err := svc.Create(ctx, &review.Review{Comment: "Nice", CustomerID: 1, ItemID: 1})
	require.NoError(t, err)

	err = svc.Update(ctx, &review.Review{ID: created.ID, Comment: "moved", CustomerID: 1, ItemID: 50})
	assert.ErrorIs(t, err, review.ErrReferentialIntegrity)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nice", got.Comment)
	assert.Equal(t, int64(1), got.ItemID)
}

func TestReviewUpdateMissing(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	testutil.Exec(t, db, fixtures)
	svc := review.NewService(db)

	err := svc.Update(ctx, &review.Review{ID: 5, CustomerID: 1, ItemID: 1})
	assert.ErrorIs(t, err, review.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 5), review.ErrNotFound)
}
