package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winsbygroup.com/reviewserver/internal/models"
)

func sampleGraph() *models.Graph {
	g := models.NewGraph()
	g.AddCustomer(&models.Customer{ID: 1, Name: "Ana"})
	g.AddCustomer(&models.Customer{ID: 2, Name: "Ben"})
	g.AddItem(&models.Item{ID: 1, Name: "Mug", Price: 9.99})
	g.AddItem(&models.Item{ID: 2, Name: "Pen", Price: 1.5})
	g.AddReview(&models.Review{ID: 3, Comment: "again", CustomerID: 1, ItemID: 1})
	g.AddReview(&models.Review{ID: 1, Comment: "nice", CustomerID: 1, ItemID: 2})
	g.AddReview(&models.Review{ID: 2, Comment: "ok", CustomerID: 1, ItemID: 2})
	g.AddReview(&models.Review{ID: 4, Comment: "meh", CustomerID: 2, ItemID: 1})
	g.Link()
	return g
}

func TestLinkIsSymmetric(t *testing.T) {
	g := sampleGraph()

	for _, r := range g.Reviews {
		require.NotNil(t, r.Customer)
		require.NotNil(t, r.Item)
		assert.Contains(t, r.Customer.Reviews, r, "customer %d should list review %d", r.CustomerID, r.ID)
		assert.Contains(t, r.Item.Reviews, r, "item %d should list review %d", r.ItemID, r.ID)
	}
	for _, c := range g.Customers {
		for _, r := range c.Reviews {
			assert.Same(t, c, r.Customer)
		}
	}
	for _, i := range g.Items {
		for _, r := range i.Reviews {
			assert.Same(t, i, r.Item)
		}
	}
}

func TestLinkIsIdempotent(t *testing.T) {
	g := sampleGraph()
	g.Link()
	g.Link()

	assert.Len(t, g.Customers[1].Reviews, 3)
	assert.Len(t, g.Items[1].Reviews, 2)
	assert.Equal(t, int64(1), g.Customers[1].Reviews[0].ID, "reviews are ordered by id")
}

func TestLinkLeavesMissingParentsNil(t *testing.T) {
	g := models.NewGraph()
	g.AddCustomer(&models.Customer{ID: 1, Name: "Ana"})
	r := g.AddReview(&models.Review{ID: 1, CustomerID: 1, ItemID: 9})
	g.Link()

	assert.NotNil(t, r.Customer)
	assert.Nil(t, r.Item)
}

func TestAddReturnsExisting(t *testing.T) {
	g := models.NewGraph()
	first := g.AddItem(&models.Item{ID: 1, Name: "Mug"})
	second := g.AddItem(&models.Item{ID: 1, Name: "Other"})

	assert.Same(t, first, second)
	assert.Equal(t, "Mug", g.Items[1].Name)
}

func TestCustomerItemsIsDedupedProjection(t *testing.T) {
	g := sampleGraph()
	ana := g.Customers[1]

	items := ana.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Pen", items[0].Name, "first reached via review 1")
	assert.Equal(t, "Mug", items[1].Name)

	// equals the deduplicated set of review.Item over the customer's reviews
	want := map[*models.Item]bool{}
	for _, r := range ana.Reviews {
		want[r.Item] = true
	}
	got := map[*models.Item]bool{}
	for _, i := range items {
		got[i] = true
	}
	assert.Equal(t, want, got)

	// derived, so it follows changes to the reviews
	g.AddReview(&models.Review{ID: 10, CustomerID: 1, ItemID: 2})
	g.Link()
	assert.Len(t, ana.Items(), 2)

	var nobody *models.Customer
	assert.Nil(t, nobody.Items())
}
