// Package graph loads customers, items and reviews from storage and links
// them into a models.Graph ready for serialization.
package graph

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"winsbygroup.com/reviewserver/internal/customer"
	"winsbygroup.com/reviewserver/internal/item"
	"winsbygroup.com/reviewserver/internal/models"
	"winsbygroup.com/reviewserver/internal/review"
)

type Service struct {
	customers *customer.Service
	items     *item.Service
	reviews   *review.Service
}

func NewService(c *customer.Service, i *item.Service, r *review.Service) *Service {
	return &Service{
		customers: c,
		items:     i,
		reviews:   r,
	}
}

// NewServiceFromDB builds the loader and its entity services on one database
func NewServiceFromDB(db *sqlx.DB) *Service {
	return NewService(customer.NewService(db), item.NewService(db), review.NewService(db))
}

// Customer loads a customer, its reviews and the items those reviews are for.
func (s *Service) Customer(ctx context.Context, id int64) (*models.Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.GetForCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.items.GetByIDs(ctx, itemIDs(reviews))
	if err != nil {
		return nil, err
	}

	g := models.NewGraph()
	root := g.AddCustomer(customerNode(*c))
	addItems(g, items)
	addReviews(g, reviews)
	g.Link()
	return root, nil
}

// Item loads an item, its reviews and the customers who wrote them.
func (s *Service) Item(ctx context.Context, id int64) (*models.Item, error) {
	i, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.GetForItem(ctx, id)
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.GetByIDs(ctx, customerIDs(reviews))
	if err != nil {
		return nil, err
	}

	g := models.NewGraph()
	root := g.AddItem(itemNode(*i))
	addCustomers(g, customers)
	addReviews(g, reviews)
	g.Link()
	return root, nil
}

// Review loads a review with its customer and item.
func (s *Service) Review(ctx context.Context, id int64) (*models.Review, error) {
	r, err := s.reviews.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := s.customers.Get(ctx, r.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("review %d: %w", id, err)
	}
	i, err := s.items.Get(ctx, r.ItemID)
	if err != nil {
		return nil, fmt.Errorf("review %d: %w", id, err)
	}

	g := models.NewGraph()
	g.AddCustomer(customerNode(*c))
	g.AddItem(itemNode(*i))
	root := g.AddReview(reviewNode(*r))
	g.Link()
	return root, nil
}

// All loads every customer, item and review.
func (s *Service) All(ctx context.Context) (*models.Graph, error) {
	customers, err := s.customers.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.items.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	g := models.NewGraph()
	addCustomers(g, customers)
	addItems(g, items)
	addReviews(g, reviews)
	g.Link()
	return g, nil
}

// Customers returns every customer, linked, ordered by id.
func (s *Service) Customers(ctx context.Context) ([]*models.Customer, error) {
	g, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Customer, 0, len(g.Customers))
	for _, id := range sortedIDs(g.Customers) {
		out = append(out, g.Customers[id])
	}
	return out, nil
}

// Items returns every item, linked, ordered by id.
func (s *Service) Items(ctx context.Context) ([]*models.Item, error) {
	g, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Item, 0, len(g.Items))
	for _, id := range sortedIDs(g.Items) {
		out = append(out, g.Items[id])
	}
	return out, nil
}

// Reviews returns every review, linked, ordered by id.
func (s *Service) Reviews(ctx context.Context) ([]*models.Review, error) {
	g, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Review, 0, len(g.Reviews))
	for _, id := range sortedIDs(g.Reviews) {
		out = append(out, g.Reviews[id])
	}
	return out, nil
}
