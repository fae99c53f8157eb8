package api

import (
	"context"
	"time"

	"go.uber.org/zap"

	"winsbygroup.com/reviewserver/internal/backup"
	"winsbygroup.com/reviewserver/internal/customer"
	"winsbygroup.com/reviewserver/internal/events"
	"winsbygroup.com/reviewserver/internal/graph"
	"winsbygroup.com/reviewserver/internal/item"
	"winsbygroup.com/reviewserver/internal/review"
	"winsbygroup.com/reviewserver/internal/serialize"
)

const publishTimeout = 10 * time.Second

// EventCounter is told the outcome of every change event.
type EventCounter interface {
	EventPublished(eventType string, err error)
}

type Service struct {
	customers *customer.Service
	items     *item.Service
	reviews   *review.Service
	graph     *graph.Service
	backups   *backup.Service
	publisher events.Publisher
	counter   EventCounter
	log       *zap.Logger
}

// NewService wires the API to its entity services. counter may be nil.
func NewService(
	c *customer.Service,
	i *item.Service,
	r *review.Service,
	g *graph.Service,
	b *backup.Service,
	pub events.Publisher,
	counter EventCounter,
	log *zap.Logger,
) *Service {
	return &Service{
		customers: c,
		items:     i,
		reviews:   r,
		graph:     g,
		backups:   b,
		publisher: pub,
		counter:   counter,
		log:       log,
	}
}

// -------------------------
// Customers
// -------------------------

func (s *Service) GetCustomers(ctx context.Context) ([]serialize.Object, error) {
	cs, err := s.graph.Customers(ctx)
	if err != nil {
		return nil, err
	}
	return serialize.Customers(cs), nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (serialize.Object, error) {
	c, err := s.graph.Customer(ctx, id)
	if err != nil {
		return nil, err
	}
	return serialize.Customer(c), nil
}

func (s *Service) CreateCustomer(ctx context.Context, req *CustomerRequest) (serialize.Object, error) {
	created, err := s.customers.Create(ctx, &customer.Customer{Name: req.Name})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.EntityCustomer, events.ActionCreated, created.ID, map[string]any{
		"name": created.Name,
	})
	return s.GetCustomer(ctx, created.ID)
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, req *CustomerRequest) error {
	c := &customer.Customer{ID: id, Name: req.Name}
	if err := s.customers.Update(ctx, c); err != nil {
		return err
	}
	s.emit(ctx, events.EntityCustomer, events.ActionUpdated, id, map[string]any{
		"name": c.Name,
	})
	return nil
}

// CustomerItems returns the distinct items the customer has reviewed, read
// straight from the reviews table.
func (s *Service) CustomerItems(ctx context.Context, id int64) ([]item.Item, error) {
	if _, err := s.customers.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.customers.Items(ctx, id)
}

func (s *Service) CustomerExists(ctx context.Context, id int64) (bool, error) {
	return s.customers.Exists(ctx, id)
}

// DeleteCustomer removes the customer and, by cascade, its reviews.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, events.EntityCustomer, events.ActionDeleted, id, nil)
	return nil
}

// -------------------------
// Items
// -------------------------

func (s *Service) GetItems(ctx context.Context) ([]serialize.Object, error) {
	is, err := s.graph.Items(ctx)
	if err != nil {
		return nil, err
	}
	return serialize.Items(is), nil
}

func (s *Service) GetItem(ctx context.Context, id int64) (serialize.Object, error) {
	i, err := s.graph.Item(ctx, id)
	if err != nil {
		return nil, err
	}
	return serialize.Item(i), nil
}

func (s *Service) ItemExists(ctx context.Context, id int64) (bool, error) {
	return s.items.Exists(ctx, id)
}

func (s *Service) CreateItem(ctx context.Context, req *ItemRequest) (serialize.Object, error) {
	created, err := s.items.Create(ctx, &item.Item{Name: req.Name, Price: req.Price})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.EntityItem, events.ActionCreated, created.ID, map[string]any{
		"name":  created.Name,
		"price": created.Price,
	})
	return s.GetItem(ctx, created.ID)
}

func (s *Service) UpdateItem(ctx context.Context, id int64, req *ItemRequest) error {
	i := &item.Item{ID: id, Name: req.Name, Price: req.Price}
	if err := s.items.Update(ctx, i); err != nil {
		return err
	}
	s.emit(ctx, events.EntityItem, events.ActionUpdated, id, map[string]any{
		"name":  i.Name,
		"price": i.Price,
	})
	return nil
}

// DeleteItem removes the item and, by cascade, its reviews.
func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, events.EntityItem, events.ActionDeleted, id, nil)
	return nil
}

// -------------------------
// Reviews
// -------------------------

func (s *Service) GetReviews(ctx context.Context) ([]serialize.Object, error) {
	rs, err := s.graph.Reviews(ctx)
	if err != nil {
		return nil, err
	}
	return serialize.Reviews(rs), nil
}

func (s *Service) GetReview(ctx context.Context, id int64) (serialize.Object, error) {
	r, err := s.graph.Review(ctx, id)
	if err != nil {
		return nil, err
	}
	return serialize.Review(r), nil
}

func (s *Service) CreateReview(ctx context.Context, req *ReviewRequest) (serialize.Object, error) {
	created, err := s.reviews.Create(ctx, &review.Review{
		Comment:    req.Comment,
		CustomerID: req.CustomerID,
		ItemID:     req.ItemID,
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.EntityReview, events.ActionCreated, created.ID, map[string]any{
		"customer_id": created.CustomerID,
		"item_id":     created.ItemID,
	})
	return s.GetReview(ctx, created.ID)
}

func (s *Service) UpdateReview(ctx context.Context, id int64, req *ReviewRequest) error {
	r := &review.Review{
		ID:         id,
		Comment:    req.Comment,
		CustomerID: req.CustomerID,
		ItemID:     req.ItemID,
	}
	if err := s.reviews.Update(ctx, r); err != nil {
		return err
	}
	s.emit(ctx, events.EntityReview, events.ActionUpdated, id, map[string]any{
		"customer_id": r.CustomerID,
		"item_id":     r.ItemID,
	})
	return nil
}

func (s *Service) DeleteReview(ctx context.Context, id int64) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, events.EntityReview, events.ActionDeleted, id, nil)
	return nil
}

// -------------------------
// Schema and maintenance
// -------------------------

func (s *Service) Suppressions() SuppressionsResponse {
	return SuppressionsResponse{
		Customer: serialize.SuppressedPaths(serialize.KindCustomer),
		Item:     serialize.SuppressedPaths(serialize.KindItem),
		Review:   serialize.SuppressedPaths(serialize.KindReview),
	}
}

func (s *Service) Backup(ctx context.Context) (*backup.BackupResult, error) {
	return s.backups.CreateBackup(ctx)
}

// emit publishes a change event after a committed write. A failed publish is
// logged and counted but does not fail the request.
func (s *Service) emit(ctx context.Context, entity, action string, id int64, payload map[string]any) {
	ev := events.New(ctx, entity, action, id, payload)

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := s.publisher.Publish(pubCtx, ev)
	if err != nil {
		s.log.Warn("change event not published",
			zap.String("event_type", ev.EventType),
			zap.Int64("id", id),
			zap.Error(err),
		)
	}
	if s.counter != nil {
		s.counter.EventPublished(ev.EventType, err)
	}
}
