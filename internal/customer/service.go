package customer

import (
	"context"

	"github.com/jmoiron/sqlx"

	"winsbygroup.com/reviewserver/internal/item"
)

type Service struct {
	repo Repository
	db   *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		db:   db,
		repo: New(db),
	}
}

func (s *Service) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Service) GetAll(ctx context.Context) ([]Customer, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByIDs(ctx context.Context, ids []int64) ([]Customer, error) {
	return s.repo.GetByIDs(ctx, ids)
}

// Items returns the distinct items the customer has reviewed. It is computed
// from the reviews table on every call and never stored.
func (s *Service) Items(ctx context.Context, id int64) ([]item.Item, error) {
	return s.repo.Items(ctx, id)
}

func (s *Service) Create(ctx context.Context, c *Customer) (*Customer, error) {
	if err := c.Normalize(); err != nil {
		return nil, err
	}

	var id int64
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = s.repo.Create(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, c *Customer) error {
	if err := c.Normalize(); err != nil {
		return err
	}
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Update(ctx, tx, c)
	})
}

// Delete removes the customer. Its reviews go with it (ON DELETE CASCADE).
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
