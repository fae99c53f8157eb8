package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"winsbygroup.com/reviewserver/internal/sqlite"
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

func (s *Service) GetAll(ctx context.Context) ([]Review, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Review, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetForCustomer(ctx context.Context, customerID int64) ([]Review, error) {
	return s.repo.GetForCustomer(ctx, customerID)
}

func (s *Service) GetForItem(ctx context.Context, itemID int64) ([]Review, error) {
	return s.repo.GetForItem(ctx, itemID)
}

// Create inserts a review. A review naming a customer or item that does not
// exist fails with ErrReferentialIntegrity and no row is written.
func (s *Service) Create(ctx context.Context, r *Review) (*Review, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var id int64
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = s.repo.Create(ctx, tx, r)
		return err
	})
	if err != nil {
		return nil, s.classify(ctx, r, err)
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, r *Review) error {
	if err := r.Validate(); err != nil {
		return err
	}
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Update(ctx, tx, r)
	})
	if err != nil {
		return s.classify(ctx, r, err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
}

// classify turns storage constraint failures into the package's errors.
// Called after the transaction has been rolled back.
func (s *Service) classify(ctx context.Context, r *Review, err error) error {
	switch {
	case sqlite.IsNotNullConstraintError(err):
		return fmt.Errorf("%w (%v)", ErrRequiredField, err)
	case sqlite.IsForeignKeyConstraintError(err):
		// SQLite does not say which key failed
		hasCustomer, hasItem, lookupErr := s.repo.ParentsExist(ctx, r.CustomerID, r.ItemID)
		if lookupErr != nil {
			return fmt.Errorf("%w: %v", ErrReferentialIntegrity, err)
		}
		var missing []string
		if !hasCustomer {
			missing = append(missing, fmt.Sprintf("customer %d", r.CustomerID))
		}
		if !hasItem {
			missing = append(missing, fmt.Sprintf("item %d", r.ItemID))
		}
		if len(missing) == 0 {
			return fmt.Errorf("%w: %v", ErrReferentialIntegrity, err)
		}
		return fmt.Errorf("%w: %s not found", ErrReferentialIntegrity, strings.Join(missing, " and "))
	}
	return err
}
