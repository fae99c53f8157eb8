package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Review, error)
	Get(ctx context.Context, id int64) (*Review, error)
	GetForCustomer(ctx context.Context, customerID int64) ([]Review, error)
	GetForItem(ctx context.Context, itemID int64) ([]Review, error)
	ParentsExist(ctx context.Context, customerID, itemID int64) (customer bool, item bool, err error)
	Create(ctx context.Context, tx *sqlx.Tx, r *Review) (int64, error)
	Update(ctx context.Context, tx *sqlx.Tx, r *Review) error
	Delete(ctx context.Context, tx *sqlx.Tx, id int64) error
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetAll(ctx context.Context) ([]Review, error) {
	out := []Review{}
	if err := r.db.SelectContext(ctx, &out, getAllReviewsSQL); err != nil {
		return nil, fmt.Errorf("get all reviews: %w", err)
	}
	return out, nil
}

func (r *repo) Get(ctx context.Context, id int64) (*Review, error) {
	var rv Review
	err := r.db.GetContext(ctx, &rv, getReviewSQL, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w (%d)", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &rv, nil
}

func (r *repo) GetForCustomer(ctx context.Context, customerID int64) ([]Review, error) {
	out := []Review{}
	if err := r.db.SelectContext(ctx, &out, getReviewsForCustomerSQL, customerID); err != nil {
		return nil, fmt.Errorf("get reviews for customer: %w", err)
	}
	return out, nil
}

func (r *repo) GetForItem(ctx context.Context, itemID int64) ([]Review, error) {
	out := []Review{}
	if err := r.db.SelectContext(ctx, &out, getReviewsForItemSQL, itemID); err != nil {
		return nil, fmt.Errorf("get reviews for item: %w", err)
	}
	return out, nil
}

func (r *repo) ParentsExist(ctx context.Context, customerID, itemID int64) (bool, bool, error) {
	var row struct {
		Customer bool `db:"customer_exists"`
		Item     bool `db:"item_exists"`
	}
	if err := r.db.GetContext(ctx, &row, parentsExistSQL, customerID, itemID); err != nil {
		return false, false, fmt.Errorf("review parents exist: %w", err)
	}
	return row.Customer, row.Item, nil
}

func (r *repo) Create(ctx context.Context, tx *sqlx.Tx, rv *Review) (int64, error) {
	res, err := tx.ExecContext(ctx, createReviewSQL, rv.Comment, rv.CustomerID, rv.ItemID)
	if err != nil {
		return 0, fmt.Errorf("create review: %w", err)
	}
	return res.LastInsertId()
}

func (r *repo) Update(ctx context.Context, tx *sqlx.Tx, rv *Review) error {
	res, err := tx.ExecContext(ctx, updateReviewSQL, rv.Comment, rv.CustomerID, rv.ItemID, rv.ID)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w (%d)", ErrNotFound, rv.ID)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, deleteReviewSQL, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w (%d)", ErrNotFound, id)
	}
	return nil
}
