package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"winsbygroup.com/reviewserver/internal/item"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Customer, error)
	Items(ctx context.Context, id int64) ([]item.Item, error)
	Create(ctx context.Context, tx *sqlx.Tx, c *Customer) (int64, error)
	Update(ctx context.Context, tx *sqlx.Tx, c *Customer) error
	Delete(ctx context.Context, tx *sqlx.Tx, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetAll(ctx context.Context) ([]Customer, error) {
	out := []Customer{}
	err := r.db.SelectContext(ctx, &out, getAllCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("get all customers: %w", err)
	}
	return out, nil
}

func (r *repo) Get(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.db.GetContext(ctx, &c, getCustomerSQL, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w (%d)", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (r *repo) GetByIDs(ctx context.Context, ids []int64) ([]Customer, error) {
	out := []Customer{}
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(getCustomersByIDSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("get customers by id: %w", err)
	}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get customers by id: %w", err)
	}
	return out, nil
}

func (r *repo) Items(ctx context.Context, id int64) ([]item.Item, error) {
	out := []item.Item{}
	err := r.db.SelectContext(ctx, &out, getCustomerItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("get customer items: %w", err)
	}
	return out, nil
}

func (r *repo) Create(ctx context.Context, tx *sqlx.Tx, c *Customer) (int64, error) {
	res, err := tx.ExecContext(ctx, createCustomerSQL, c.Name)
	if err != nil {
		return 0, fmt.Errorf("create customer: %w", err)
	}
	return res.LastInsertId()
}

func (r *repo) Update(ctx context.Context, tx *sqlx.Tx, c *Customer) error {
	res, err := tx.ExecContext(ctx, updateCustomerSQL, c.Name, c.ID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return requireRow(res, c.ID)
}

func (r *repo) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, deleteCustomerSQL, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return requireRow(res, id)
}

func (r *repo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, customerExistsSQL, id)
	if err != nil {
		return false, fmt.Errorf("customer exists: %w", err)
	}
	return exists, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w (%d)", ErrNotFound, id)
	}
	return nil
}
