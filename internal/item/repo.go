package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id int64) (*Item, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Item, error)
	Create(ctx context.Context, tx *sqlx.Tx, i *Item) (int64, error)
	Update(ctx context.Context, tx *sqlx.Tx, i *Item) error
	Delete(ctx context.Context, tx *sqlx.Tx, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetAll(ctx context.Context) ([]Item, error) {
	out := []Item{}
	err := r.db.SelectContext(ctx, &out, getAllItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("get all items: %w", err)
	}
	return out, nil
}

func (r *repo) Get(ctx context.Context, id int64) (*Item, error) {
	var i Item
	err := r.db.GetContext(ctx, &i, getItemSQL, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w (%d)", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &i, nil
}

func (r *repo) GetByIDs(ctx context.Context, ids []int64) ([]Item, error) {
	out := []Item{}
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(getItemsByIDSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("get items by id: %w", err)
	}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get items by id: %w", err)
	}
	return out, nil
}

func (r *repo) Create(ctx context.Context, tx *sqlx.Tx, i *Item) (int64, error) {
	res, err := tx.ExecContext(ctx, createItemSQL, i.Name, i.Price)
	if err != nil {
		return 0, fmt.Errorf("create item: %w", err)
	}
	return res.LastInsertId()
}

func (r *repo) Update(ctx context.Context, tx *sqlx.Tx, i *Item) error {
	res, err := tx.ExecContext(ctx, updateItemSQL, i.Name, i.Price, i.ID)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return requireRow(res, i.ID)
}

func (r *repo) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, deleteItemSQL, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return requireRow(res, id)
}

func (r *repo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, itemExistsSQL, id)
	if err != nil {
		return false, fmt.Errorf("item exists: %w", err)
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
