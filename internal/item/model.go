package item

import (
	"errors"

	"winsbygroup.com/reviewserver/internal/textnorm"
)

var (
	ErrNotFound      = errors.New("item not found")
	ErrNameRequired  = errors.New("item name is required")
	ErrNegativePrice = errors.New("item price cannot be negative")
)

type Item struct {
	ID    int64   `db:"id" json:"id"`
	Name  string  `db:"name" json:"name"`
	Price float64 `db:"price" json:"price"`
}

// Normalize cleans the name in place and validates the item
func (i *Item) Normalize() error {
	i.Name = textnorm.Clean(i.Name)
	if i.Name == "" {
		return ErrNameRequired
	}
	if i.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}
