package customer

import (
	"errors"

	"winsbygroup.com/reviewserver/internal/textnorm"
)

var (
	ErrNotFound     = errors.New("customer not found")
	ErrNameRequired = errors.New("customer name is required")
)

type Customer struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Normalize cleans the name in place and validates it
func (c *Customer) Normalize() error {
	c.Name = textnorm.Clean(c.Name)
	if c.Name == "" {
		return ErrNameRequired
	}
	return nil
}
