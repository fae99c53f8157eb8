package review

import (
	"errors"
	"fmt"

	"winsbygroup.com/reviewserver/internal/textnorm"
)

var (
	ErrNotFound = errors.New("review not found")

	// ErrRequiredField is returned when a review is missing one of its parents.
	ErrRequiredField    = errors.New("required field missing")
	ErrCustomerRequired = fmt.Errorf("%w: customer_id", ErrRequiredField)
	ErrItemRequired     = fmt.Errorf("%w: item_id", ErrRequiredField)

	// ErrReferentialIntegrity is returned when a review points at a customer
	// or item that does not exist. The write is not applied.
	ErrReferentialIntegrity = errors.New("referential integrity violation")
)

type Review struct {
	ID         int64  `db:"id" json:"id"`
	Comment    string `db:"comment" json:"comment"`
	CustomerID int64  `db:"customer_id" json:"customer_id"`
	ItemID     int64  `db:"item_id" json:"item_id"`
}

// Validate checks that both parent references are set and cleans the comment
func (r *Review) Validate() error {
	r.Comment = textnorm.Clean(r.Comment)
	if r.CustomerID <= 0 {
		return ErrCustomerRequired
	}
	if r.ItemID <= 0 {
		return ErrItemRequired
	}
	return nil
}
