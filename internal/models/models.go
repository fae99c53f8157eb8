// Package models holds the linked, in-memory form of customers, items and
// reviews. Relationships are plain pointers maintained by Graph.Link; nothing
// in this package touches the database.
package models

// Customer is a customer together with the reviews it wrote
type Customer struct {
	ID   int64
	Name string

	// Related entities
	Reviews []*Review
}

// Item is a reviewable item together with its reviews
type Item struct {
	ID    int64
	Name  string
	Price float64

	// Related entities
	Reviews []*Review
}

// Review links one customer to one item
type Review struct {
	ID         int64
	Comment    string
	CustomerID int64
	ItemID     int64

	// Related entities; nil when the parent was not loaded
	Customer *Customer
	Item     *Item
}

// Items returns the distinct items reachable through the customer's reviews,
// in the order they are first reached. The slice is computed on each call.
func (c *Customer) Items() []*Item {
	if c == nil {
		return nil
	}
	seen := make(map[*Item]bool, len(c.Reviews))
	var out []*Item
	for _, r := range c.Reviews {
		if r.Item == nil || seen[r.Item] {
			continue
		}
		seen[r.Item] = true
		out = append(out, r.Item)
	}
	return out
}
