package models

import "sort"

// Graph indexes loaded customers, items and reviews by id and keeps both
// sides of every review relationship in step.
type Graph struct {
	Customers map[int64]*Customer
	Items     map[int64]*Item
	Reviews   map[int64]*Review
}

func NewGraph() *Graph {
	return &Graph{
		Customers: make(map[int64]*Customer),
		Items:     make(map[int64]*Item),
		Reviews:   make(map[int64]*Review),
	}
}

// AddCustomer returns the customer already indexed under c.ID, or indexes c.
func (g *Graph) AddCustomer(c *Customer) *Customer {
	if existing, ok := g.Customers[c.ID]; ok {
		return existing
	}
	g.Customers[c.ID] = c
	return c
}

// AddItem returns the item already indexed under i.ID, or indexes i.
func (g *Graph) AddItem(i *Item) *Item {
	if existing, ok := g.Items[i.ID]; ok {
		return existing
	}
	g.Items[i.ID] = i
	return i
}

// AddReview returns the review already indexed under r.ID, or indexes r.
func (g *Graph) AddReview(r *Review) *Review {
	if existing, ok := g.Reviews[r.ID]; ok {
		return existing
	}
	g.Reviews[r.ID] = r
	return r
}

// Link wires every review to its customer and item and appends the review to
// the parents' Reviews. Parents that are not in the graph stay nil. Link is
// idempotent and may be called again after more nodes are added.
func (g *Graph) Link() {
	for _, c := range g.Customers {
		c.Reviews = c.Reviews[:0]
	}
	for _, i := range g.Items {
		i.Reviews = i.Reviews[:0]
	}

	// review id order keeps the parents' collections deterministic
	ids := make([]int64, 0, len(g.Reviews))
	for id := range g.Reviews {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	for _, id := range ids {
		r := g.Reviews[id]

		r.Customer = g.Customers[r.CustomerID]
		if r.Customer != nil {
			r.Customer.Reviews = append(r.Customer.Reviews, r)
		}

		r.Item = g.Items[r.ItemID]
		if r.Item != nil {
			r.Item.Reviews = append(r.Item.Reviews, r)
		}
	}
}
