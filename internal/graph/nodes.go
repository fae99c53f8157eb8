package graph

import (
	"sort"

	"winsbygroup.com/reviewserver/internal/customer"
	"winsbygroup.com/reviewserver/internal/item"
	"winsbygroup.com/reviewserver/internal/models"
	"winsbygroup.com/reviewserver/internal/review"
)

func customerNode(c customer.Customer) *models.Customer {
	return &models.Customer{ID: c.ID, Name: c.Name}
}

func itemNode(i item.Item) *models.Item {
	return &models.Item{ID: i.ID, Name: i.Name, Price: i.Price}
}

func reviewNode(r review.Review) *models.Review {
	return &models.Review{
		ID:         r.ID,
		Comment:    r.Comment,
		CustomerID: r.CustomerID,
		ItemID:     r.ItemID,
	}
}

func addCustomers(g *models.Graph, rows []customer.Customer) {
	for _, c := range rows {
		g.AddCustomer(customerNode(c))
	}
}

func addItems(g *models.Graph, rows []item.Item) {
	for _, i := range rows {
		g.AddItem(itemNode(i))
	}
}

func addReviews(g *models.Graph, rows []review.Review) {
	for _, r := range rows {
		g.AddReview(reviewNode(r))
	}
}

func itemIDs(reviews []review.Review) []int64 {
	seen := make(map[int64]bool, len(reviews))
	var ids []int64
	for _, r := range reviews {
		if !seen[r.ItemID] {
			seen[r.ItemID] = true
			ids = append(ids, r.ItemID)
		}
	}
	return ids
}

func customerIDs(reviews []review.Review) []int64 {
	seen := make(map[int64]bool, len(reviews))
	var ids []int64
	for _, r := range reviews {
		if !seen[r.CustomerID] {
			seen[r.CustomerID] = true
			ids = append(ids, r.CustomerID)
		}
	}
	return ids
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}
