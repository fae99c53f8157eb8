package api

// -------------------------
// Request DTOs
// -------------------------

type CustomerRequest struct {
	Name string `json:"name"`
}

type ItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type ReviewRequest struct {
	Comment    string `json:"comment"`
	CustomerID int64  `json:"customer_id"`
	ItemID     int64  `json:"item_id"`
}

// -------------------------
// Response DTOs
// -------------------------

type ErrorResponse struct {
	Error string `json:"error"`
}

// SuppressionsResponse lists, per root entity, the relationship paths left
// out of its serialized form.
type SuppressionsResponse struct {
	Customer []string `json:"customer"`
	Item     []string `json:"item"`
	Review   []string `json:"review"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}
