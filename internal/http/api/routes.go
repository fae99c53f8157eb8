package api

import "github.com/labstack/echo/v4"

func RegisterRoutes(g *echo.Group, h *Handler) {

	// Customers
	g.GET("/customers", h.GetCustomers)
	g.GET("/customers/:id", h.GetCustomer)
	g.GET("/customers/:id/items", h.GetCustomerItems)
	g.GET("/customers/:id/exists", h.CustomerExists)
	g.POST("/customers", h.CreateCustomer)
	g.PUT("/customers/:id", h.UpdateCustomer)
	g.DELETE("/customers/:id", h.DeleteCustomer)

	// Items
	g.GET("/items", h.GetItems)
	g.GET("/items/:id", h.GetItem)
	g.GET("/items/:id/exists", h.ItemExists)
	g.POST("/items", h.CreateItem)
	g.PUT("/items/:id", h.UpdateItem)
	g.DELETE("/items/:id", h.DeleteItem)

	// Reviews
	g.GET("/reviews", h.GetReviews)
	g.GET("/reviews/:id", h.GetReview)
	g.POST("/reviews", h.CreateReview)
	g.PUT("/reviews/:id", h.UpdateReview)
	g.DELETE("/reviews/:id", h.DeleteReview)

	// Serialization rules
	g.GET("/schema/suppressions", h.GetSuppressions)

	// Backup
	g.POST("/backup", h.BackupDatabase)
}
