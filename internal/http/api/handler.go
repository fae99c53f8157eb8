package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Customers

func (h *Handler) GetCustomers(c echo.Context) error {
	out, err := h.svc.GetCustomers(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetCustomer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	out, err := h.svc.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetCustomerItems(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	out, err := h.svc.CustomerItems(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CustomerExists(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	exists, err := h.svc.CustomerExists(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, ExistsResponse{Exists: exists})
}

func (h *Handler) CreateCustomer(c echo.Context) error {
	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "invalid request body")
	}
	out, err := h.svc.CreateCustomer(c.Request().Context(), &req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *Handler) UpdateCustomer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "invalid request body")
	}

	if err := h.svc.UpdateCustomer(c.Request().Context(), id, &req); err != nil {
		return h.respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteCustomer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	if err := h.svc.DeleteCustomer(c.Request().Context(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Items

func (h *Handler) GetItems(c echo.Context) error {
	out, err := h.svc.GetItems(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	out, err := h.svc.GetItem(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) ItemExists(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	exists, err := h.svc.ItemExists(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, ExistsResponse{Exists: exists})
}

func (h *Handler) CreateItem(c echo.Context) error {
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "invalid request body")
	}
	out, err := h.svc.CreateItem(c.Request().Context(), &req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *Handler) UpdateItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "invalid request body")
	}
	if err := h.svc.UpdateItem(c.Request().Context(), id, &req); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	if err := h.svc.DeleteItem(c.Request().Context(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Reviews

func (h *Handler) GetReviews(c echo.Context) error {
	out, err := h.svc.GetReviews(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetReview(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	out, err := h.svc.GetReview(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateReview(c echo.Context) error {
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "invalid request body")
	}
	out, err := h.svc.CreateReview(c.Request().Context(), &req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *Handler) UpdateReview(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "invalid request body")
	}
	if err := h.svc.UpdateReview(c.Request().Context(), id, &req); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteReview(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	if err := h.svc.DeleteReview(c.Request().Context(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Schema

func (h *Handler) GetSuppressions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Suppressions())
}

// Backup

func (h *Handler) BackupDatabase(c echo.Context) error {
	out, err := h.svc.Backup(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
