package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"winsbygroup.com/reviewserver/internal/customer"
	"winsbygroup.com/reviewserver/internal/item"
	"winsbygroup.com/reviewserver/internal/review"
)

var errInvalidID = errors.New("invalid id")

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, customer.ErrNotFound),
		errors.Is(err, item.ErrNotFound),
		errors.Is(err, review.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, review.ErrReferentialIntegrity),
		errors.Is(err, review.ErrRequiredField),
		errors.Is(err, customer.ErrNameRequired),
		errors.Is(err, item.ErrNameRequired),
		errors.Is(err, item.ErrNegativePrice):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": "..."}. Internal errors are logged
// and their detail is not sent to the client.
func (h *Handler) respondError(c echo.Context, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.svc.log.Error("request failed",
			zap.String("route", c.Path()),
			zap.Error(err),
		)
		msg = http.StatusText(status)
	}
	return c.JSON(status, ErrorResponse{Error: msg})
}

func (h *Handler) badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
