package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"winsbygroup.com/reviewserver/internal/events"
	"winsbygroup.com/reviewserver/internal/version"
)

const (
	RequestIDHeader = echo.HeaderXRequestID
	VersionHeader   = "X-Reviewserver-Version"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one, echoes it
// in the response and stores it in the request context as the correlation
// id of any change events the request produces.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			c.Response().Header().Set(RequestIDHeader, id)

			ctx := events.WithCorrelationID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// Version adds the app version to every response.
func Version() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(VersionHeader, version.Version)
			return next(c)
		}
	}
}
