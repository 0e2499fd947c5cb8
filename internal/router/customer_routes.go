package router

import (
	"github.com/labstack/echo/v4"

	"github.com/arvandh/restaurant-reservation/internal/handler"
	"github.com/arvandh/restaurant-reservation/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1. All
// routes require a valid JWT with the CUSTOMER role. The rate limiter
// (may be nil) guards the booking endpoint: each attempt runs a locking
// transaction, so spamming it is throttled rather than served.
func RegisterCustomer(e *echo.Echo, res *handler.ReservationHandler, rat *handler.RatingHandler, inc *handler.IncentiveHandler, jwtSecret string, limitMW echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)

	g.GET("/reservations/options", res.Options)
	if limitMW != nil {
		g.POST("/reservations", res.Book, limitMW)
	} else {
		g.POST("/reservations", res.Book)
	}
	g.GET("/my-reservations", res.ListMine)
	g.DELETE("/reservations/:id", res.CancelMine)

	g.POST("/ratings", rat.Create)
	g.POST("/incentives/:id/redeem", inc.Redeem)
}
