package router

import (
	"github.com/labstack/echo/v4"

	"github.com/arvandh/restaurant-reservation/internal/handler"
	"github.com/arvandh/restaurant-reservation/internal/middleware"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1/owner. All
// routes require a valid JWT with the OWNER role.
func RegisterOwner(e *echo.Echo, res *handler.ReservationHandler, rst *handler.RestaurantHandler, rat *handler.RatingHandler, jwtSecret string) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Reservations on the owner's branches ----
	g.GET("/reservations", res.ListForOwner)
	g.POST("/reservations/:id/complete", res.Complete)
	g.DELETE("/reservations/:id", res.CancelForOwner)

	// ---- Growing the directory ----
	g.POST("/restaurants", rst.Create)
	g.POST("/branches", rst.AddBranch)

	// ---- Answering ratings ----
	g.POST("/ratings/:id/response", rat.Respond)
}
