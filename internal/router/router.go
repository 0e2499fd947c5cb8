// Package router maps HTTP routes to handlers and mounts the middleware
// each group needs.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/arvandh/restaurant-reservation/internal/handler"
	"github.com/arvandh/restaurant-reservation/internal/middleware"
)

// RegisterRoutes registers unauthenticated routes: the health check and
// the restaurant directory. The cacheMW middleware (may be nil) wraps the
// directory endpoints only; reservation and availability routes are
// registered elsewhere and never cached.
func RegisterRoutes(e *echo.Echo, r *handler.RestaurantHandler, i *handler.IncentiveHandler, cacheMW echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	mws := []echo.MiddlewareFunc{}
	if cacheMW != nil {
		mws = append(mws, cacheMW)
	}
	g := e.Group("/v1", mws...)
	g.GET("/restaurants", r.List)
	g.GET("/restaurants/search", r.Search)
	g.GET("/restaurants/:name/branches", r.ListBranches)
	g.GET("/branches/:restaurant/:branch/ratings", r.BranchRatings)
	g.GET("/incentives", i.List)
}

// RegisterAuth registers the session endpoints. Register, login and
// refresh are open; logout and me accept a bearer token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.RegisterCustomer)
	g.POST("/register-owner", a.RegisterOwner)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout takes a refresh_token body, so it works without the JWT
	// middleware as well.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "CUSTOMER"),
	)
	auth.GET("/me", a.Me)
	auth.POST("/logout", a.Logout)
}

// RegisterAccount registers profile and account deletion for any
// authenticated role.
func RegisterAccount(e *echo.Echo, h *handler.AccountHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "CUSTOMER"),
	)
	g.GET("/profile", h.Profile)
	g.DELETE("/account", h.Delete)
}
