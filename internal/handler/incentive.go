package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/arvandh/restaurant-reservation/internal/repository"
)

// IncentiveHandler serves the reward catalogue and redemptions.
type IncentiveHandler struct {
	Incentives *repository.IncentiveRepo
}

func NewIncentiveHandler(i *repository.IncentiveRepo) *IncentiveHandler {
	if i == nil {
		panic("nil repository passed to NewIncentiveHandler")
	}
	return &IncentiveHandler{Incentives: i}
}

// List handles GET /v1/incentives.
func (h *IncentiveHandler) List(c echo.Context) error {
	items, err := h.Incentives.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load incentives"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Redeem handles POST /v1/incentives/:id/redeem. Success returns the
// remaining balance; a balance too small for the item returns 409 with
// the current balance so the client can show how far off the customer is.
func (h *IncentiveHandler) Redeem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	incentiveID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || incentiveID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid incentive id"})
	}

	remaining, err := h.Incentives.Redeem(c.Request().Context(), userID, incentiveID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientPoints):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":  "not enough points",
				"points": remaining,
			})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "incentive not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "redeem failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "redeemed",
		"points": remaining,
	})
}
