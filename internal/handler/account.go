package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arvandh/restaurant-reservation/internal/repository"
)

// AccountHandler serves the profile view and account deletion.
type AccountHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAccountHandler(u *repository.UserRepo, t *repository.TokenRepo) *AccountHandler {
	if u == nil || t == nil {
		panic("nil repository passed to NewAccountHandler")
	}
	return &AccountHandler{Users: u, Tokens: t}
}

// Profile handles GET /v1/profile. Customers additionally see their
// contact details and point balance.
func (h *AccountHandler) Profile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.Users.GetProfile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load profile"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/account. Sessions die with the account;
// dependent rows cascade in the database.
func (h *AccountHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	_ = h.Tokens.RevokeAllForUser(ctx, userID)
	if err := h.Users.Delete(ctx, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
