package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arvandh/restaurant-reservation/internal/repository"
)

// RatingHandler lets customers rate a branch and owners answer ratings
// left on their branches.
type RatingHandler struct {
	Ratings *repository.RatingRepo
}

func NewRatingHandler(r *repository.RatingRepo) *RatingHandler {
	if r == nil {
		panic("nil repository passed to NewRatingHandler")
	}
	return &RatingHandler{Ratings: r}
}

type createRatingReq struct {
	RestaurantID uint64 `json:"restaurant_id"`
	BranchID     uint64 `json:"branch_id"`
	Score        int    `json:"score"`
	Comment      string `json:"comment"`
}

// Create handles POST /v1/ratings.
func (h *RatingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createRatingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RestaurantID == 0 || req.BranchID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant_id/branch_id required"})
	}

	id, err := h.Ratings.Create(c.Request().Context(), userID, req.RestaurantID, req.BranchID, req.Score, req.Comment)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidScore) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 1 and 5"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create rating failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"rating_id": id})
}

type respondReq struct {
	Message string `json:"message"`
}

// Respond handles POST /v1/owner/ratings/:id/response. Only the owner of
// the rated branch may answer.
func (h *RatingHandler) Respond(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ratingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || ratingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rating id"})
	}
	var req respondReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message required"})
	}

	err = h.Ratings.Respond(c.Request().Context(), ratingID, userID, strings.TrimSpace(req.Message))
	if err != nil {
		// A missing rating and someone else's branch look the same on
		// purpose.
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your branch"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "respond failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": "responded"})
}
