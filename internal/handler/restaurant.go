package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arvandh/restaurant-reservation/internal/repository"
)

// RestaurantHandler serves the public directory (restaurant list, search,
// branches, branch ratings) and the owner endpoints for growing it.
type RestaurantHandler struct {
	Restaurants *repository.RestaurantRepo
	Branches    *repository.BranchRepo
}

func NewRestaurantHandler(r *repository.RestaurantRepo, b *repository.BranchRepo) *RestaurantHandler {
	if r == nil || b == nil {
		panic("nil repository passed to NewRestaurantHandler")
	}
	return &RestaurantHandler{Restaurants: r, Branches: b}
}

// List handles GET /v1/restaurants: every restaurant with its average
// rating across all branches.
func (h *RestaurantHandler) List(c echo.Context) error {
	items, err := h.Restaurants.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load restaurants"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Search handles GET /v1/restaurants/search?q=. An empty query behaves
// like List.
func (h *RestaurantHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return h.List(c)
	}
	items, err := h.Restaurants.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListBranches handles GET /v1/restaurants/:name/branches.
func (h *RestaurantHandler) ListBranches(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant name required"})
	}
	branches, err := h.Branches.ListByRestaurantName(c.Request().Context(), name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load branches"})
	}
	if len(branches) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": branches})
}

// BranchRatings handles GET /v1/branches/:restaurant/:branch/ratings.
// Branches are keyed by restaurant id plus branch number, so both appear
// in the path.
func (h *RestaurantHandler) BranchRatings(c echo.Context) error {
	restaurantID, err := strconv.ParseUint(c.Param("restaurant"), 10, 64)
	if err != nil || restaurantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	branchID, err := strconv.ParseUint(c.Param("branch"), 10, 64)
	if err != nil || branchID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid branch id"})
	}
	ratings, err := h.Branches.RatingsByBranch(c.Request().Context(), restaurantID, branchID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load ratings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ratings})
}

type createRestaurantReq struct {
	Name     string `json:"name"`
	Cuisine  string `json:"cuisine"`
	About    string `json:"about"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Location string `json:"location"`
}

// Create handles POST /v1/owner/restaurants. The name must be new; use
// AddBranch to open another branch of an existing restaurant.
func (h *RestaurantHandler) Create(c echo.Context) error {
	return h.create(c, true)
}

// AddBranch handles POST /v1/owner/branches. It opens a branch under an
// existing restaurant name, or creates the restaurant if the name is new.
func (h *RestaurantHandler) AddBranch(c echo.Context) error {
	return h.create(c, false)
}

func (h *RestaurantHandler) create(c echo.Context, newOnly bool) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createRestaurantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if req.Name == "" || req.Address == "" || req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/address/location required"})
	}

	restaurantID, branchID, err := h.Restaurants.CreateWithBranch(c.Request().Context(), userID,
		req.Name, req.Cuisine, req.About, req.Phone, req.Address, req.Location, newOnly)
	if err != nil {
		if err == repository.ErrRestaurantExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "restaurant name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"restaurant_id": restaurantID,
		"branch_id":     branchID,
	})
}
