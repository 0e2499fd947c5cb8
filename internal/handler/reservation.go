package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arvandh/restaurant-reservation/internal/booking"
	"github.com/arvandh/restaurant-reservation/internal/queue"
	"github.com/arvandh/restaurant-reservation/internal/repository"
	queue_publisher "github.com/arvandh/restaurant-reservation/internal/service"
)

// ReservationHandler serves the booking endpoints for customers and the
// reservation management endpoints for owners. All writes to tables and
// the reservation ledger go through the booking service; this handler
// never touches occupancy rows directly.
type ReservationHandler struct {
	Svc          *booking.Service
	Reservations *repository.ReservationRepo
	Tables       *repository.TableRepo

	// publish sends the confirmation event. Swappable in tests; nil
	// disables events entirely.
	publish func(context.Context, queue.ReservationConfirmedEvent) error
}

func NewReservationHandler(svc *booking.Service, reservations *repository.ReservationRepo, tables *repository.TableRepo) *ReservationHandler {
	if svc == nil || reservations == nil || tables == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{
		Svc:          svc,
		Reservations: reservations,
		Tables:       tables,
		publish:      queue_publisher.PublishReservationConfirmed,
	}
}

type bookReq struct {
	Restaurant string `json:"restaurant"`
	Location   string `json:"location"`
	Slot       string `json:"slot"`
	Guests     int    `json:"guests"`
}

// Options handles GET /v1/reservations/options. It returns the distinct
// time slots and party sizes the reservation form can offer.
func (h *ReservationHandler) Options(c echo.Context) error {
	ctx := c.Request().Context()
	slots, err := h.Tables.DistinctSlots(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load slots"})
	}
	seats, err := h.Tables.DistinctSeats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load party sizes"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"slots":       slots,
		"party_sizes": seats,
	})
}

// Book handles POST /v1/reservations. A confirmed booking returns 201
// with the reservation id; a full branch returns 409. Lost lock races
// are retried inside the service and surface as 503 only when retries
// run out.
func (h *ReservationHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Restaurant == "" || req.Location == "" || req.Slot == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant/location/slot required"})
	}

	res, err := h.Svc.Book(c.Request().Context(), booking.BookRequest{
		AccountID:      userID,
		IsCustomer:     isCustomer(c),
		RestaurantName: req.Restaurant,
		BranchLocation: req.Location,
		Slot:           req.Slot,
		PartySize:      req.Guests,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotAuthorized):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "customers only"})
		case errors.Is(err, booking.ErrInvalidPartySize):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests must be positive"})
		case errors.Is(err, booking.ErrTransactionFailed):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking conflict, try again"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	if res.Outcome == booking.BookFullyBooked {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no table available for this slot"})
	}

	if h.publish != nil {
		ev := queue.ReservationConfirmedEvent{
			ReservationID: res.ReserveID,
			UserID:        userID,
			Restaurant:    req.Restaurant,
			Location:      req.Location,
			Slot:          req.Slot,
			GuestCount:    req.Guests,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		// Best effort: a broker outage must not fail a committed booking.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = h.publish(ctx, ev)
		}()
	}

	return c.JSON(http.StatusCreated, echo.Map{"reservation_id": res.ReserveID})
}

// ListMine handles GET /v1/my-reservations.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CancelMine handles DELETE /v1/reservations/:id. Customers can only
// cancel their own reservations; a reservation that does not exist and
// one owned by someone else both come back as 404.
func (h *ReservationHandler) CancelMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reserveID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reserveID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()

	mine, err := h.Reservations.BelongsToUser(ctx, reserveID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !mine {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	return h.release(c, ctx, reserveID, false)
}

// ListForOwner handles GET /v1/owner/reservations: every live reservation
// on the owner's branches.
func (h *ReservationHandler) ListForOwner(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Reservations.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Complete handles POST /v1/owner/reservations/:id/complete. The guests
// showed up and left; the table frees and the customer earns points.
func (h *ReservationHandler) Complete(c echo.Context) error {
	return h.ownerRelease(c, true)
}

// CancelForOwner handles DELETE /v1/owner/reservations/:id. The booking
// is dropped without a reward, e.g. a no-show.
func (h *ReservationHandler) CancelForOwner(c echo.Context) error {
	return h.ownerRelease(c, false)
}

func (h *ReservationHandler) ownerRelease(c echo.Context, reward bool) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reserveID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reserveID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()

	managed, err := h.Reservations.ManagedByOwner(ctx, reserveID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !managed {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	return h.release(c, ctx, reserveID, reward)
}

// release runs the cancel or complete transaction and maps its outcome.
func (h *ReservationHandler) release(c echo.Context, ctx context.Context, reserveID uint64, reward bool) error {
	var (
		out booking.CancelOutcome
		err error
	)
	if reward {
		out, err = h.Svc.Complete(ctx, reserveID)
	} else {
		out, err = h.Svc.Cancel(ctx, reserveID)
	}
	if err != nil {
		if errors.Is(err, booking.ErrTransactionFailed) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "conflict, try again"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
	}
	if out == booking.CancelNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	if reward {
		return c.JSON(http.StatusOK, echo.Map{"status": "completed"})
	}
	return c.NoContent(http.StatusNoContent)
}
