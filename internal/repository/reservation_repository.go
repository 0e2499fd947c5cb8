package repository

import (
	"context"
	"database/sql"
	"time"
)

// ReservationRepo reads the reservation ledger for display: a customer's
// upcoming reservations and the occupied tables of an owner's branch.
// Writing the ledger is the booking package's job.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// CustomerReservation is one row of GET /v1/my-reservations.
type CustomerReservation struct {
	ReserveID  uint64    `json:"reserve_id"`
	Restaurant string    `json:"restaurant"`
	Address    string    `json:"address"`
	Slot       string    `json:"slot"`
	GuestCount int       `json:"guest_count"`
	BookedAt   time.Time `json:"booked_at"`
}

// ListByUser returns the user's reservations made today or later, ordered
// by slot then restaurant and address.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]CustomerReservation, error) {
	const q = `SELECT rv.reserve_id, rs.name, b.address,
	                  TIME_FORMAT(t.time, '%H:%i'), rv.guest_count, rv.ts
	           FROM reserves rv
	           JOIN tables t      ON t.reserve_id = rv.reserve_id
	           JOIN restaurants rs ON rs.id = t.restaurant_id
	           JOIN branches b    ON b.restaurant_id = t.restaurant_id AND b.branch_id = t.branch_id
	           WHERE rv.uid = ? AND rv.ts >= CURDATE()
	           ORDER BY t.time, rs.name, b.address`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]CustomerReservation, 0)
	for rows.Next() {
		var cr CustomerReservation
		if err := rows.Scan(&cr.ReserveID, &cr.Restaurant, &cr.Address, &cr.Slot, &cr.GuestCount, &cr.BookedAt); err != nil {
			return nil, err
		}
		items = append(items, cr)
	}
	return items, rows.Err()
}

// OwnerReservation is one row of the owner's upcoming-reservations view:
// an occupied table of a branch the owner operates, with the guest's name.
type OwnerReservation struct {
	ReserveID  uint64 `json:"reserve_id"`
	Location   string `json:"location"`
	Guest      string `json:"guest"`
	Slot       string `json:"slot"`
	GuestCount int    `json:"guest_count"`
	TableID    uint64 `json:"table_id"`
	Seats      int    `json:"seats"`
}

// ListByOwner returns all live reservations on branches owned by the user,
// ordered by branch location.
func (r *ReservationRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]OwnerReservation, error) {
	const q = `SELECT rv.reserve_id, b.location, u.name,
	                  TIME_FORMAT(t.time, '%H:%i'), rv.guest_count, t.table_id, t.seats
	           FROM owners o
	           JOIN branches b ON b.restaurant_id = o.restaurant_id AND b.branch_id = o.branch_id
	           JOIN tables t   ON t.restaurant_id = b.restaurant_id AND t.branch_id = b.branch_id
	           JOIN reserves rv ON rv.reserve_id = t.reserve_id
	           JOIN users u    ON u.id = rv.uid
	           WHERE o.uid = ? AND t.vacant = FALSE
	           ORDER BY b.location, t.time, t.table_id`
	rows, err := r.DB.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OwnerReservation, 0)
	for rows.Next() {
		var or OwnerReservation
		if err := rows.Scan(&or.ReserveID, &or.Location, &or.Guest, &or.Slot, &or.GuestCount, &or.TableID, &or.Seats); err != nil {
			return nil, err
		}
		items = append(items, or)
	}
	return items, rows.Err()
}

// BelongsToUser reports whether the ledger entry was created by the user.
// Customers may only cancel their own reservations.
func (r *ReservationRepo) BelongsToUser(ctx context.Context, reserveID, userID uint64) (bool, error) {
	var owner uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT uid FROM reserves WHERE reserve_id=?", reserveID).Scan(&owner)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return owner == userID, nil
}

// ManagedByOwner reports whether the ledger entry occupies a table on a
// branch the owner operates. Owners may only cancel or complete
// reservations at their own branches.
func (r *ReservationRepo) ManagedByOwner(ctx context.Context, reserveID, ownerID uint64) (bool, error) {
	const q = `SELECT 1
	           FROM tables t
	           JOIN owners o ON o.restaurant_id = t.restaurant_id AND o.branch_id = t.branch_id
	           WHERE t.reserve_id = ? AND o.uid = ?
	           LIMIT 1`
	var one int
	err := r.DB.QueryRowContext(ctx, q, reserveID, ownerID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
