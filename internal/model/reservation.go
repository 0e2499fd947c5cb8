package model

import "time"

// Reservation is a reservation ledger entry: the durable record of one
// confirmed booking. Exactly one table references it while occupied.
// Both cancellation and completion remove the row after freeing the
// table, so a ledger entry exists only for live reservations.
//
// Fields:
//  ReserveID  – system-generated sequential identifier.
//  UID        – account that made the reservation.
//  Timestamp  – server clock at creation, second precision.
//  GuestCount – number of guests; never exceeds the matched table's seats.
type Reservation struct {
	ReserveID  uint64    // reserves.reserve_id
	UID        uint64    // reserves.uid
	Timestamp  time.Time // reserves.ts
	GuestCount int       // reserves.guest_count
}
