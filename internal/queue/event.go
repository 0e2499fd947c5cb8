// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a table is successfully
// booked. It carries enough detail for downstream consumers to log or
// notify without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	Restaurant    string `json:"restaurant"`
	Location      string `json:"location"`
	Slot          string `json:"slot"`
	GuestCount    int    `json:"guest_count"`
	ConfirmedAt   string `json:"confirmed_at"`
}
