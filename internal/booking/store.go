// Package booking implements the reservation core: the transactional
// protocol that claims a vacant table, writes a ledger entry and links the
// two atomically, and the inverse cancel/complete protocol. Everything in
// this package operates on an injected Store so the web layer stays a thin
// caller and tests can run the protocol against an in-memory double.
package booking

import (
	"context"
	"errors"
	"time"
)

// ErrNoMatch is returned by Store lookups when nothing satisfies the
// criteria: no such branch, no vacant table for the slot and party size, or
// no ledger entry with the given id. The service maps it to FullyBooked or
// NotFound depending on the operation; it never surfaces to callers.
var ErrNoMatch = errors.New("no matching row")

// ErrSerialization marks a transient lock conflict (deadlock, lock wait
// timeout, serialization failure). The service retries the whole
// transaction a bounded number of times before giving up.
var ErrSerialization = errors.New("serialization conflict")

// ErrTransactionFailed is returned once a booking, cancel or complete
// transaction has failed for good: store errors, or lock conflicts that
// survived every retry. The transaction is fully rolled back in either
// case; callers report a generic failure and stay available.
var ErrTransactionFailed = errors.New("transaction failed")

// ErrNotAuthorized is returned when a non-customer account attempts to
// book. The check happens before any store access.
var ErrNotAuthorized = errors.New("not authorized to book")

// ErrInvalidPartySize is returned for a non-positive party size; the web
// layer validates this too, but the core refuses to claim a table for it
// regardless.
var ErrInvalidPartySize = errors.New("party size must be positive")

// Tx is the unit-of-work handle produced by Store.Begin. Exactly one of
// Commit or Rollback terminates it.
type Tx interface {
	Commit() error
	Rollback() error
}

// Store is the persistence contract of the reservation core. All row
// lookups that feed a later write must lock the rows they return so the
// check-then-act sequence stays atomic within the Tx; the SQL
// implementation uses SELECT ... FOR UPDATE for this.
//
// Methods return ErrNoMatch when no row qualifies, and wrap transient lock
// conflicts with ErrSerialization.
type Store interface {
	Begin(ctx context.Context) (Tx, error)

	// ResolveBranch maps a restaurant name and branch location to the
	// branch's composite key.
	ResolveBranch(ctx context.Context, tx Tx, restaurantName, branchLocation string) (restaurantID, branchID uint64, err error)

	// SelectVacantTable picks one vacant table of the branch whose slot
	// matches exactly and whose capacity covers the party, locking the row.
	// Tie-break among qualifying tables: smallest sufficient capacity, then
	// lowest table id.
	SelectVacantTable(ctx context.Context, tx Tx, restaurantID, branchID uint64, slot string, partySize int) (tableID uint64, err error)

	// InsertReservation writes a ledger entry and returns its generated id.
	InsertReservation(ctx context.Context, tx Tx, accountID uint64, ts time.Time, guestCount int) (reserveID uint64, err error)

	// OccupyTable marks the table occupied and points it at the ledger entry.
	OccupyTable(ctx context.Context, tx Tx, restaurantID, branchID, tableID, reserveID uint64) error

	// ReservationAccount returns the account that owns a ledger entry,
	// locking the entry for the remainder of the transaction.
	ReservationAccount(ctx context.Context, tx Tx, reserveID uint64) (accountID uint64, err error)

	// FreeTableByReservation releases the table occupied by the ledger
	// entry, reporting whether such a table existed.
	FreeTableByReservation(ctx context.Context, tx Tx, reserveID uint64) (freed bool, err error)

	// DeleteReservation removes the ledger entry, reporting whether it existed.
	DeleteReservation(ctx context.Context, tx Tx, reserveID uint64) (deleted bool, err error)

	// AddRewardPoints increments an account's loyalty balance.
	AddRewardPoints(ctx context.Context, tx Tx, accountID uint64, points int) error
}
