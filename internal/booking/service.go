package booking

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// BookOutcome distinguishes the two user-visible results of a booking
// attempt that went through the store. Authorization and store failures
// are reported as errors instead.
type BookOutcome int

const (
	// BookConfirmed means a table was claimed and a ledger entry written.
	BookConfirmed BookOutcome = iota
	// BookFullyBooked means no vacant table matched; nothing was mutated.
	BookFullyBooked
)

// BookResult carries the outcome of Book. ReserveID is set only when
// Outcome is BookConfirmed.
type BookResult struct {
	Outcome   BookOutcome
	ReserveID uint64
}

// CancelOutcome is the result of Cancel and Complete.
type CancelOutcome int

const (
	// CancelOK means the table was freed and the ledger entry removed.
	CancelOK CancelOutcome = iota
	// CancelNotFound means no ledger entry with that id exists; the call
	// was a no-op.
	CancelNotFound
)

// BookRequest is the inbound booking request as resolved by the web layer:
// the authenticated account, its capability, and the user's criteria.
type BookRequest struct {
	AccountID      uint64
	IsCustomer     bool
	RestaurantName string
	BranchLocation string
	Slot           string // "HH:MM", must match a defined serving slot exactly
	PartySize      int
}

// Config holds the booking policy knobs.
type Config struct {
	// CompletionReward is the fixed number of points granted when a
	// reservation completes.
	CompletionReward int
	// RewardOnBooking grants CompletionReward already when a booking
	// commits. Off by default; completion-time reward is canonical.
	RewardOnBooking bool
	// MaxAttempts bounds how often a transaction is retried after a
	// serialization conflict before ErrTransactionFailed is returned.
	MaxAttempts int
}

// Service coordinates the booking and cancellation transactions. It is the
// sole mutator of table occupancy and the reservation ledger; all writes
// happen inside a single Store transaction per call.
type Service struct {
	store Store
	cfg   Config
	now   func() time.Time
}

// NewService constructs a Service around the given store. A nil store
// panics; missing config values fall back to 10 points, no booking-time
// reward, 3 attempts.
func NewService(store Store, cfg Config) *Service {
	if store == nil {
		panic("nil store passed to NewService")
	}
	if cfg.CompletionReward == 0 {
		cfg.CompletionReward = 10
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	return &Service{store: store, cfg: cfg, now: time.Now}
}

// Book claims one vacant table matching the request inside a single
// transaction and records the reservation in the ledger. Concurrent
// bookers racing for the last matching table are serialized by the store's
// row locks: exactly one commits, the others see FullyBooked (or a
// different table, if one remains).
func (s *Service) Book(ctx context.Context, req BookRequest) (BookResult, error) {
	if !req.IsCustomer {
		return BookResult{}, ErrNotAuthorized
	}
	if req.PartySize < 1 {
		return BookResult{}, ErrInvalidPartySize
	}

	var (
		res BookResult
		err error
	)
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		res, err = s.bookOnce(ctx, req)
		if err == nil || !errors.Is(err, ErrSerialization) {
			return res, err
		}
	}
	return BookResult{}, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
}

func (s *Service) bookOnce(ctx context.Context, req BookRequest) (BookResult, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return BookResult{}, s.failed(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	restaurantID, branchID, err := s.store.ResolveBranch(ctx, tx, req.RestaurantName, req.BranchLocation)
	if errors.Is(err, ErrNoMatch) {
		// Unknown restaurant or branch rejects the same way as no
		// availability: nothing to claim.
		return BookResult{Outcome: BookFullyBooked}, nil
	}
	if err != nil {
		return BookResult{}, s.failed(err)
	}

	tableID, err := s.store.SelectVacantTable(ctx, tx, restaurantID, branchID, req.Slot, req.PartySize)
	if errors.Is(err, ErrNoMatch) {
		return BookResult{Outcome: BookFullyBooked}, nil
	}
	if err != nil {
		return BookResult{}, s.failed(err)
	}

	reserveID, err := s.store.InsertReservation(ctx, tx, req.AccountID, s.now().UTC().Truncate(time.Second), req.PartySize)
	if err != nil {
		return BookResult{}, s.failed(err)
	}
	if err := s.store.OccupyTable(ctx, tx, restaurantID, branchID, tableID, reserveID); err != nil {
		return BookResult{}, s.failed(err)
	}
	if s.cfg.RewardOnBooking {
		if err := s.store.AddRewardPoints(ctx, tx, req.AccountID, s.cfg.CompletionReward); err != nil {
			return BookResult{}, s.failed(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return BookResult{}, s.failed(err)
	}
	committed = true
	return BookResult{Outcome: BookConfirmed, ReserveID: reserveID}, nil
}

// Cancel frees the table occupied by the ledger entry and deletes the
// entry. A second Cancel for the same id finds nothing and reports
// CancelNotFound without mutating anything. No points are granted.
func (s *Service) Cancel(ctx context.Context, reserveID uint64) (CancelOutcome, error) {
	return s.release(ctx, reserveID, false)
}

// Complete is Cancel plus the loyalty reward: after freeing the table and
// removing the ledger entry it credits the reserving account with the
// fixed completion reward, all in the same transaction.
func (s *Service) Complete(ctx context.Context, reserveID uint64) (CancelOutcome, error) {
	return s.release(ctx, reserveID, true)
}

func (s *Service) release(ctx context.Context, reserveID uint64, reward bool) (CancelOutcome, error) {
	var (
		out CancelOutcome
		err error
	)
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		out, err = s.releaseOnce(ctx, reserveID, reward)
		if err == nil || !errors.Is(err, ErrSerialization) {
			return out, err
		}
	}
	return CancelNotFound, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
}

func (s *Service) releaseOnce(ctx context.Context, reserveID uint64, reward bool) (CancelOutcome, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return CancelNotFound, s.failed(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// The ledger entry is the authority on whether the reservation exists.
	// Looking it up first also locks it, so two concurrent releases of the
	// same id cannot both proceed.
	accountID, err := s.store.ReservationAccount(ctx, tx, reserveID)
	if errors.Is(err, ErrNoMatch) {
		return CancelNotFound, nil
	}
	if err != nil {
		return CancelNotFound, s.failed(err)
	}

	// Free before delete: the table's back-reference points at the ledger row.
	if _, err := s.store.FreeTableByReservation(ctx, tx, reserveID); err != nil {
		return CancelNotFound, s.failed(err)
	}
	if _, err := s.store.DeleteReservation(ctx, tx, reserveID); err != nil {
		return CancelNotFound, s.failed(err)
	}
	if reward {
		if err := s.store.AddRewardPoints(ctx, tx, accountID, s.cfg.CompletionReward); err != nil {
			return CancelNotFound, s.failed(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return CancelNotFound, s.failed(err)
	}
	committed = true
	return CancelOK, nil
}

// failed passes serialization conflicts through untouched (the retry loops
// key on them) and wraps everything else as ErrTransactionFailed.
func (s *Service) failed(err error) error {
	if errors.Is(err, ErrSerialization) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
}
