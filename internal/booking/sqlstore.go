package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// SQLStore implements Store on a MySQL database handle. Row locks come
// from SELECT ... FOR UPDATE inside the caller's transaction, which is
// what makes the select-then-occupy sequence safe under concurrency: a
// second transaction selecting the same table blocks until the first
// commits, then no longer sees it as vacant.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore returns a Store backed by the given database.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

type sqlTx struct{ *sql.Tx }

func (s *SQLStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("begin", err)
	}
	return sqlTx{tx}, nil
}

func (s *SQLStore) ResolveBranch(ctx context.Context, tx Tx, restaurantName, branchLocation string) (uint64, uint64, error) {
	const q = `SELECT b.restaurant_id, b.branch_id
	           FROM restaurants r
	           JOIN branches b ON b.restaurant_id = r.id
	           WHERE r.name = ? AND b.location = ?
	           LIMIT 1`
	var restaurantID, branchID uint64
	err := tx.(sqlTx).QueryRowContext(ctx, q, restaurantName, branchLocation).Scan(&restaurantID, &branchID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrNoMatch
	}
	if err != nil {
		return 0, 0, classify("resolve branch", err)
	}
	return restaurantID, branchID, nil
}

func (s *SQLStore) SelectVacantTable(ctx context.Context, tx Tx, restaurantID, branchID uint64, slot string, partySize int) (uint64, error) {
	// Smallest sufficient table first, then lowest id, so the pick is
	// deterministic and big tables stay free for big parties. FOR UPDATE
	// locks the chosen row until the transaction ends.
	const q = `SELECT table_id FROM tables
	           WHERE restaurant_id = ? AND branch_id = ? AND time = ?
	             AND seats >= ? AND vacant = TRUE
	           ORDER BY seats ASC, table_id ASC
	           LIMIT 1
	           FOR UPDATE`
	var tableID uint64
	err := tx.(sqlTx).QueryRowContext(ctx, q, restaurantID, branchID, slot, partySize).Scan(&tableID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoMatch
	}
	if err != nil {
		return 0, classify("select vacant table", err)
	}
	return tableID, nil
}

func (s *SQLStore) InsertReservation(ctx context.Context, tx Tx, accountID uint64, ts time.Time, guestCount int) (uint64, error) {
	const q = `INSERT INTO reserves (uid, ts, guest_count) VALUES (?, ?, ?)`
	res, err := tx.(sqlTx).ExecContext(ctx, q, accountID, ts, guestCount)
	if err != nil {
		return 0, classify("insert reservation", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, classify("insert reservation", err)
	}
	return uint64(id), nil
}

func (s *SQLStore) OccupyTable(ctx context.Context, tx Tx, restaurantID, branchID, tableID, reserveID uint64) error {
	const q = `UPDATE tables SET vacant = FALSE, reserve_id = ?
	           WHERE restaurant_id = ? AND branch_id = ? AND table_id = ?`
	if _, err := tx.(sqlTx).ExecContext(ctx, q, reserveID, restaurantID, branchID, tableID); err != nil {
		return classify("occupy table", err)
	}
	return nil
}

func (s *SQLStore) ReservationAccount(ctx context.Context, tx Tx, reserveID uint64) (uint64, error) {
	const q = `SELECT uid FROM reserves WHERE reserve_id = ? FOR UPDATE`
	var accountID uint64
	err := tx.(sqlTx).QueryRowContext(ctx, q, reserveID).Scan(&accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoMatch
	}
	if err != nil {
		return 0, classify("reservation account", err)
	}
	return accountID, nil
}

func (s *SQLStore) FreeTableByReservation(ctx context.Context, tx Tx, reserveID uint64) (bool, error) {
	const q = `UPDATE tables SET vacant = TRUE, reserve_id = NULL WHERE reserve_id = ?`
	res, err := tx.(sqlTx).ExecContext(ctx, q, reserveID)
	if err != nil {
		return false, classify("free table", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify("free table", err)
	}
	return n > 0, nil
}

func (s *SQLStore) DeleteReservation(ctx context.Context, tx Tx, reserveID uint64) (bool, error) {
	const q = `DELETE FROM reserves WHERE reserve_id = ?`
	res, err := tx.(sqlTx).ExecContext(ctx, q, reserveID)
	if err != nil {
		return false, classify("delete reservation", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify("delete reservation", err)
	}
	return n > 0, nil
}

func (s *SQLStore) AddRewardPoints(ctx context.Context, tx Tx, accountID uint64, points int) error {
	const q = `UPDATE customers SET reward_points = reward_points + ? WHERE uid = ?`
	if _, err := tx.(sqlTx).ExecContext(ctx, q, points, accountID); err != nil {
		return classify("add reward points", err)
	}
	return nil
}

// MySQL error numbers that mark a transient lock conflict.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// classify wraps driver errors so the service can tell retryable lock
// conflicts apart from hard failures.
func classify(op string, err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlErrDeadlock || me.Number == mysqlErrLockWaitTimeout) {
		return fmt.Errorf("%s: %w: %v", op, ErrSerialization, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
