package repository

import (
	"context"
	"database/sql"
)

// TableRepo reads the availability store for display purposes: the
// reservation form's slot and party-size options. All mutation of table
// occupancy happens in the booking package, never here.
type TableRepo struct{ DB *sql.DB }

func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db} }

// DistinctSlots returns every serving slot defined across all tables, in
// ascending order ("11:30", "18:00", ...).
func (r *TableRepo) DistinctSlots(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT TIME_FORMAT(time, '%H:%i') FROM tables ORDER BY 1`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// DistinctSeats returns every table capacity that exists, ascending.
func (r *TableRepo) DistinctSeats(ctx context.Context) ([]int, error) {
	const q = `SELECT DISTINCT seats FROM tables ORDER BY seats`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]int, 0)
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		seats = append(seats, n)
	}
	return seats, rows.Err()
}
