package repository

import (
	"context"
	"database/sql"
)

// IncentiveRepo lists the reward catalogue and redeems items against a
// customer's point balance.
type IncentiveRepo struct{ DB *sql.DB }

func NewIncentiveRepo(db *sql.DB) *IncentiveRepo { return &IncentiveRepo{DB: db} }

// IncentiveItem is one catalogue entry as shown on the rewards page.
type IncentiveItem struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	CostPoints  int    `json:"cost_points"`
}

// List returns the catalogue, cheapest first.
func (r *IncentiveRepo) List(ctx context.Context) ([]IncentiveItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, kind, COALESCE(description, ''), cost_points
		 FROM incentives ORDER BY cost_points, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]IncentiveItem, 0)
	for rows.Next() {
		var in IncentiveItem
		if err := rows.Scan(&in.ID, &in.Name, &in.Kind, &in.Description, &in.CostPoints); err != nil {
			return nil, err
		}
		items = append(items, in)
	}
	return items, rows.Err()
}

// Redeem deducts the incentive's cost from the customer's balance and
// records the redemption. The balance row is locked for the duration so
// two concurrent redemptions cannot both spend the same points.
// Returns the remaining balance, or ErrInsufficientPoints.
func (r *IncentiveRepo) Redeem(ctx context.Context, userID, incentiveID uint64) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var cost int
	err = tx.QueryRowContext(ctx,
		"SELECT cost_points FROM incentives WHERE id=?", incentiveID).Scan(&cost)
	if err != nil {
		return 0, err
	}

	var balance int
	err = tx.QueryRowContext(ctx,
		"SELECT reward_points FROM customers WHERE uid=? FOR UPDATE", userID).Scan(&balance)
	if err != nil {
		return 0, err
	}
	if balance < cost {
		return balance, ErrInsufficientPoints
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE customers SET reward_points = reward_points - ? WHERE uid=?", cost, userID); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO redemptions (uid, incentive_id) VALUES (?,?)", userID, incentiveID); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return balance - cost, nil
}
