package repository

import (
	"context"
	"database/sql"
	"time"
)

// BranchRepo reads branch-level views: the branch directory of a
// restaurant and the ratings left for a branch.
type BranchRepo struct{ DB *sql.DB }

func NewBranchRepo(db *sql.DB) *BranchRepo { return &BranchRepo{DB: db} }

// BranchDetail is a branch row as shown on the restaurant page.
type BranchDetail struct {
	RestaurantID uint64 `json:"restaurant_id"`
	BranchID     uint64 `json:"branch_id"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Location     string `json:"location"`
}

// ListByRestaurantName returns all branches of the named restaurant. An
// unknown name yields an empty slice, not an error.
func (r *BranchRepo) ListByRestaurantName(ctx context.Context, name string) ([]BranchDetail, error) {
	const q = `SELECT b.restaurant_id, b.branch_id,
	                  COALESCE(NULLIF(b.phone, ''), 'No contact number available!'),
	                  b.address, b.location
	           FROM branches b
	           JOIN restaurants r ON r.id = b.restaurant_id
	           WHERE r.name = ?
	           ORDER BY b.branch_id`
	rows, err := r.DB.QueryContext(ctx, q, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := make([]BranchDetail, 0)
	for rows.Next() {
		var b BranchDetail
		if err := rows.Scan(&b.RestaurantID, &b.BranchID, &b.Phone, &b.Address, &b.Location); err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// BranchRating is a rating shown on the branch page: the customer's name,
// the score and comment, and the owner's response when one exists.
type BranchRating struct {
	ID        uint64    `json:"id"`
	Customer  string    `json:"customer"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Response  *string   `json:"response,omitempty"`
}

// RatingsByBranch returns all ratings for one branch, newest first.
func (r *BranchRepo) RatingsByBranch(ctx context.Context, restaurantID, branchID uint64) ([]BranchRating, error) {
	const q = `SELECT rt.id, u.name, rt.score, COALESCE(rt.comment, ''), rt.created_at, rp.body
	           FROM ratings rt
	           JOIN users u ON u.id = rt.uid
	           LEFT JOIN responses rp ON rp.rating_id = rt.id
	           WHERE rt.restaurant_id = ? AND rt.branch_id = ?
	           ORDER BY rt.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, q, restaurantID, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]BranchRating, 0)
	for rows.Next() {
		var (
			br   BranchRating
			resp sql.NullString
		)
		if err := rows.Scan(&br.ID, &br.Customer, &br.Score, &br.Comment, &br.CreatedAt, &resp); err != nil {
			return nil, err
		}
		if resp.Valid {
			br.Response = &resp.String
		}
		ratings = append(ratings, br)
	}
	return ratings, rows.Err()
}
