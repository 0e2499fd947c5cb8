package repository

import (
	"context"
	"database/sql"
	"errors"
)

// RatingRepo stores customer ratings and the owner responses attached to
// them.
type RatingRepo struct{ DB *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{DB: db} }

var ErrInvalidScore = errors.New("score must be between 1 and 5")

// Create inserts a rating for a branch and returns its id.
func (r *RatingRepo) Create(ctx context.Context, userID, restaurantID, branchID uint64, score int, comment string) (uint64, error) {
	if score < 1 || score > 5 {
		return 0, ErrInvalidScore
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO ratings (uid, restaurant_id, branch_id, score, comment)
		 VALUES (?,?,?,?,?)`,
		userID, restaurantID, branchID, score, comment)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Respond attaches an owner's reply to a rating. The owner must operate
// the branch the rating was left on; otherwise ErrForbidden. A rating can
// hold one response, later calls overwrite it.
func (r *RatingRepo) Respond(ctx context.Context, ratingID, ownerID uint64, message string) error {
	const check = `SELECT 1
	               FROM ratings rt
	               JOIN owners o ON o.restaurant_id = rt.restaurant_id AND o.branch_id = rt.branch_id
	               WHERE rt.id = ? AND o.uid = ?
	               LIMIT 1`
	var one int
	err := r.DB.QueryRowContext(ctx, check, ratingID, ownerID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrForbidden
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO responses (rating_id, uid, body)
		 VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE body = VALUES(body)`,
		ratingID, ownerID, message)
	return err
}
