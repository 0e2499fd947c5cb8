package repository

import (
	"context"
	"database/sql"
)

// RestaurantRepo provides the restaurant directory: listing with average
// ratings, name search, and owner-driven creation of restaurants and
// branches.
type RestaurantRepo struct{ DB *sql.DB }

func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{DB: db} }

// RestaurantListing is a directory row: the restaurant plus its average
// rating across all branches. AvgScore is nil when nobody has rated it yet.
type RestaurantListing struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Cuisine     string   `json:"cuisine"`
	Description string   `json:"description"`
	AvgScore    *float64 `json:"avg_score,omitempty"`
}

// List returns all restaurants with their average rating, ordered by name.
func (r *RestaurantRepo) List(ctx context.Context) ([]RestaurantListing, error) {
	const q = `SELECT r.id, r.name, r.cuisine, r.description, AVG(rt.score)
	           FROM restaurants r
	           LEFT JOIN ratings rt ON rt.restaurant_id = r.id
	           GROUP BY r.id, r.name, r.cuisine, r.description
	           ORDER BY r.name`
	return r.scanListings(ctx, q)
}

// Search returns restaurants whose name contains the query,
// case-insensitively, with the same shape as List.
func (r *RestaurantRepo) Search(ctx context.Context, query string) ([]RestaurantListing, error) {
	const q = `SELECT r.id, r.name, r.cuisine, r.description, AVG(rt.score)
	           FROM restaurants r
	           LEFT JOIN ratings rt ON rt.restaurant_id = r.id
	           WHERE r.name LIKE CONCAT('%', ?, '%')
	           GROUP BY r.id, r.name, r.cuisine, r.description
	           ORDER BY r.name`
	return r.scanListings(ctx, q, query)
}

func (r *RestaurantRepo) scanListings(ctx context.Context, q string, args ...interface{}) ([]RestaurantListing, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]RestaurantListing, 0)
	for rows.Next() {
		var (
			l   RestaurantListing
			avg sql.NullFloat64
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Cuisine, &l.Description, &avg); err != nil {
			return nil, err
		}
		if avg.Valid {
			l.AvgScore = &avg.Float64
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// CreateWithBranch registers a restaurant (unless the name exists already)
// and adds a branch to it, linking the owner to the new branch, in one
// transaction of its own. See CreateWithBranchTx for the semantics.
func (r *RestaurantRepo) CreateWithBranch(ctx context.Context, ownerUID uint64, name, cuisine, description, phone, address, location string, newOnly bool) (restaurantID, branchID uint64, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rid, bid, err := r.CreateWithBranchTx(ctx, tx, ownerUID, name, cuisine, description, phone, address, location, newOnly)
	if err != nil {
		return 0, 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	committed = true
	return rid, bid, nil
}

// CreateWithBranchTx is CreateWithBranch within an existing transaction,
// used by owner registration where the user row is created in the same
// unit. Branch ids are assigned per restaurant as count+1; the restaurant
// row is locked while counting so concurrent branch additions cannot
// collide. When the restaurant name is taken and newOnly is set,
// ErrRestaurantExists is returned; otherwise the branch is appended to the
// existing restaurant.
func (r *RestaurantRepo) CreateWithBranchTx(ctx context.Context, tx *sql.Tx, ownerUID uint64, name, cuisine, description, phone, address, location string, newOnly bool) (restaurantID, branchID uint64, err error) {
	var rid uint64
	selErr := tx.QueryRowContext(ctx,
		"SELECT id FROM restaurants WHERE name=? FOR UPDATE", name).Scan(&rid)
	switch {
	case selErr == sql.ErrNoRows:
		res, err := tx.ExecContext(ctx,
			"INSERT INTO restaurants (name, cuisine, description) VALUES (?,?,?)",
			name, cuisine, description)
		if err != nil {
			return 0, 0, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, 0, err
		}
		rid = uint64(id)
	case selErr != nil:
		return 0, 0, selErr
	case newOnly:
		return 0, 0, ErrRestaurantExists
	}

	var bid uint64
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*)+1 FROM branches WHERE restaurant_id=?", rid).Scan(&bid); err != nil {
		return 0, 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO branches (restaurant_id, branch_id, phone, address, location) VALUES (?,?,?,?,?)",
		rid, bid, phone, address, location); err != nil {
		return 0, 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO owners (uid, restaurant_id, branch_id) VALUES (?,?,?)",
		ownerUID, rid, bid); err != nil {
		return 0, 0, err
	}
	return rid, bid, nil
}
