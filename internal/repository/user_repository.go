package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/arvandh/restaurant-reservation/internal/utils"
)

// UserRepo persists accounts. A CUSTOMER account always has a companion
// row in `customers` (contact details plus the loyalty balance); writing
// both rows happens in one transaction so a half-created account can never
// be observed.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// CreateCustomer inserts a user with the CUSTOMER role and its customers
// row with a zero point balance. Returns the new user id.
func (r *UserRepo) CreateCustomer(ctx context.Context, email, password, name, address, phone string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}

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

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, role) VALUES (?,?,?,'CUSTOMER')",
		email, hash, name)
	if err != nil {
		return 0, dupToEmailExists(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO customers (uid, address, phone, reward_points) VALUES (?,?,?,0)",
		id, address, phone); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// CreateOwnerTx inserts a user with the OWNER role inside an existing
// transaction. The caller links the owner to a branch (see
// RestaurantRepo.CreateWithBranch) and commits.
func (r *UserRepo) CreateOwnerTx(ctx context.Context, tx *sql.Tx, email, password, name string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, role) VALUES (?,?,?,'OWNER')",
		email, hash, name)
	if err != nil {
		return 0, dupToEmailExists(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindByEmail returns id, password hash and role for login.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (uint64, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var (
		id   uint64
		hash string
		role string
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, password_hash, role FROM users WHERE email=? LIMIT 1",
		email).Scan(&id, &hash, &role)
	if err != nil {
		return 0, "", "", err
	}
	return id, hash, role, nil
}

// Profile is the account view returned by GET /v1/profile: the user row
// plus, for customers, contact details and the loyalty balance.
type Profile struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Address      *string   `json:"address,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	RewardPoints *int      `json:"reward_points,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// GetProfile loads a user's profile. Customer fields stay nil for owners.
func (r *UserRepo) GetProfile(ctx context.Context, userID uint64) (*Profile, error) {
	const q = `SELECT u.id, u.email, u.name, u.role, u.created_at,
	                  c.address, c.phone, c.reward_points
	           FROM users u
	           LEFT JOIN customers c ON c.uid = u.id
	           WHERE u.id = ?`
	var (
		p       Profile
		address sql.NullString
		phone   sql.NullString
		points  sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx, q, userID).Scan(
		&p.ID, &p.Email, &p.Name, &p.Role, &p.CreatedAt,
		&address, &phone, &points,
	)
	if err != nil {
		return nil, err
	}
	if address.Valid {
		p.Address = &address.String
	}
	if phone.Valid {
		p.Phone = &phone.String
	}
	if points.Valid {
		n := int(points.Int64)
		p.RewardPoints = &n
	}
	return &p, nil
}

// Delete removes the account; dependent rows (customers, owners, tokens,
// ratings) go with it via ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", userID)
	return err
}

// dupToEmailExists maps MySQL duplicate-key (1062) on the email column to
// the sentinel the handlers expect.
func dupToEmailExists(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return ErrEmailExists
	}
	return err
}
