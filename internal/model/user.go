package model

import "time"

// User represents a row in the `users` table. Every account is either a
// CUSTOMER or an OWNER; the role decides which endpoints the account may
// call (owners are rejected from booking outright). The json tags are
// omitted because repositories use these structs internally; handlers
// define their own response types.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Name         – display name shown on ratings and owner reservation lists.
//  Role         – CUSTOMER or OWNER.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Name         string    // users.name
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Customer extends a user with contact details and the loyalty balance.
// RewardPoints starts at zero and is mutated only by the completion
// transaction and by incentive redemption.
//
// Fields:
//  UID          – user this record belongs to (primary key).
//  Address      – postal address supplied at signup.
//  Phone        – contact number supplied at signup.
//  RewardPoints – current loyalty point balance.
type Customer struct {
	UID          uint64 // customers.uid
	Address      string // customers.address
	Phone        string // customers.phone
	RewardPoints int    // customers.reward_points
}

// Owner links a user to the restaurant branch they operate.
//
// Fields:
//  UID          – owning user.
//  RestaurantID – restaurant operated by the user.
//  BranchID     – branch of that restaurant.
type Owner struct {
	UID          uint64 // owners.uid
	RestaurantID uint64 // owners.restaurant_id
	BranchID     uint64 // owners.branch_id
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
