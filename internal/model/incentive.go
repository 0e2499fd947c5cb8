package model

import "time"

// Incentive is a reward redeemable with loyalty points. Kind is either
// PRIZE or DISCOUNT; both are listed together on the rewards page.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name.
//  Kind        – PRIZE or DISCOUNT.
//  Description – what the customer gets.
//  CostPoints  – points deducted on redemption.
type Incentive struct {
	ID          uint64 // incentives.id
	Name        string // incentives.name
	Kind        string // incentives.kind
	Description string // incentives.description
	CostPoints  int    // incentives.cost_points
}

// Redemption records a customer exchanging points for an incentive.
type Redemption struct {
	ID          uint64    // redemptions.id
	UID         uint64    // redemptions.uid
	IncentiveID uint64    // redemptions.incentive_id
	RedeemedAt  time.Time // redemptions.redeemed_at
}
