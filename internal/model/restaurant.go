package model

// Restaurant is the restaurant entity itself, distinct from its physical
// branches.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique restaurant name.
//  Cuisine     – type of food served (e.g. "Japanese").
//  Description – free-text description shown on listings.
type Restaurant struct {
	ID          uint64 // restaurants.id
	Name        string // restaurants.name
	Cuisine     string // restaurants.cuisine
	Description string // restaurants.description
}

// Branch is a physical location of a restaurant. Branch ids are assigned
// per restaurant (1, 2, ...) so the identity is the composite
// (RestaurantID, BranchID).
//
// Fields:
//  RestaurantID – restaurant this branch belongs to.
//  BranchID     – per-restaurant branch number.
//  Phone        – branch contact number (may be empty).
//  Address      – street address.
//  Location     – district/area label used on reservation forms.
type Branch struct {
	RestaurantID uint64 // branches.restaurant_id
	BranchID     uint64 // branches.branch_id
	Phone        string // branches.phone
	Address      string // branches.address
	Location     string // branches.location
}
