package model

import "time"

// Rating is a customer's score for a restaurant branch.
//
// Fields:
//  ID           – primary key identifier.
//  UID          – customer who rated.
//  RestaurantID – rated restaurant.
//  BranchID     – rated branch.
//  Score        – 1 to 5.
//  Comment      – optional free-text comment.
//  CreatedAt    – timestamp of creation.
type Rating struct {
	ID           uint64    // ratings.id
	UID          uint64    // ratings.uid
	RestaurantID uint64    // ratings.restaurant_id
	BranchID     uint64    // ratings.branch_id
	Score        int       // ratings.score
	Comment      string    // ratings.comment
	CreatedAt    time.Time // ratings.created_at
}

// Response is an owner's reply to a rating, at most one per rating.
type Response struct {
	RatingID  uint64    // responses.rating_id
	UID       uint64    // responses.uid
	Body      string    // responses.body
	CreatedAt time.Time // responses.created_at
}
