// Package repository contains the data access layer: one small repository
// per relation, all speaking parameterized SQL against a shared *sql.DB.
// This file defines sentinel errors reused across repositories so handlers
// can translate failures into HTTP responses with errors.Is.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as an owner responding to a rating of
// somebody else's branch. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned by user creation when the email is taken.
// Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrRestaurantExists is returned when registering a restaurant whose name
// is already present; the caller should add a branch instead.
var ErrRestaurantExists = errors.New("restaurant already exists")

// ErrInsufficientPoints is returned by incentive redemption when the
// customer's loyalty balance does not cover the incentive's cost.
var ErrInsufficientPoints = errors.New("insufficient reward points")
