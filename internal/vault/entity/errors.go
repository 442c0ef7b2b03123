package entity

import "errors"

var (
	// ErrInvalidDescriptor is returned when a service cannot be enrolled as
	// given. It may wrap an otp error naming the offending parameter.
	ErrInvalidDescriptor = errors.New("invalid service descriptor")
	// ErrNotFound is returned for ids absent from the catalog.
	ErrNotFound = errors.New("service not found")
	// ErrIDExhausted is returned when the id generator keeps colliding.
	ErrIDExhausted = errors.New("could not allocate a unique service id")
)
