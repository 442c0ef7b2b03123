// Package clock abstracts the current time so that code deriving time-based
// one-time passwords can be tested at fixed instants.
package clock
