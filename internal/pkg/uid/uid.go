// Package uid generates identifiers: snowflake numbers for accounts and
// time-ordered UUIDs for enrolled services and token IDs.
package uid

// NumberID generates unique int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
