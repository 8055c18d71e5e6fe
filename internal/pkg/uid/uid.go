// Package uid generates identifiers: snowflake int64s for primary keys and
// UUIDs for correlation and token IDs.
package uid

// NumberID generates ordered numeric identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}
