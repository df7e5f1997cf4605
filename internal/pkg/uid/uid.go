// Package uid provides the identifier generators used across modules:
// snowflake int64 IDs for identity rows, UUIDs for civic records and request
// correlation, and opaque hex object IDs for bearer-style tokens.
package uid

// NumberID generates int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
