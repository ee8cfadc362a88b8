// Package uid provides ID generators behind small interfaces so callers can
// swap deterministic fakes in tests.
package uid

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates numeric identifiers.
type NumberID interface {
	Generate() int64
}
