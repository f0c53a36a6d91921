// Package design: sentinel error set.
// All builders MUST return these sentinels and tests MUST check them via
// errors.Is. No builder panics on user input.

package design

import "errors"

var (
	// ErrNonPositiveCount is returned when participants or itemsPerLevel
	// is <= 0.
	ErrNonPositiveCount = errors.New("design: cardinality must be > 0")

	// ErrLevelCount is returned when a factor does not carry exactly two
	// levels. Only two-level factors are in scope for sum-to-zero coding.
	ErrLevelCount = errors.New("design: factor must have exactly two levels")

	// ErrEmptyName is returned when a factor, level or grouping name is the
	// empty string, or when two levels of one factor collide.
	ErrEmptyName = errors.New("design: empty or duplicate name")

	// ErrDuplicateFactor is returned when two factors share a name.
	ErrDuplicateFactor = errors.New("design: duplicate factor name")

	// ErrUnknownFactor is returned when an option references a factor that
	// was not supplied to Build.
	ErrUnknownFactor = errors.New("design: unknown factor name")

	// ErrDimensionMismatch is returned when nesting levels and probabilities
	// disagree in length or are empty.
	ErrDimensionMismatch = errors.New("design: dimension mismatch")

	// ErrNilTable is returned when a nil table is passed where a built one
	// is required.
	ErrNilTable = errors.New("design: nil table")

	// ErrNilSource is returned when a nil variate source is passed to an
	// operation that draws.
	ErrNilSource = errors.New("design: nil variate source")
)
