// Package variate: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the
// variate package. All operations MUST return these sentinels and tests
// MUST check them via errors.Is. No operation panics on user input.

package variate

import "errors"

var (
	// ErrNonPositiveCount is returned when a draw count n is <= 0.
	ErrNonPositiveCount = errors.New("variate: draw count must be > 0")

	// ErrInvalidStdDev is returned when a standard deviation is negative,
	// NaN or infinite. Zero is allowed and yields degenerate (constant) draws.
	ErrInvalidStdDev = errors.New("variate: invalid standard deviation")

	// ErrInvalidProbability is returned when a probability lies outside [0,1]
	// or is NaN.
	ErrInvalidProbability = errors.New("variate: probability out of [0,1]")

	// ErrProbabilitiesSum is returned when a categorical probability vector
	// does not sum to 1 within tolerance.
	ErrProbabilitiesSum = errors.New("variate: probabilities must sum to 1")

	// ErrDimensionMismatch is returned when a mean vector and covariance
	// matrix disagree on dimension, or a vector is empty where a non-empty
	// one is required.
	ErrDimensionMismatch = errors.New("variate: dimension mismatch")

	// ErrNotPositiveSemiDefinite is returned when a covariance matrix does
	// not admit a Cholesky factorization and therefore cannot parameterize
	// a multivariate normal.
	ErrNotPositiveSemiDefinite = errors.New("variate: covariance matrix is not positive semi-definite")
)
