// Package variate - deterministic stream construction and scalar draws.
//
// This file centralizes seeded stream creation for the whole simulation
// engine.
//
// Goals:
//   - Determinism: same seed ⇒ identical draws across platforms.
//   - Encapsulation: a single Source factory; no time-based sources hidden
//     anywhere, no package-level generator state.
//   - Safety: no panics or logging; only sentinel errors from errors.go.
//
// Concurrency:
//   - A Source is NOT goroutine-safe. Use Derive to create independent
//     streams for parallel repetitions or workers.
package variate

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// defaultSeed is the fixed “zero” seed used when callers pass seed==0.
// The value is arbitrary but stable to keep reproducible defaults.
const defaultSeed uint64 = 1

// probSumTol is the tolerance for Σp == 1 in Categorical validation.
const probSumTol = 1e-9

// Source is one deterministic pseudorandom stream plus the distribution
// primitives bound to it. Construct with NewSource; fork with Derive.
type Source struct {
	seed uint64
	src  rand.Source
}

// NewSource returns a deterministic Source.
// Policy: seed==0 ⇒ use defaultSeed; otherwise the provided seed verbatim.
//
// Complexity: O(1).
func NewSource(seed int64) *Source {
	var s uint64
	s = uint64(seed)
	if s == 0 {
		s = defaultSeed
	}
	return &Source{seed: s, src: rand.NewSource(s)}
}

// Seed reports the effective seed this Source was constructed with
// (after the seed==0 policy was applied).
func (s *Source) Seed() int64 { return int64(s.seed) }

// Derive creates an independent deterministic Source based on this Source's
// seed and a stream identifier. Unlike draws, derivation does NOT consume
// state from the parent: repetition k always receives the same substream
// regardless of how much the parent has already been used.
//
// Usage:
//   - Call during setup (not in hot loops) to create per-repetition streams.
//
// Complexity: O(1).
func (s *Source) Derive(stream uint64) *Source {
	return &Source{
		seed: deriveSeed(s.seed, stream),
		src:  rand.NewSource(deriveSeed(s.seed, stream)),
	}
}

// deriveSeed mixes a parent seed and a stream identifier into a new 64-bit
// seed.
//
// Rationale:
//   - We want independent substreams derived from a base seed (one per
//     simulation repetition).
//   - We apply a SplitMix64-style avalanche mix to eliminate correlations.
//
// Notes:
//   - Constants are the canonical SplitMix64 multipliers/finalizer. They
//     provide strong bit diffusion; small changes in inputs produce large,
//     well-distributed output changes.
//
// Complexity: O(1).
func deriveSeed(parent uint64, stream uint64) uint64 {
	var x uint64
	x = parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	if x == 0 {
		x = defaultSeed
	}
	return x
}

// Normal returns n independent draws from N(mean, sd²) in draw order.
//
// Contract:
//   - n must be > 0 (ErrNonPositiveCount).
//   - sd must be finite and >= 0 (ErrInvalidStdDev); sd==0 yields a constant
//     sequence but still consumes n values from the stream, so downstream
//     draws stay aligned across configurations.
//
// Complexity: O(n) time, O(n) space (the returned slice).
func (s *Source) Normal(n int, mean, sd float64) ([]float64, error) {
	if n <= 0 {
		return nil, ErrNonPositiveCount
	}
	if err := validateStdDev(sd); err != nil {
		return nil, err
	}

	dist := distuv.Normal{Mu: mean, Sigma: sd, Src: s.src}

	var (
		out = make([]float64, n)
		i   int
	)
	for i = 0; i < n; i++ {
		out[i] = dist.Rand()
	}
	return out, nil
}

// Bernoulli returns a single draw in {0,1} with success probability p.
//
// Contract: p must lie in [0,1] (ErrInvalidProbability); NaN is rejected.
//
// Complexity: O(1).
func (s *Source) Bernoulli(p float64) (float64, error) {
	if err := validateProbability(p); err != nil {
		return 0, err
	}
	return distuv.Bernoulli{P: p, Src: s.src}.Rand(), nil
}

// Categorical returns a single index draw in [0, len(probs)) where index i
// is selected with probability probs[i].
//
// Contract:
//   - probs must be non-empty (ErrDimensionMismatch).
//   - Every entry must lie in [0,1] (ErrInvalidProbability).
//   - Σ probs must equal 1 within 1e-9 (ErrProbabilitiesSum).
//
// Complexity: O(k) validation + O(k) draw for k categories.
func (s *Source) Categorical(probs []float64) (int, error) {
	if len(probs) == 0 {
		return 0, ErrDimensionMismatch
	}

	var (
		sum float64
		p   float64
	)
	for _, p = range probs {
		if err := validateProbability(p); err != nil {
			return 0, err
		}
		sum += p
	}
	if math.Abs(sum-1) > probSumTol {
		return 0, ErrProbabilitiesSum
	}

	cat := distuv.NewCategorical(probs, s.src)
	return int(cat.Rand()), nil
}

// validateStdDev rejects negative, NaN and infinite standard deviations.
func validateStdDev(sd float64) error {
	if sd < 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return ErrInvalidStdDev
	}
	return nil
}

// validateProbability rejects probabilities outside [0,1] and NaN.
func validateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return ErrInvalidProbability
	}
	return nil
}
