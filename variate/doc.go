// Package variate provides seeded random variate sources for simulation:
// normal, Bernoulli, categorical and multivariate-normal draws, all routed
// through an explicit, reproducible stream.
//
// 🚀 What is a Source?
//
//	A Source wraps one deterministic pseudorandom stream and exposes the
//	distribution primitives the simulation engine needs:
//	  • Normal(n, mean, sd)            — iid Gaussian draws
//	  • Bernoulli(p)                   — a single 0/1 outcome
//	  • Categorical(probs)             — a single index draw
//	  • MultivariateNormal(n, mu, cov) — correlated Gaussian vectors
//
// ✨ Key guarantees:
//   - Determinism: the same seed yields the same sequence on every platform;
//     there is no package-level generator and no time-based fallback.
//   - Independent substreams: Derive(stream) mixes the parent seed with a
//     stream identifier (SplitMix64 finalizer) so parallel repetitions can
//     each own a decorrelated, reproducible stream.
//   - Strict validation: invalid probabilities, negative deviations and
//     non-positive-semi-definite covariance matrices are rejected with
//     sentinel errors before any state is touched.
//
// ⚙️ Usage:
//
//	src := variate.NewSource(42)
//	zs, err := src.Normal(100, 0, 1)
//
//	// one independent stream per repetition
//	rep3 := src.Derive(3)
//
// Concurrency: a Source is NOT goroutine-safe. Do not share one Source
// across goroutines; derive one per worker instead.
package variate
