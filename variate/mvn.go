// Package variate - multivariate-normal draws.
//
// Correlated random effects (intercept + slope pairs) are sampled jointly
// from N(mean, cov). A strictly positive-definite covariance goes through
// the Cholesky path; a positive-semi-definite but singular one (a
// zero-variance component, or |ρ| = 1) falls back to a spectral
// factorization so degenerate-but-valid specifications still sample.
// Only an indefinite matrix is rejected.
package variate

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// psdTol is the relative eigenvalue tolerance separating "numerically zero"
// from "genuinely negative" in the spectral fallback.
const psdTol = 1e-10

// MultivariateNormal returns n independent draws of a k-dimensional vector
// distributed as N(mean, cov), in draw order.
//
// Contract:
//   - n must be > 0 (ErrNonPositiveCount).
//   - mean must be non-empty and len(mean) must equal the order of cov
//     (ErrDimensionMismatch).
//   - cov must be positive semi-definite (ErrNotPositiveSemiDefinite).
//     Singular PSD matrices are valid: the degenerate directions contribute
//     constant-zero deviations.
//
// Complexity: O(k³) for the one-time factorization, then O(n·k²) for the
// draws; O(n·k) space for the result.
func (s *Source) MultivariateNormal(n int, mean []float64, cov *mat.SymDense) ([][]float64, error) {
	if n <= 0 {
		return nil, ErrNonPositiveCount
	}
	if cov == nil || len(mean) == 0 || cov.SymmetricDim() != len(mean) {
		return nil, ErrDimensionMismatch
	}

	dist, ok := distmv.NewNormal(mean, cov, s.src)
	if !ok {
		// Cholesky refused the matrix: either singular PSD or indefinite.
		return s.spectralNormal(n, mean, cov)
	}

	var (
		out = make([][]float64, n)
		i   int
	)
	for i = 0; i < n; i++ {
		out[i] = dist.Rand(nil)
	}
	return out, nil
}

// spectralNormal draws N(mean, cov) through an eigendecomposition:
// x = mean + V·diag(√λ)·z with z standard normal. Eigenvalues within
// psdTol of zero are floored to zero (their directions become constants);
// an eigenvalue below −psdTol·scale means the matrix is indefinite.
func (s *Source) spectralNormal(n int, mean []float64, cov *mat.SymDense) ([][]float64, error) {
	k := len(mean)

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return nil, ErrNotPositiveSemiDefinite
	}
	vals := eig.Values(nil)

	var (
		maxAbs float64
		v      float64
	)
	for _, v = range vals {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	tol := psdTol * math.Max(1, maxAbs)

	var (
		scale = make([]float64, k)
		j     int
	)
	for j = range vals {
		if vals[j] < -tol {
			return nil, ErrNotPositiveSemiDefinite
		}
		if vals[j] > 0 {
			scale[j] = math.Sqrt(vals[j])
		}
	}

	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	var (
		std = distuv.Normal{Mu: 0, Sigma: 1, Src: s.src}
		out = make([][]float64, n)
		z   = make([]float64, k)
		i   int
		r   int
	)
	for i = 0; i < n; i++ {
		// One standard draw per dimension even when its scale is zero, so
		// the stream position matches the non-degenerate parameterization.
		for j = 0; j < k; j++ {
			z[j] = std.Rand() * scale[j]
		}
		x := make([]float64, k)
		for r = 0; r < k; r++ {
			x[r] = mean[r]
			for j = 0; j < k; j++ {
				x[r] += vecs.At(r, j) * z[j]
			}
		}
		out[i] = x
	}
	return out, nil
}
