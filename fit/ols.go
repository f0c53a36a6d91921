// Package fit - ordinary least squares over a design table.
//
// Model: response = β₀ + Σ βⱼ·codeⱼ + ε, one column per named predictor
// using the design's sum-to-zero contrast codes. Inference: two-sided
// Student-t p-values on n−k degrees of freedom.
package fit

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/powersim/design"
)

// InterceptTerm is the key under which the intercept's estimate, standard
// error and p-value are reported.
const InterceptTerm = "(Intercept)"

var (
	// ErrNilTable is returned when the table is nil or empty.
	ErrNilTable = errors.New("fit: nil or empty design table")

	// ErrNoResponse is returned when any row lacks a synthesized response.
	ErrNoResponse = errors.New("fit: response column not populated")

	// ErrUnknownPredictor is returned when a named predictor has no contrast
	// code in the design.
	ErrUnknownPredictor = errors.New("fit: unknown predictor name")

	// ErrInsufficientData is returned when the residual degrees of freedom
	// are not positive (rows <= parameters).
	ErrInsufficientData = errors.New("fit: insufficient rows for inference")

	// ErrNonconvergent is returned when the solver cannot produce finite,
	// stable estimates (e.g. rank-deficient design). It is a distinguishable
	// outcome, never conflated with a valid p-value.
	ErrNonconvergent = errors.New("fit: model failed to converge")
)

// Result is the structured outcome of one fit: per-term point estimates,
// standard errors and two-sided p-values, keyed by predictor name plus
// InterceptTerm. Singular marks a boundary/near-singular fit whose
// estimates were still representable.
type Result struct {
	Estimates map[string]float64
	StdErrs   map[string]float64
	PValues   map[string]float64
	Singular  bool
}

// OLS fits a fixed-effects linear model with an intercept plus one slope
// per named predictor.
type OLS struct {
	Predictors []string
}

// NewOLS returns an OLS fitter over the named predictors.
func NewOLS(predictors ...string) *OLS {
	return &OLS{Predictors: append([]string(nil), predictors...)}
}

// Fit estimates the model on t's populated response column.
//
// Contract:
//   - t must be non-empty with every row synthesized (ErrNilTable,
//     ErrNoResponse).
//   - every predictor must carry a contrast code (ErrUnknownPredictor).
//   - rows must exceed parameters (ErrInsufficientData).
//
// Complexity: O(n·k²) for n rows and k parameters.
func (o *OLS) Fit(t *design.Table) (*Result, error) {
	if t == nil || len(t.Rows) == 0 {
		return nil, ErrNilTable
	}

	var (
		n = len(t.Rows)
		k = 1 + len(o.Predictors)
	)
	if n <= k {
		return nil, ErrInsufficientData
	}

	// Assemble X (intercept + contrast codes) and y.
	var (
		x = mat.NewDense(n, k, nil)
		y = mat.NewVecDense(n, nil)
		i int
		j int
	)
	for i = 0; i < n; i++ {
		r := t.Rows[i]
		if !r.HasResponse {
			return nil, ErrNoResponse
		}
		x.Set(i, 0, 1)
		for j = 0; j < len(o.Predictors); j++ {
			code, ok := r.Codes[o.Predictors[j]]
			if !ok {
				return nil, ErrUnknownPredictor
			}
			x.Set(i, j+1, code)
		}
		y.SetVec(i, r.Response)
	}

	// Solve the least-squares problem via QR.
	var qr mat.QR
	qr.Factorize(x)

	var (
		beta     mat.VecDense
		singular bool
	)
	if err := qr.SolveVecTo(&beta, false, y); err != nil {
		// Near-singular systems still produce estimates (with a condition
		// warning); anything else is a hard failure.
		if _, ok := err.(mat.Condition); !ok {
			return nil, ErrNonconvergent
		}
		singular = true
	}

	// Residual variance on n−k degrees of freedom.
	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	var (
		rss float64
		df  = float64(n - k)
	)
	for i = 0; i < n; i++ {
		d := y.AtVec(i) - fitted.AtVec(i)
		rss += d * d
	}
	sigma2 := rss / df

	// Covariance of the estimates: σ²·(XᵀX)⁻¹.
	var xtx, xtxInv mat.Dense
	xtx.Mul(x.T(), x)
	if err := xtxInv.Inverse(&xtx); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, ErrNonconvergent
		}
		singular = true
	}

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	res := &Result{
		Estimates: make(map[string]float64, k),
		StdErrs:   make(map[string]float64, k),
		PValues:   make(map[string]float64, k),
		Singular:  singular,
	}

	term := func(j int) string {
		if j == 0 {
			return InterceptTerm
		}
		return o.Predictors[j-1]
	}
	for j = 0; j < k; j++ {
		var (
			est = beta.AtVec(j)
			se  = math.Sqrt(sigma2 * xtxInv.At(j, j))
		)
		if !isFinite(est) || !isFinite(se) {
			return nil, ErrNonconvergent
		}
		res.Estimates[term(j)] = est
		res.StdErrs[term(j)] = se
		res.PValues[term(j)] = pValue(est, se, tdist)
	}
	return res, nil
}

// pValue computes the two-sided Student-t p-value, handling the degenerate
// zero-standard-error case of a perfect fit.
func pValue(est, se float64, tdist distuv.StudentsT) float64 {
	if se == 0 {
		if est == 0 {
			return 1
		}
		return 0
	}
	return 2 * tdist.CDF(-math.Abs(est/se))
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
