// Package synth - response computation.
//
// Design principles:
//   - Validate-then-write: every linear predictor is computed and every
//     lookup resolved before the first row is mutated, so a failing call
//     leaves the table untouched.
//   - Deterministic draw order: residuals are drawn as one vector in row
//     order, then (logit only) one Bernoulli per row in row order.
//   - Strict sentinels: only errors from types.go and the variate package.
//
// Complexity: O(rows × (factors + bindings)) time, O(rows) extra space.
package synth

import (
	"github.com/katalvlaran/powersim/design"
	"github.com/katalvlaran/powersim/variate"
)

// Synthesize populates the Response column of t under the given
// data-generating process. All randomness flows through src: one residual
// draw per row, plus one Bernoulli draw per row under the logit link.
//
// Contract:
//   - t must be a built table (ErrNilTable), src non-nil (ErrNilSource).
//   - fx.Link must be Identity or Logit (ErrUnknownLink).
//   - Every slope key and slope-effect factor must name a design factor
//     (ErrUnknownPredictor); every binding needs Table and Key (ErrBadBinding).
//   - Every row's instance/effect lookups must resolve (ErrMissingEffect).
//   - residualSD must be >= 0 and finite (variate.ErrInvalidStdDev).
//
// The function is pure given its inputs and the source state: its only
// effect is writing Response/HasResponse on every row.
func Synthesize(t *design.Table, fx FixedEffects, bindings []LevelEffects, residualSD float64, src *variate.Source) error {
	if t == nil || len(t.Rows) == 0 {
		return ErrNilTable
	}
	if src == nil {
		return ErrNilSource
	}
	if fx.Link != Identity && fx.Link != Logit {
		return ErrUnknownLink
	}
	if err := validateNames(t, fx, bindings); err != nil {
		return err
	}

	// Residuals: one fresh draw per row, drawn up front in row order.
	// This also validates residualSD before any state is produced.
	residuals, err := src.Normal(len(t.Rows), 0, residualSD)
	if err != nil {
		return err
	}

	// Stage 1: compute every linear predictor; no mutation yet.
	var (
		eta = make([]float64, len(t.Rows))
		i   int
	)
	for i = range t.Rows {
		eta[i], err = linearPredictor(t, &t.Rows[i], fx, bindings)
		if err != nil {
			return err
		}
		eta[i] += residuals[i]
	}

	// Stage 2: write responses.
	for i = range t.Rows {
		switch fx.Link {
		case Identity:
			t.Rows[i].Response = eta[i]
		case Logit:
			draw, berr := src.Bernoulli(clamp01(eta[i]))
			if berr != nil {
				return berr
			}
			t.Rows[i].Response = draw
		}
		t.Rows[i].HasResponse = true
	}
	return nil
}

// linearPredictor assembles the fixed and random parts for one row.
func linearPredictor(t *design.Table, r *design.Row, fx FixedEffects, bindings []LevelEffects) (float64, error) {
	eta := fx.Intercept

	// Random intercepts of every grouping level the row belongs to.
	var b LevelEffects
	for _, b = range bindings {
		if b.InterceptEffect == "" {
			continue
		}
		u, ok := b.Table.Lookup(b.Key(*r), b.InterceptEffect)
		if !ok {
			return 0, ErrMissingEffect
		}
		eta += u
	}

	// Per-factor slopes: fixed coefficient plus matching random slopes,
	// applied to the row's contrast code.
	var f design.Factor
	for _, f = range t.Factors {
		coef := fx.Slopes[f.Name]
		for _, b = range bindings {
			eff, has := b.SlopeEffects[f.Name]
			if !has {
				continue
			}
			u, ok := b.Table.Lookup(b.Key(*r), eff)
			if !ok {
				return 0, ErrMissingEffect
			}
			coef += u
		}
		eta += coef * r.Codes[f.Name]
	}
	return eta, nil
}

// validateNames checks slope keys and bindings against the design factors.
func validateNames(t *design.Table, fx FixedEffects, bindings []LevelEffects) error {
	factors := make(map[string]bool, len(t.Factors))
	var f design.Factor
	for _, f = range t.Factors {
		factors[f.Name] = true
	}

	var name string
	for name = range fx.Slopes {
		if !factors[name] {
			return ErrUnknownPredictor
		}
	}

	var b LevelEffects
	for _, b = range bindings {
		if b.Table == nil || b.Key == nil {
			return ErrBadBinding
		}
		for name = range b.SlopeEffects {
			if !factors[name] {
				return ErrUnknownPredictor
			}
		}
	}
	return nil
}

// clamp01 bounds a probability-scale predictor to [0,1]; documented
// exception to the no-silent-clamping rule (logit link only).
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
