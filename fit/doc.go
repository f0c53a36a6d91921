// Package fit provides the reference model-fitting collaborator: an
// ordinary-least-squares estimator over a synthesized design table, with
// per-term estimates, standard errors and Student-t p-values.
//
// The power estimator only depends on the one-method power.Fitter contract;
// this package is one implementation of it, sufficient for Gaussian
// fixed-effect designs. Mixed-model (REML/GLMM) estimators plug in behind
// the same boundary.
//
// ✨ Guarantees:
//   - A fit that cannot produce stable estimates returns ErrNonconvergent —
//     never a fabricated p-value.
//   - A near-singular normal-equations matrix still yields estimates but
//     flags the Result Singular, so callers can distinguish “boundary fit”
//     from “clean fit”.
//
// ⚙️ Usage:
//
//	res, err := fit.NewOLS("genre").Fit(tbl)
//	p := res.PValues["genre"]
package fit
