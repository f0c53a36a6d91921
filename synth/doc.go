// Package synth computes the observed response for every row of a design
// table by combining fixed effects, per-level random effects and residual
// noise under an identity or logit link.
//
// 🚀 How a response is built:
//
//	η = intercept
//	  + Σ random intercepts of every grouping level the row belongs to
//	  + Σ over factors: (fixed slope + matching random slopes) × contrast code
//	  + one fresh residual draw per row (never reused)
//
//	identity: response = η
//	logit:    response = Bernoulli(clamp(η, 0, 1))
//
// The logit link treats η as a probability-scale quantity: values above 1
// clamp to 1 and values below 0 clamp to 0, with no rescaling, before the
// single Bernoulli draw. Pass residualSD=0 for a pure probability model.
//
// ✨ Key guarantees:
//   - Pure given its inputs and the source state: the only effect is
//     populating the Response column; identical inputs and seed reproduce
//     identical responses.
//   - No silent zeros: a row referencing a level instance or effect the
//     bound table does not carry fails with ErrMissingEffect — and the
//     failure happens before any row is written.
//   - Keyed lookups: random effects are fetched by instance identifier in
//     O(1), never by scanning.
//
// ⚙️ Usage:
//
//	fx := synth.FixedEffects{Intercept: 60, Slopes: map[string]float64{"genre": 5}}
//	err := synth.Synthesize(tbl, fx, []synth.LevelEffects{
//	  {
//	    Level:           "participant",
//	    Table:           subjEffects,
//	    InterceptEffect: "intercept",
//	    SlopeEffects:    map[string]string{"genre": "slope"},
//	    Key:             synth.ByParticipant(),
//	  },
//	}, 8, src)
package synth
