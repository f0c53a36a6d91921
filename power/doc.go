// Package power estimates statistical power by simulation: it repeats
// design construction, random-effects sampling, response synthesis and a
// model fit many times, then reports the share of repetitions whose
// decision p-value crosses the significance threshold.
//
// 🚀 One repetition:
//
//	build (or clone the reused) design
//	→ Populate: sample effects + synthesize response with the repetition's
//	  own derived variate stream
//	→ Fitter.Fit → read the decision term's p-value
//
// ✨ Key guarantees:
//   - Reproducible parallelism: repetition i always draws from stream
//     base.Derive(i), so the estimate is bit-identical at any worker count.
//   - Exclude-and-count failure policy: a repetition whose fit errors is
//     skipped, counted in Result.Skipped and removed from the denominator —
//     a failed fit is never coerced into a p-value. FailFast aborts the run
//     on the first fit error instead.
//   - No shared mutable state between repetitions: a reused design is
//     cloned per repetition; workers merge partial results at the end.
//
// ⚙️ Usage:
//
//	sc := power.Scenario{
//	  Build: func() (*design.Table, error) {
//	    return design.Build(100, factors, 1, design.WithBetweenParticipants("condition"))
//	  },
//	  Populate: func(t *design.Table, src *variate.Source) error {
//	    return synth.Synthesize(t, fx, nil, 1, src)
//	  },
//	  Term: "condition",
//	}
//	res, err := power.Estimate(sc, fit.NewOLS("condition"), power.DefaultOptions())
//	fmt.Println(res.Power, res.Skipped)
//
// Timeouts: a fitter that may hang must enforce its own bound and return an
// error; the estimator treats any fit error as the skip case and never
// cancels a fit mid-flight.
package power
