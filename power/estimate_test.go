// Package power_test exercises the estimator end-to-end via the public API.
// Focus: the documented reference power, type-I calibration, monotonicity,
// worker-count invariance and the skip/fail-fast policies.
package power_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/powersim/design"
	"github.com/katalvlaran/powersim/effects"
	"github.com/katalvlaran/powersim/fit"
	"github.com/katalvlaran/powersim/power"
	"github.com/katalvlaran/powersim/synth"
	"github.com/katalvlaran/powersim/variate"
)

const seedDet = 42

var condition = design.Factor{Name: "condition", Levels: []string{"control", "treatment"}}

// twoGroupScenario is the reference between-participants comparison:
// P participants split 50/50 across two conditions, one observation each,
// response = 0.5 + slope·code + N(0,1).
func twoGroupScenario(participants int, slope float64) power.Scenario {
	return power.Scenario{
		Build: func() (*design.Table, error) {
			return design.Build(participants, []design.Factor{condition}, 1,
				design.WithBetweenParticipants("condition"))
		},
		Populate: func(t *design.Table, src *variate.Source) error {
			fx := synth.FixedEffects{Intercept: 0.5, Slopes: map[string]float64{"condition": slope}}
			return synth.Synthesize(t, fx, nil, 1, src)
		},
		Term: "condition",
	}
}

func runOpts(reps int) power.Options {
	opts := power.DefaultOptions()
	opts.Repetitions = reps
	opts.Seed = seedDet
	return opts
}

// stubFitter adapts a closure to the Fitter contract.
type stubFitter struct {
	fn func(*design.Table) (*fit.Result, error)
}

func (s stubFitter) Fit(t *design.Table) (*fit.Result, error) { return s.fn(t) }

var errStub = errors.New("stub: no convergence")

// TestEstimate_ReferencePower reproduces the documented two-group reference:
// 100 participants split 50/50, d=0.2, σ=1, α=0.05 → power ≈ 0.17 ± 0.03.
func TestEstimate_ReferencePower(t *testing.T) {
	res, err := power.Estimate(twoGroupScenario(100, 0.2), fit.NewOLS("condition"), runOpts(1000))
	require.NoError(t, err)

	require.Equal(t, 1000, res.Completed)
	require.Zero(t, res.Skipped)
	require.Len(t, res.PValues, 1000)
	require.InDelta(t, 0.17, res.Power, 0.035)
}

// TestEstimate_TypeIError: under the null the rejection rate calibrates to α.
func TestEstimate_TypeIError(t *testing.T) {
	res, err := power.Estimate(twoGroupScenario(100, 0), fit.NewOLS("condition"), runOpts(1000))
	require.NoError(t, err)
	require.InDelta(t, 0.05, res.Power, 0.03)
}

// TestEstimate_MonotoneInSlope: holding everything else fixed, a larger
// fixed slope must not decrease the estimated power.
func TestEstimate_MonotoneInSlope(t *testing.T) {
	opts := runOpts(300)

	small, err := power.Estimate(twoGroupScenario(100, 0.2), fit.NewOLS("condition"), opts)
	require.NoError(t, err)
	large, err := power.Estimate(twoGroupScenario(100, 0.5), fit.NewOLS("condition"), opts)
	require.NoError(t, err)

	require.Greater(t, large.Power, small.Power)
}

// TestEstimate_WorkerCountInvariance: the same seed yields a bit-identical
// result whether repetitions run serially or on many workers.
func TestEstimate_WorkerCountInvariance(t *testing.T) {
	sc := twoGroupScenario(40, 0.3)

	serial := runOpts(200)
	serial.Workers = 1
	parallel := runOpts(200)
	parallel.Workers = 7

	a, err := power.Estimate(sc, fit.NewOLS("condition"), serial)
	require.NoError(t, err)
	b, err := power.Estimate(sc, fit.NewOLS("condition"), parallel)
	require.NoError(t, err)

	require.Equal(t, a, b)
}

// TestEstimate_RebuildEqualsReuse: a deterministic Build gives the same
// result whether the design is reused (cloned) or rebuilt per repetition.
func TestEstimate_RebuildEqualsReuse(t *testing.T) {
	sc := twoGroupScenario(40, 0.3)

	reuse := runOpts(100)
	rebuild := runOpts(100)
	rebuild.ReuseDesign = false

	a, err := power.Estimate(sc, fit.NewOLS("condition"), reuse)
	require.NoError(t, err)
	b, err := power.Estimate(sc, fit.NewOLS("condition"), rebuild)
	require.NoError(t, err)

	require.Equal(t, a, b)
}

// TestEstimate_MixedModelPipeline runs the full crossed random-effects
// pipeline: participant intercept+slope (correlated) and item intercepts,
// a within-participant factor and a strong fixed slope.
func TestEstimate_MixedModelPipeline(t *testing.T) {
	genre := design.Factor{Name: "genre", Levels: []string{"rock", "pop"}}
	sc := power.Scenario{
		Build: func() (*design.Table, error) {
			return design.Build(30, []design.Factor{genre}, 8)
		},
		Populate: func(tbl *design.Table, src *variate.Source) error {
			subj, err := effects.Sample(tbl.ParticipantIDs(), effects.Spec{
				Effects: []effects.Effect{
					{Name: "intercept", SD: 2},
					{Name: "slope", SD: 1},
				},
				Correlation: &effects.Correlation{A: "intercept", B: "slope", Rho: -0.2},
			}, src.Derive(1))
			if err != nil {
				return err
			}
			item, err := effects.Sample(tbl.ItemIDs(), effects.Spec{
				Effects: []effects.Effect{{Name: "intercept", SD: 1}},
			}, src.Derive(2))
			if err != nil {
				return err
			}

			fx := synth.FixedEffects{Intercept: 60, Slopes: map[string]float64{"genre": 3}}
			return synth.Synthesize(tbl, fx, []synth.LevelEffects{
				{
					Level:           "participant",
					Table:           subj,
					InterceptEffect: "intercept",
					SlopeEffects:    map[string]string{"genre": "slope"},
					Key:             synth.ByParticipant(),
				},
				{
					Level:           "item",
					Table:           item,
					InterceptEffect: "intercept",
					Key:             synth.ByItem(),
				},
			}, 1, src.Derive(3))
		},
		Term: "genre",
	}

	res, err := power.Estimate(sc, fit.NewOLS("genre"), runOpts(200))
	require.NoError(t, err)
	require.Equal(t, 200, res.Completed)
	require.Greater(t, res.Power, 0.5, "a 3-unit effect on 480 rows should be detected most of the time")
}

// TestEstimate_LogitScenario smoke-tests the binomial path end to end with
// a linear-probability fit on the 0/1 responses.
func TestEstimate_LogitScenario(t *testing.T) {
	sc := power.Scenario{
		Build: func() (*design.Table, error) {
			return design.Build(100, []design.Factor{condition}, 1,
				design.WithBetweenParticipants("condition"))
		},
		Populate: func(tbl *design.Table, src *variate.Source) error {
			fx := synth.FixedEffects{
				Intercept: 0.5,
				Slopes:    map[string]float64{"condition": 0.3},
				Link:      synth.Logit,
			}
			return synth.Synthesize(tbl, fx, nil, 0, src)
		},
		Term: "condition",
	}

	res, err := power.Estimate(sc, fit.NewOLS("condition"), runOpts(200))
	require.NoError(t, err)
	require.Equal(t, 200, res.Completed)
	require.GreaterOrEqual(t, res.Power, 0.0)
	require.LessOrEqual(t, res.Power, 1.0)
}

// TestEstimate_SkipPolicy: a fitter that fails on a content-dependent subset
// of repetitions is excluded from the denominator, never from the numerator.
func TestEstimate_SkipPolicy(t *testing.T) {
	ols := fit.NewOLS("condition")
	flaky := stubFitter{fn: func(tbl *design.Table) (*fit.Result, error) {
		// Content-dependent, hence deterministic per repetition stream and
		// stable at any worker count.
		if tbl.Rows[0].Response < 0.5 {
			return nil, errStub
		}
		return ols.Fit(tbl)
	}}

	res, err := power.Estimate(twoGroupScenario(40, 0.3), flaky, runOpts(400))
	require.NoError(t, err)

	require.Positive(t, res.Skipped, "the flaky fitter must skip some repetitions")
	require.Equal(t, 400, res.Completed+res.Skipped)
	require.Len(t, res.PValues, res.Completed)
	require.InDelta(t, float64(res.Rejections)/float64(res.Completed), res.Power, 1e-12)
}

// TestEstimate_FailFast aborts on the first fit error and surfaces it.
func TestEstimate_FailFast(t *testing.T) {
	always := stubFitter{fn: func(*design.Table) (*fit.Result, error) { return nil, errStub }}

	opts := runOpts(50)
	opts.FailFast = true
	_, err := power.Estimate(twoGroupScenario(20, 0.3), always, opts)
	require.ErrorIs(t, err, errStub)
}

// TestEstimate_AllSkipped: with every fit failing under the skip policy
// there is no denominator left.
func TestEstimate_AllSkipped(t *testing.T) {
	always := stubFitter{fn: func(*design.Table) (*fit.Result, error) { return nil, errStub }}

	_, err := power.Estimate(twoGroupScenario(20, 0.3), always, runOpts(50))
	require.ErrorIs(t, err, power.ErrAllRepetitionsSkipped)
}

// TestEstimate_SingularCounting: boundary-flagged fits complete but are
// counted so callers can judge identifiability.
func TestEstimate_SingularCounting(t *testing.T) {
	boundary := stubFitter{fn: func(*design.Table) (*fit.Result, error) {
		return &fit.Result{
			Estimates: map[string]float64{"condition": 0},
			StdErrs:   map[string]float64{"condition": 1},
			PValues:   map[string]float64{"condition": 0.5},
			Singular:  true,
		}, nil
	}}

	res, err := power.Estimate(twoGroupScenario(20, 0.3), boundary, runOpts(50))
	require.NoError(t, err)
	require.Equal(t, 50, res.SingularReps)
	require.Equal(t, 50, res.Completed)
}

// TestEstimate_UnknownTerm: a decision term the fitter never reports is a
// configuration error, not a skip.
func TestEstimate_UnknownTerm(t *testing.T) {
	sc := twoGroupScenario(20, 0.3)
	sc.Term = "ghost"

	_, err := power.Estimate(sc, fit.NewOLS("condition"), runOpts(10))
	require.ErrorIs(t, err, power.ErrUnknownTerm)
}

// TestEstimate_Validation covers the option and scenario sentinels.
func TestEstimate_Validation(t *testing.T) {
	sc := twoGroupScenario(20, 0.3)
	ols := fit.NewOLS("condition")

	_, err := power.Estimate(power.Scenario{}, ols, runOpts(10))
	require.ErrorIs(t, err, power.ErrBadScenario)

	_, err = power.Estimate(sc, nil, runOpts(10))
	require.ErrorIs(t, err, power.ErrNilFitter)

	opts := runOpts(0)
	_, err = power.Estimate(sc, ols, opts)
	require.ErrorIs(t, err, power.ErrBadRepetitions)

	opts = runOpts(10)
	opts.Alpha = 0
	_, err = power.Estimate(sc, ols, opts)
	require.ErrorIs(t, err, power.ErrBadAlpha)

	opts = runOpts(10)
	opts.Alpha = 1
	_, err = power.Estimate(sc, ols, opts)
	require.ErrorIs(t, err, power.ErrBadAlpha)

	opts = runOpts(10)
	opts.Workers = -1
	_, err = power.Estimate(sc, ols, opts)
	require.ErrorIs(t, err, power.ErrBadWorkers)
}

// TestEstimate_PopulateErrorAborts: specification errors inside Populate
// abort the run instead of being silently skipped.
func TestEstimate_PopulateErrorAborts(t *testing.T) {
	sc := twoGroupScenario(20, 0.3)
	sc.Populate = func(tbl *design.Table, src *variate.Source) error {
		fx := synth.FixedEffects{Slopes: map[string]float64{"nope": 1}}
		return synth.Synthesize(tbl, fx, nil, 1, src)
	}

	_, err := power.Estimate(sc, fit.NewOLS("condition"), runOpts(10))
	require.ErrorIs(t, err, synth.ErrUnknownPredictor)
}
