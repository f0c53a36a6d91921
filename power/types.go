// Package power - contracts, options, result and sentinel types.
package power

import (
	"errors"
	"runtime"

	"github.com/katalvlaran/powersim/design"
	"github.com/katalvlaran/powersim/fit"
	"github.com/katalvlaran/powersim/variate"
)

var (
	// ErrBadScenario is returned when Build, Populate or Term is missing.
	ErrBadScenario = errors.New("power: incomplete scenario")

	// ErrNilFitter is returned when no fitter is supplied.
	ErrNilFitter = errors.New("power: nil fitter")

	// ErrBadRepetitions is returned when Repetitions <= 0.
	ErrBadRepetitions = errors.New("power: repetitions must be > 0")

	// ErrBadAlpha is returned when Alpha lies outside (0,1).
	ErrBadAlpha = errors.New("power: alpha must lie in (0,1)")

	// ErrBadWorkers is returned when Workers < 0.
	ErrBadWorkers = errors.New("power: workers must be >= 0")

	// ErrUnknownTerm is returned when a fit result does not carry the
	// decision term. This is a configuration error and aborts the run.
	ErrUnknownTerm = errors.New("power: decision term absent from fit result")

	// ErrAllRepetitionsSkipped is returned when every repetition's fit
	// failed, leaving no denominator for the power estimate.
	ErrAllRepetitionsSkipped = errors.New("power: all repetitions skipped")
)

// Fitter is the external model-fitting boundary: fit the synthesized table,
// return per-term estimates and p-values, or an error for a fit that did
// not converge. Implementations must be safe for concurrent use — one Fit
// call runs per in-flight repetition.
type Fitter interface {
	Fit(t *design.Table) (*fit.Result, error)
}

// Scenario describes the data-generating process of one repetition.
//
//   - Build constructs the design table. With Options.ReuseDesign it runs
//     once and each repetition receives a clone; otherwise it runs per
//     repetition.
//   - Populate samples random effects and synthesizes the response into the
//     table using the repetition's derived variate source. A Populate error
//     is a specification error and aborts the whole run.
//   - Term names the fixed effect whose p-value decides rejection.
type Scenario struct {
	Build    func() (*design.Table, error)
	Populate func(t *design.Table, src *variate.Source) error
	Term     string
}

// Options configures one estimation run.
type Options struct {
	// Repetitions is the number of simulated datasets.
	Repetitions int

	// Alpha is the significance threshold; a repetition rejects when
	// p < Alpha (strict).
	Alpha float64

	// Seed seeds the base variate stream; repetition i derives substream i.
	// Seed 0 selects the fixed default stream.
	Seed int64

	// Workers bounds the parallel repetitions; 0 means runtime.NumCPU().
	Workers int

	// FailFast aborts the run on the first fit error instead of skipping
	// the repetition.
	FailFast bool

	// ReuseDesign builds the design once and clones it per repetition.
	// Disable when the design itself must be re-randomized every repetition
	// (e.g. probabilistic nesting assignment inside Build is not possible —
	// put such draws in Populate instead, where they see the repetition
	// stream).
	ReuseDesign bool
}

// DefaultOptions returns the canonical configuration: 1000 repetitions at
// α=0.05, default seed, one worker per CPU, skip-and-count failures, and a
// reused design.
func DefaultOptions() Options {
	return Options{
		Repetitions: 1000,
		Alpha:       0.05,
		Seed:        0,
		Workers:     runtime.NumCPU(),
		FailFast:    false,
		ReuseDesign: true,
	}
}

// Result is the aggregated outcome of an estimation run.
//
// Power = Rejections / Completed with Completed = Repetitions − Skipped, so
// callers can judge reliability from the skip count next to the rate.
type Result struct {
	// Power is the estimated rejection rate in [0,1].
	Power float64

	// Rejections counts repetitions with p < Alpha.
	Rejections int

	// Skipped counts repetitions excluded because the fit errored.
	Skipped int

	// SingularReps counts completed repetitions whose fit was flagged
	// singular/boundary.
	SingularReps int

	// Completed = Repetitions − Skipped.
	Completed int

	// PValues holds the completed repetitions' p-values in repetition order.
	PValues []float64
}
