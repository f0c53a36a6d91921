// Package power - the repetition driver.
//
// Design principles:
//   - Reproducible parallelism: repetition i always owns the derived stream
//     base.Derive(i); outcomes are written into slots indexed by repetition,
//     so the aggregate is independent of scheduling.
//   - Repetition isolation: a reused design is cloned before population;
//     workers share only the immutable scenario and the indexed slot arrays.
//   - Failure taxonomy: Build/Populate errors and a missing decision term
//     are specification errors that abort the run; fit errors are
//     repetition-scoped and skip (or abort under FailFast).
package power

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/katalvlaran/powersim/design"
	"github.com/katalvlaran/powersim/variate"
)

// repetition outcome markers for the status slots.
const (
	statusCompleted = 1
	statusSkipped   = 2
)

// Estimate runs opts.Repetitions simulated datasets through the scenario
// and fitter and aggregates the rejection rate at opts.Alpha.
//
// Contract:
//   - sc must carry Build, Populate and Term (ErrBadScenario).
//   - f must be non-nil (ErrNilFitter) and safe for concurrent Fit calls.
//   - Options are validated up front (ErrBadRepetitions, ErrBadAlpha,
//     ErrBadWorkers).
//
// The estimate is deterministic for a given seed at any worker count.
//
// Complexity: O(repetitions) fits; memory O(repetitions) for the p-value
// slots plus one design clone per in-flight repetition.
func Estimate(sc Scenario, f Fitter, opts Options) (Result, error) {
	if sc.Build == nil || sc.Populate == nil || sc.Term == "" {
		return Result{}, ErrBadScenario
	}
	if f == nil {
		return Result{}, ErrNilFitter
	}
	if opts.Repetitions <= 0 {
		return Result{}, ErrBadRepetitions
	}
	if opts.Alpha <= 0 || opts.Alpha >= 1 || math.IsNaN(opts.Alpha) {
		return Result{}, ErrBadAlpha
	}
	if opts.Workers < 0 {
		return Result{}, ErrBadWorkers
	}

	workers := opts.Workers
	if workers == 0 {
		workers = DefaultOptions().Workers
	}
	if workers > opts.Repetitions {
		workers = opts.Repetitions
	}

	// A reused design is built once and cloned per repetition; otherwise
	// each repetition builds its own.
	var shared *design.Table
	if opts.ReuseDesign {
		tbl, err := sc.Build()
		if err != nil {
			return Result{}, err
		}
		shared = tbl
	}

	var (
		base     = variate.NewSource(opts.Seed)
		pvals    = make([]float64, opts.Repetitions)
		status   = make([]uint8, opts.Repetitions)
		singular = make([]bool, opts.Repetitions)

		jobs = make(chan int)
		wg   sync.WaitGroup
		stop atomic.Bool

		fatalOnce sync.Once
		fatalErr  error
	)
	fatal := func(err error) {
		fatalOnce.Do(func() { fatalErr = err })
		stop.Store(true)
	}

	worker := func() {
		defer wg.Done()

		var rep int
		for rep = range jobs {
			if stop.Load() {
				continue // drain remaining jobs after a fatal error
			}

			src := base.Derive(uint64(rep))

			var (
				tbl *design.Table
				err error
			)
			if shared != nil {
				tbl = shared.Clone()
			} else if tbl, err = sc.Build(); err != nil {
				fatal(err)
				continue
			}

			if err = sc.Populate(tbl, src); err != nil {
				fatal(err)
				continue
			}

			res, err := f.Fit(tbl)
			if err != nil {
				if opts.FailFast {
					fatal(err)
					continue
				}
				status[rep] = statusSkipped
				continue
			}

			p, ok := res.PValues[sc.Term]
			if !ok {
				fatal(ErrUnknownTerm)
				continue
			}
			pvals[rep] = p
			singular[rep] = res.Singular
			status[rep] = statusCompleted
		}
	}

	wg.Add(workers)
	var w int
	for w = 0; w < workers; w++ {
		go worker()
	}
	var rep int
	for rep = 0; rep < opts.Repetitions; rep++ {
		jobs <- rep
	}
	close(jobs)
	wg.Wait()

	if fatalErr != nil {
		return Result{}, fatalErr
	}
	return aggregate(pvals, status, singular, opts.Alpha)
}

// aggregate folds the per-repetition slots into a Result.
func aggregate(pvals []float64, status []uint8, singular []bool, alpha float64) (Result, error) {
	var (
		res Result
		rep int
	)
	res.PValues = make([]float64, 0, len(pvals))

	for rep = range status {
		switch status[rep] {
		case statusSkipped:
			res.Skipped++
		case statusCompleted:
			res.Completed++
			res.PValues = append(res.PValues, pvals[rep])
			if pvals[rep] < alpha {
				res.Rejections++
			}
			if singular[rep] {
				res.SingularReps++
			}
		}
	}

	if res.Completed == 0 {
		return Result{}, ErrAllRepetitionsSkipped
	}
	res.Power = float64(res.Rejections) / float64(res.Completed)
	return res, nil
}
