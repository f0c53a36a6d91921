// Package synth - link, fixed-effect and binding types plus sentinels.
package synth

import (
	"errors"

	"github.com/katalvlaran/powersim/design"
	"github.com/katalvlaran/powersim/effects"
)

// Link selects how the linear predictor becomes an observed response.
type Link int

const (
	// Identity: the response is the linear predictor itself (Gaussian model).
	Identity Link = iota

	// Logit: the linear predictor is a probability-scale quantity, clamped
	// to [0,1], and the response is a single Bernoulli draw (binomial model).
	Logit
)

var (
	// ErrNilTable is returned when the design table is nil or empty.
	ErrNilTable = errors.New("synth: nil or empty design table")

	// ErrNilSource is returned when a nil variate source is supplied.
	ErrNilSource = errors.New("synth: nil variate source")

	// ErrUnknownLink is returned for a Link value outside the declared set.
	ErrUnknownLink = errors.New("synth: unknown link function")

	// ErrUnknownPredictor is returned when a fixed slope or a slope-effect
	// binding names a factor the design does not carry.
	ErrUnknownPredictor = errors.New("synth: unknown predictor name")

	// ErrBadBinding is returned when a LevelEffects entry is missing its
	// table or key function.
	ErrBadBinding = errors.New("synth: incomplete level-effects binding")

	// ErrMissingEffect is returned when a row references a level instance or
	// effect name absent from the bound random-effect table.
	ErrMissingEffect = errors.New("synth: missing random effect for level instance")
)

// FixedEffects is the population-level part of the data-generating process:
// an intercept, one slope per factor (keyed by factor name, applied to that
// factor's ±0.5 contrast code) and the link. A factor without a slope entry
// contributes no fixed effect. Because of the sum-to-zero coding, a slope
// of β means a β difference between the two level means.
type FixedEffects struct {
	Intercept float64
	Slopes    map[string]float64
	Link      Link
}

// LevelEffects binds one sampled random-effect table to a grouping level of
// the design:
//
//   - Level is a free-form label used only for diagnostics.
//   - Table holds the sampled vectors, keyed by level-instance identifier.
//   - InterceptEffect names the effect added to the intercept for every row
//     of the instance; empty means the level has no random intercept.
//   - SlopeEffects maps factor name → effect name for random slopes.
//   - Key maps a design row to the instance identifier owning it.
type LevelEffects struct {
	Level           string
	Table           *effects.Table
	InterceptEffect string
	SlopeEffects    map[string]string
	Key             func(design.Row) string
}

// ByParticipant keys rows by their participant identifier, matching
// design.Table.ParticipantIDs.
func ByParticipant() func(design.Row) string {
	return func(r design.Row) string { return design.ParticipantKey(r.Participant) }
}

// ByItem keys rows by their (possibly level-namespaced) item identifier,
// matching design.Table.ItemIDs.
func ByItem() func(design.Row) string {
	return func(r design.Row) string { return r.Item }
}

// ByGroup keys rows by their nesting-group label, matching
// design.Table.GroupIDs. Requires AssignNestingGroup to have run.
func ByGroup() func(design.Row) string {
	return func(r design.Row) string { return r.Group }
}
