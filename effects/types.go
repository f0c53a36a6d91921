// Package effects - specification, table and sentinel types.
package effects

import "errors"

// SingularSDFloor is the numerical floor below which a requested deviation
// is considered structurally indistinguishable from zero. Sampling still
// proceeds; the resulting table is flagged StructurallySingular.
const SingularSDFloor = 1e-8

var (
	// ErrNoInstances is returned when the instance-identifier set is empty.
	ErrNoInstances = errors.New("effects: no level instances")

	// ErrNoEffects is returned when a Spec names no effects.
	ErrNoEffects = errors.New("effects: no effects named")

	// ErrEmptyName is returned when an effect or instance identifier is the
	// empty string.
	ErrEmptyName = errors.New("effects: empty name")

	// ErrDuplicateEffect is returned when two effects share a name.
	ErrDuplicateEffect = errors.New("effects: duplicate effect name")

	// ErrInvalidStdDev is returned when an effect deviation is negative,
	// NaN or infinite.
	ErrInvalidStdDev = errors.New("effects: invalid standard deviation")

	// ErrInvalidCorrelation is returned when a correlation coefficient lies
	// outside [-1,1], is NaN, or pairs an effect with itself.
	ErrInvalidCorrelation = errors.New("effects: invalid correlation")

	// ErrUnknownEffect is returned when a correlation references an effect
	// the Spec does not name.
	ErrUnknownEffect = errors.New("effects: unknown effect name")

	// ErrNilSource is returned when a nil variate source is supplied.
	ErrNilSource = errors.New("effects: nil variate source")
)

// Effect names one random effect at a grouping level and its standard
// deviation. SD==0 is allowed (degenerate, flagged singular).
type Effect struct {
	Name string
	SD   float64
}

// Correlation requests joint sampling of two named effects with the given
// correlation coefficient ρ. The implied covariance block is
// [[sd_a², sd_a·sd_b·ρ],[sd_a·sd_b·ρ, sd_b²]].
type Correlation struct {
	A   string
	B   string
	Rho float64
}

// Spec is the variance/covariance specification for one grouping level.
type Spec struct {
	Effects     []Effect
	Correlation *Correlation
}

// Table maps level-instance identifiers to sampled effect vectors.
// Construct via Sample; zero value is not usable.
type Table struct {
	names []string
	index map[string]int
	byID  map[string][]float64

	// StructurallySingular is set when any requested deviation sits at or
	// below SingularSDFloor. Informational, never fatal.
	StructurallySingular bool
}

// Lookup returns the sampled value of the named effect for one instance.
// O(1); the second return is false when the instance or effect is unknown.
func (t *Table) Lookup(id, effect string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	j, ok := t.index[effect]
	if !ok {
		return 0, false
	}
	vec, ok := t.byID[id]
	if !ok {
		return 0, false
	}
	return vec[j], true
}

// Len returns the number of sampled level instances.
func (t *Table) Len() int { return len(t.byID) }

// Names returns the effect names in specification order.
func (t *Table) Names() []string { return append([]string(nil), t.names...) }

// Vector returns a copy of the full effect vector for one instance, in
// specification order; ok is false for unknown instances.
func (t *Table) Vector(id string) ([]float64, bool) {
	vec, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), vec...), true
}
