// Package effects - joint and independent sampling of level effects.
//
// Design principles:
//   - Deterministic: instances are processed in sorted-identifier order and
//     all randomness flows through the supplied variate source.
//   - Strict sentinels: validation completes before any draw is consumed,
//     so a rejected spec never perturbs the stream.
//   - One vector per distinct instance; duplicate identifiers collapse.
package effects

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/powersim/variate"
)

// Sample draws one effect vector per distinct identifier in ids under the
// given spec, using src for all randomness.
//
// Sampling strategy:
//   - No correlation: each effect draws an independent N(0, sd²) vector
//     across instances.
//   - With a correlation: the two paired effects draw jointly from the
//     2×2 covariance block via the multivariate normal; any remaining
//     effects draw independently afterwards.
//
// Guarantees:
//   - Exactly one vector per distinct identifier.
//   - Repeated calls with an identically-seeded source reproduce the table.
//   - StructurallySingular is set when any deviation is <= SingularSDFloor.
//
// Errors: sentinels from types.go, plus variate sentinels bubbled from the
// underlying draws. A validated spec always yields a positive-semi-definite
// covariance block, so degenerate-but-valid combinations (a zero deviation
// in the pair, |ρ| = 1) sample rather than fail.
//
// Complexity: O(n·k) draws for n instances and k effects, plus O(n log n)
// for the identifier sort.
func Sample(ids []string, spec Spec, src *variate.Source) (*Table, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	sorted, err := distinctSortedIDs(ids)
	if err != nil {
		return nil, err
	}

	var (
		k     = len(spec.Effects)
		index = make(map[string]int, k)
		names = make([]string, k)
		i     int
	)
	for i = range spec.Effects {
		index[spec.Effects[i].Name] = i
		names[i] = spec.Effects[i].Name
	}

	byID := make(map[string][]float64, len(sorted))
	var id string
	for _, id = range sorted {
		byID[id] = make([]float64, k)
	}

	if spec.Correlation != nil {
		if err = sampleCorrelated(sorted, spec, index, byID, src); err != nil {
			return nil, err
		}
	} else {
		if err = sampleIndependent(sorted, spec.Effects, byID, src); err != nil {
			return nil, err
		}
	}

	return &Table{
		names:                names,
		index:                index,
		byID:                 byID,
		StructurallySingular: anySingular(spec.Effects),
	}, nil
}

// sampleIndependent fills one N(0, sd²) column per effect.
func sampleIndependent(ids []string, eff []Effect, byID map[string][]float64, src *variate.Source) error {
	var (
		j  int
		i  int
		id string
	)
	for j = range eff {
		draws, err := src.Normal(len(ids), 0, eff[j].SD)
		if err != nil {
			return err
		}
		for i, id = range ids {
			byID[id][j] = draws[i]
		}
	}
	return nil
}

// sampleCorrelated draws the paired effects jointly from the 2×2 covariance
// block, then any remaining effects independently.
func sampleCorrelated(ids []string, spec Spec, index map[string]int, byID map[string][]float64, src *variate.Source) error {
	var (
		c   = spec.Correlation
		ja  = index[c.A]
		jb  = index[c.B]
		sdA = spec.Effects[ja].SD
		sdB = spec.Effects[jb].SD
		off = sdA * sdB * c.Rho
		cov = mat.NewSymDense(2, []float64{sdA * sdA, off, off, sdB * sdB})
		i   int
		id  string
	)
	var unpaired []Effect

	draws, err := src.MultivariateNormal(len(ids), []float64{0, 0}, cov)
	if err != nil {
		return err
	}
	for i, id = range ids {
		byID[id][ja] = draws[i][0]
		byID[id][jb] = draws[i][1]
	}

	// Remaining effects (if any) are uncorrelated with the pair.
	for i = range spec.Effects {
		if i == ja || i == jb {
			continue
		}
		unpaired = append(unpaired, spec.Effects[i])
	}
	if len(unpaired) == 0 {
		return nil
	}

	// Fill the unpaired columns at their original indices.
	rest := make(map[string][]float64, len(ids))
	for _, id = range ids {
		rest[id] = make([]float64, len(unpaired))
	}
	if err = sampleIndependent(ids, unpaired, rest, src); err != nil {
		return err
	}
	var j, col int
	for j = range spec.Effects {
		if j == ja || j == jb {
			continue
		}
		for _, id = range ids {
			byID[id][j] = rest[id][col]
		}
		col++
	}
	return nil
}

// validateSpec enforces effect naming, deviation and correlation contracts.
func validateSpec(spec Spec) error {
	if len(spec.Effects) == 0 {
		return ErrNoEffects
	}

	seen := make(map[string]bool, len(spec.Effects))
	var e Effect
	for _, e = range spec.Effects {
		if e.Name == "" {
			return ErrEmptyName
		}
		if seen[e.Name] {
			return ErrDuplicateEffect
		}
		seen[e.Name] = true
		if e.SD < 0 || math.IsNaN(e.SD) || math.IsInf(e.SD, 0) {
			return ErrInvalidStdDev
		}
	}

	if c := spec.Correlation; c != nil {
		if math.IsNaN(c.Rho) || c.Rho < -1 || c.Rho > 1 {
			return ErrInvalidCorrelation
		}
		if c.A == c.B {
			return ErrInvalidCorrelation
		}
		if !seen[c.A] || !seen[c.B] {
			return ErrUnknownEffect
		}
	}
	return nil
}

// distinctSortedIDs collapses duplicates and fixes the draw order.
func distinctSortedIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, ErrNoInstances
	}

	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))

	var id string
	for _, id = range ids {
		if id == "" {
			return nil, ErrEmptyName
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// anySingular reports whether any deviation sits at the numerical floor.
func anySingular(eff []Effect) bool {
	var e Effect
	for _, e = range eff {
		if e.SD <= SingularSDFloor {
			return true
		}
	}
	return false
}
