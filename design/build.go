// Package design - factorial table construction and nesting assignment.
//
// Design principles:
//   - Deterministic: row order is participant-major, then factor-level
//     combination (declaration order), then item index. No randomness is
//     consumed by Build itself.
//   - Strict sentinels: only errors from errors.go; validation runs before
//     any allocation so no partial table ever escapes.
//   - O(rows) construction; no hidden quadratic passes.
package design

import (
	"strconv"
	"strings"

	"github.com/katalvlaran/powersim/variate"
)

// Build constructs the full factorial design table:
//
//	rows = participants × Π(within-factor level counts) × itemsPerLevel.
//
// Between-participant factors (see WithBetweenParticipants) do not multiply
// the row count: each participant is deterministically assigned one level
// combination, in contiguous blocks over the participant range (an uneven
// split places the extra participant on the earlier block).
//
// Item identifiers are namespaced by the row's factor levels
// ("rock:3" ≠ "pop:3") unless WithSharedItems is requested.
//
// Contract:
//   - participants > 0 and itemsPerLevel > 0 (ErrNonPositiveCount).
//   - every factor has exactly two distinct, non-empty levels (ErrLevelCount,
//     ErrEmptyName) and factor names are unique (ErrDuplicateFactor).
//   - WithBetweenParticipants may only name supplied factors (ErrUnknownFactor).
//
// itemsPerLevel==1 is allowed: it is the degenerate one-observation-per-cell
// configuration that produces singular random-effect fits downstream.
//
// Complexity: O(rows) time and space.
func Build(participants int, factors []Factor, itemsPerLevel int, opts ...Option) (*Table, error) {
	var cfg buildConfig
	var o Option
	for _, o = range opts {
		o(&cfg)
	}

	if participants <= 0 || itemsPerLevel <= 0 {
		return nil, ErrNonPositiveCount
	}
	if err := validateFactors(factors, cfg.between); err != nil {
		return nil, err
	}

	// Split factors into crossed (within) and between-participant sets,
	// preserving declaration order.
	var (
		within  []Factor
		between []Factor
		f       Factor
	)
	for _, f = range factors {
		if cfg.between[f.Name] {
			between = append(between, f)
		} else {
			within = append(within, f)
		}
	}

	var (
		withinCells  = levelCombinations(within)
		betweenCells = levelCombinations(between)
		rowCount     = participants * len(withinCells) * itemsPerLevel
		rows         = make([]Row, 0, rowCount)
	)

	var (
		p    int
		item int
		cell []string
	)
	for p = 1; p <= participants; p++ {
		// Contiguous block assignment over between-level combinations.
		bCell := betweenCells[(p-1)*len(betweenCells)/participants]

		for _, cell = range withinCells {
			for item = 1; item <= itemsPerLevel; item++ {
				r := Row{
					Participant: p,
					Levels:      make(map[string]string, len(factors)),
					Codes:       make(map[string]float64, len(factors)),
				}
				assignLevels(&r, within, cell)
				assignLevels(&r, between, bCell)
				r.Item = itemID(&r, factors, item, cfg.sharedItems)
				rows = append(rows, r)
			}
		}
	}

	return &Table{
		Rows:          rows,
		Factors:       append([]Factor(nil), factors...),
		Participants:  participants,
		ItemsPerLevel: itemsPerLevel,
		sharedItems:   cfg.sharedItems,
		between:       cfg.between,
	}, nil
}

// AssignNestingGroup draws one categorical group membership per distinct
// participant (not per row) with the supplied level probabilities, then
// broadcasts that membership to every row of the participant.
//
// Contract:
//   - t must be a built table (ErrNilTable) and src non-nil (ErrNilSource).
//   - name and every level label must be non-empty and unique (ErrEmptyName).
//   - len(levels) must equal len(probs) and be > 0 (ErrDimensionMismatch).
//   - probs must each lie in [0,1] and sum to 1; violations surface as the
//     variate sentinels (variate.ErrInvalidProbability,
//     variate.ErrProbabilitiesSum) before any row is touched.
//
// Draws happen in ascending participant order, so the assignment is
// reproducible for a given source seed.
//
// Complexity: O(rows) time, O(participants) space.
func AssignNestingGroup(t *Table, name string, levels []string, probs []float64, src *variate.Source) error {
	if t == nil || len(t.Rows) == 0 {
		return ErrNilTable
	}
	if src == nil {
		return ErrNilSource
	}
	if name == "" {
		return ErrEmptyName
	}
	if len(levels) == 0 || len(levels) != len(probs) {
		return ErrDimensionMismatch
	}
	seen := make(map[string]bool, len(levels))
	var lv string
	for _, lv = range levels {
		if lv == "" || seen[lv] {
			return ErrEmptyName
		}
		seen[lv] = true
	}

	// Draw per distinct participant first; broadcast only once every draw
	// has succeeded, so a validation failure leaves the table untouched.
	var (
		ids        = t.ParticipantIDs()
		membership = make(map[string]string, len(ids))
		id         string
	)
	for _, id = range ids {
		k, err := src.Categorical(probs)
		if err != nil {
			return err
		}
		membership[id] = levels[k]
	}

	var i int
	for i = range t.Rows {
		t.Rows[i].Group = membership[ParticipantKey(t.Rows[i].Participant)]
	}
	t.NestingName = name
	return nil
}

// validateFactors enforces the two-level, unique-name contract and checks
// that between-participant options reference real factors.
func validateFactors(factors []Factor, between map[string]bool) error {
	names := make(map[string]bool, len(factors))

	var f Factor
	for _, f = range factors {
		if f.Name == "" {
			return ErrEmptyName
		}
		if names[f.Name] {
			return ErrDuplicateFactor
		}
		names[f.Name] = true

		if len(f.Levels) != 2 {
			return ErrLevelCount
		}
		if f.Levels[0] == "" || f.Levels[1] == "" || f.Levels[0] == f.Levels[1] {
			return ErrEmptyName
		}
	}

	var n string
	for n = range between {
		if !names[n] {
			return ErrUnknownFactor
		}
	}
	return nil
}

// levelCombinations enumerates the cartesian product of the factors' levels
// in declaration order. With no factors it returns the single empty
// combination so callers always have at least one cell to iterate.
func levelCombinations(factors []Factor) [][]string {
	cells := [][]string{nil}

	var (
		f    Factor
		cell []string
		lv   string
	)
	for _, f = range factors {
		next := make([][]string, 0, len(cells)*len(f.Levels))
		for _, cell = range cells {
			for _, lv = range f.Levels {
				nc := make([]string, len(cell)+1)
				copy(nc, cell)
				nc[len(cell)] = lv
				next = append(next, nc)
			}
		}
		cells = next
	}
	return cells
}

// assignLevels writes the labels and sum-to-zero contrast codes of one
// level combination into a row.
func assignLevels(r *Row, factors []Factor, cell []string) {
	var i int
	for i = range factors {
		r.Levels[factors[i].Name] = cell[i]
		if cell[i] == factors[i].Levels[0] {
			r.Codes[factors[i].Name] = CodeLow
		} else {
			r.Codes[factors[i].Name] = CodeHigh
		}
	}
}

// itemID renders the item identifier for a row, namespacing by the row's
// factor levels unless items are shared across levels.
func itemID(r *Row, factors []Factor, item int, shared bool) string {
	if shared || len(factors) == 0 {
		return strconv.Itoa(item)
	}

	var b strings.Builder
	var f Factor
	for _, f = range factors {
		b.WriteString(r.Levels[f.Name])
		b.WriteByte(':')
	}
	b.WriteString(strconv.Itoa(item))
	return b.String()
}
