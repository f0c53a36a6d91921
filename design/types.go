// Package design - table, row and option types shared by the builders.
package design

import (
	"sort"
	"strconv"
)

// Contrast codes for two-level factors (sum-to-zero coding).
// The first declared level receives CodeLow, the second CodeHigh, so a
// fixed-effect slope equals the full difference between the level means.
const (
	CodeLow  = -0.5
	CodeHigh = +0.5
)

// Factor is one categorical predictor. Exactly two levels are supported;
// Levels[0] is the reference level and is coded CodeLow.
type Factor struct {
	Name   string
	Levels []string
}

// Row is one observation unit of the design.
//
// Levels maps factor name → level label; Codes maps factor name → the
// level's contrast code. Group is empty until AssignNestingGroup runs.
// Response/HasResponse are populated by the synthesizer, never by Build.
type Row struct {
	Participant int
	Item        string
	Group       string
	Levels      map[string]string
	Codes       map[string]float64
	Response    float64
	HasResponse bool
}

// Table is an ordered design table plus the configuration it was built from.
type Table struct {
	Rows          []Row
	Factors       []Factor
	Participants  int
	ItemsPerLevel int

	// NestingName is the grouping-variable name set by AssignNestingGroup
	// (empty when no nesting was assigned).
	NestingName string

	sharedItems bool
	between     map[string]bool
}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	sharedItems bool
	between     map[string]bool
}

// WithSharedItems makes item identities shared across factor levels:
// item "3" is the same item under every level. By default items are
// namespaced per level combination.
func WithSharedItems() Option {
	return func(c *buildConfig) { c.sharedItems = true }
}

// WithBetweenParticipants marks the named factors as between-participant:
// instead of crossing every participant with every level, participants are
// split across the levels in declaration order (first half → first level).
// An uneven participant count places the extra participant on the first level.
func WithBetweenParticipants(names ...string) Option {
	return func(c *buildConfig) {
		if c.between == nil {
			c.between = make(map[string]bool, len(names))
		}
		var n string
		for _, n = range names {
			c.between[n] = true
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ParticipantKey converts a participant identifier into the string key used
// by random-effect tables.
func ParticipantKey(id int) string { return strconv.Itoa(id) }

// ParticipantIDs returns the distinct participant keys in ascending
// numeric order, ready to feed a random-effects sampler.
func (t *Table) ParticipantIDs() []string {
	seen := make(map[int]bool, t.Participants)

	var r Row
	for _, r = range t.Rows {
		seen[r.Participant] = true
	}

	ids := make([]int, 0, len(seen))
	var id int
	for id = range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]string, len(ids))
	var i int
	for i = range ids {
		out[i] = ParticipantKey(ids[i])
	}
	return out
}

// ItemIDs returns the distinct item identifiers in lexicographic order.
func (t *Table) ItemIDs() []string {
	return distinctSorted(t.Rows, func(r Row) string { return r.Item })
}

// GroupIDs returns the distinct nesting-group labels in lexicographic
// order; empty when AssignNestingGroup has not run.
func (t *Table) GroupIDs() []string {
	if t.NestingName == "" {
		return nil
	}
	return distinctSorted(t.Rows, func(r Row) string { return r.Group })
}

// Clone returns a deep copy of the table. The power estimator clones a
// reused design once per repetition so parallel repetitions never share a
// mutable response column.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}

	cp := *t
	cp.Rows = make([]Row, len(t.Rows))

	var (
		i int
		k string
	)
	for i = range t.Rows {
		r := t.Rows[i]
		nr := r
		nr.Levels = make(map[string]string, len(r.Levels))
		nr.Codes = make(map[string]float64, len(r.Codes))
		for k = range r.Levels {
			nr.Levels[k] = r.Levels[k]
		}
		for k = range r.Codes {
			nr.Codes[k] = r.Codes[k]
		}
		cp.Rows[i] = nr
	}
	return &cp
}

// distinctSorted collects the distinct non-empty values of key over rows.
func distinctSorted(rows []Row, key func(Row) string) []string {
	seen := make(map[string]bool)

	var r Row
	for _, r = range rows {
		if v := key(r); v != "" {
			seen[v] = true
		}
	}

	out := make([]string, 0, len(seen))
	var v string
	for v = range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
