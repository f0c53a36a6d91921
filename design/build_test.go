// Package design_test exercises the factorial builder via the public API.
// Focus: the cross-product row invariant, contrast coding, item
// namespacing, between-participant splits and nesting assignment.
package design_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/powersim/design"
	"github.com/katalvlaran/powersim/variate"
)

var genre = design.Factor{Name: "genre", Levels: []string{"rock", "pop"}}

// TestBuild_CrossProductInvariant: Build(P, [(g,2)], I) produces exactly
// P×2×I rows with each (participant, level) pair appearing in exactly I rows.
func TestBuild_CrossProductInvariant(t *testing.T) {
	const (
		p = 7
		i = 5
	)
	tbl, err := design.Build(p, []design.Factor{genre}, i)
	require.NoError(t, err)
	require.Equal(t, p*2*i, tbl.Len())

	cell := make(map[[2]string]int)
	var r design.Row
	for _, r = range tbl.Rows {
		cell[[2]string{design.ParticipantKey(r.Participant), r.Levels["genre"]}]++
		require.False(t, r.HasResponse, "Build must not populate responses")
	}
	require.Len(t, cell, p*2)
	var n int
	for _, n = range cell {
		require.Equal(t, i, n)
	}
}

// TestBuild_ContrastCoding verifies sum-to-zero ±0.5 codes: first declared
// level −0.5, second +0.5, and that codes sum to zero over the table.
func TestBuild_ContrastCoding(t *testing.T) {
	tbl, err := design.Build(4, []design.Factor{genre}, 3)
	require.NoError(t, err)

	var (
		sum float64
		r   design.Row
	)
	for _, r = range tbl.Rows {
		switch r.Levels["genre"] {
		case "rock":
			require.Equal(t, design.CodeLow, r.Codes["genre"])
		case "pop":
			require.Equal(t, design.CodeHigh, r.Codes["genre"])
		default:
			t.Fatalf("unexpected level %q", r.Levels["genre"])
		}
		sum += r.Codes["genre"]
	}
	require.InDelta(t, 0, sum, 1e-12)
}

// TestBuild_ItemNamespacing: items are distinct per level by default and
// shared under WithSharedItems.
func TestBuild_ItemNamespacing(t *testing.T) {
	tbl, err := design.Build(2, []design.Factor{genre}, 3)
	require.NoError(t, err)
	require.Len(t, tbl.ItemIDs(), 2*3, "namespaced: one item set per level")
	require.Contains(t, tbl.ItemIDs(), "rock:1")
	require.Contains(t, tbl.ItemIDs(), "pop:1")

	shared, err := design.Build(2, []design.Factor{genre}, 3, design.WithSharedItems())
	require.NoError(t, err)
	require.Len(t, shared.ItemIDs(), 3, "shared: one item set across levels")
	require.Contains(t, shared.ItemIDs(), "1")
}

// TestBuild_BetweenParticipants verifies the factor stops multiplying rows
// and splits participants across levels in contiguous balanced blocks.
func TestBuild_BetweenParticipants(t *testing.T) {
	const (
		p = 100
		i = 1
	)
	tbl, err := design.Build(p, []design.Factor{genre}, i,
		design.WithBetweenParticipants("genre"))
	require.NoError(t, err)
	require.Equal(t, p*i, tbl.Len(), "between factor must not multiply rows")

	perLevel := make(map[string]int)
	levelOf := make(map[int]string)
	var r design.Row
	for _, r = range tbl.Rows {
		perLevel[r.Levels["genre"]]++
		if prev, ok := levelOf[r.Participant]; ok {
			require.Equal(t, prev, r.Levels["genre"], "participant level must be constant")
		}
		levelOf[r.Participant] = r.Levels["genre"]
	}
	require.Equal(t, p/2, perLevel["rock"])
	require.Equal(t, p/2, perLevel["pop"])
}

// TestBuild_NoFactors: the design degenerates to participants × items.
func TestBuild_NoFactors(t *testing.T) {
	tbl, err := design.Build(3, nil, 4)
	require.NoError(t, err)
	require.Equal(t, 12, tbl.Len())
	require.Equal(t, []string{"1", "2", "3", "4"}, tbl.ItemIDs())
}

// TestBuild_Validation covers the sentinel taxonomy.
func TestBuild_Validation(t *testing.T) {
	_, err := design.Build(0, []design.Factor{genre}, 1)
	require.ErrorIs(t, err, design.ErrNonPositiveCount)

	_, err = design.Build(2, []design.Factor{genre}, 0)
	require.ErrorIs(t, err, design.ErrNonPositiveCount)

	_, err = design.Build(2, []design.Factor{{Name: "genre", Levels: []string{"solo"}}}, 1)
	require.ErrorIs(t, err, design.ErrLevelCount)

	_, err = design.Build(2, []design.Factor{{Name: "", Levels: []string{"a", "b"}}}, 1)
	require.ErrorIs(t, err, design.ErrEmptyName)

	_, err = design.Build(2, []design.Factor{{Name: "genre", Levels: []string{"a", "a"}}}, 1)
	require.ErrorIs(t, err, design.ErrEmptyName)

	_, err = design.Build(2, []design.Factor{genre, genre}, 1)
	require.ErrorIs(t, err, design.ErrDuplicateFactor)

	_, err = design.Build(2, []design.Factor{genre}, 1,
		design.WithBetweenParticipants("color"))
	require.ErrorIs(t, err, design.ErrUnknownFactor)
}

// TestAssignNestingGroup verifies per-participant constancy, determinism
// across identical seeds, and the error surface.
func TestAssignNestingGroup(t *testing.T) {
	build := func() *design.Table {
		tbl, err := design.Build(50, []design.Factor{genre}, 2)
		require.NoError(t, err)
		return tbl
	}

	levels := []string{"NL", "UK"}
	probs := []float64{0.6, 0.4}

	a := build()
	require.NoError(t, design.AssignNestingGroup(a, "country", levels, probs, variate.NewSource(11)))
	require.Equal(t, "country", a.NestingName)

	groupOf := make(map[int]string)
	var r design.Row
	for _, r = range a.Rows {
		require.Contains(t, levels, r.Group)
		if prev, ok := groupOf[r.Participant]; ok {
			require.Equal(t, prev, r.Group, "group must be constant per participant")
		}
		groupOf[r.Participant] = r.Group
	}

	// Same seed reproduces the same assignment.
	b := build()
	require.NoError(t, design.AssignNestingGroup(b, "country", levels, probs, variate.NewSource(11)))
	var i int
	for i = range a.Rows {
		require.Equal(t, a.Rows[i].Group, b.Rows[i].Group)
	}

	// Validation: bad probabilities must leave the table untouched.
	c := build()
	err := design.AssignNestingGroup(c, "country", levels, []float64{0.6, 0.6}, variate.NewSource(11))
	require.ErrorIs(t, err, variate.ErrProbabilitiesSum)
	for _, r = range c.Rows {
		require.Empty(t, r.Group)
	}
	require.Empty(t, c.NestingName)

	require.ErrorIs(t,
		design.AssignNestingGroup(nil, "country", levels, probs, variate.NewSource(1)),
		design.ErrNilTable)
	require.ErrorIs(t,
		design.AssignNestingGroup(build(), "country", levels, probs, nil),
		design.ErrNilSource)
	require.ErrorIs(t,
		design.AssignNestingGroup(build(), "", levels, probs, variate.NewSource(1)),
		design.ErrEmptyName)
	require.ErrorIs(t,
		design.AssignNestingGroup(build(), "country", levels, []float64{1}, variate.NewSource(1)),
		design.ErrDimensionMismatch)
}

// TestClone_Independence verifies a clone shares no mutable state with its
// original.
func TestClone_Independence(t *testing.T) {
	tbl, err := design.Build(3, []design.Factor{genre}, 2)
	require.NoError(t, err)

	cp := tbl.Clone()
	cp.Rows[0].Response = 99
	cp.Rows[0].HasResponse = true
	cp.Rows[0].Codes["genre"] = 7

	require.False(t, tbl.Rows[0].HasResponse)
	require.Equal(t, 0.0, tbl.Rows[0].Response)
	require.NotEqual(t, 7.0, tbl.Rows[0].Codes["genre"])
}
