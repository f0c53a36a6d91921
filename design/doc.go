// Package design builds factorial experimental design tables: the full
// cross product of participants × factor levels × items, with sum-to-zero
// contrast codes and optional nesting-group assignment.
//
// 🚀 What is a design Table?
//
//	An ordered sequence of observation rows. Each row carries:
//	  • the participant identifier (1..P)
//	  • one label + one numeric contrast code per categorical factor
//	  • the item identifier, namespaced per factor level by default
//	  • an optional nesting-group label (e.g. country), constant per participant
//	  • the response slot, populated later by the synthesizer
//
// ✨ Key features:
//   - Sum-to-zero coding: two-level factors are coded −0.5 / +0.5, so a
//     fixed-effect slope of β means a β difference between the level means.
//     This is the only supported convention.
//   - Crossed by default: every participant meets every level × item cell;
//     WithBetweenParticipants makes a factor split participants instead.
//   - Namespaced items: item “3” under level “rock” is a different item
//     from “3” under “pop” unless WithSharedItems is requested.
//   - Deterministic nesting: AssignNestingGroup draws one categorical group
//     per distinct participant and broadcasts it to all of their rows.
//
// ⚙️ Usage:
//
//	tbl, err := design.Build(24, []design.Factor{
//	  {Name: "genre", Levels: []string{"rock", "pop"}},
//	}, 8)
//
//	// participants nested within countries, 60/40 split
//	err = design.AssignNestingGroup(tbl, "country",
//	  []string{"NL", "UK"}, []float64{0.6, 0.4}, src)
//
// Degenerate configurations (itemsPerLevel==1) are allowed on purpose:
// they are exactly the designs that produce singular random-effect fits,
// which the estimator is expected to surface rather than hide.
package design
