// Package effects samples random-effect vectors per grouping-level
// instance: one draw per participant, item or nesting group, shared by
// every observation row that belongs to that instance.
//
// 🚀 What is a random-effect Table?
//
//	A keyed map from level-instance identifier to a sampled effect vector
//	(one entry per named effect, e.g. "intercept" and "slope"). The defining
//	structural property of a mixed-effects simulation is that sampling
//	happens once per instance, not per row — lookups are O(1) by key, never
//	a scan.
//
// ✨ Key features:
//   - Independent effects: each named effect draws its own N(0, sd²) vector.
//   - Correlated pairs: a correlation between two named effects builds the
//     [[a²,abρ],[abρ,b²]] covariance block and draws jointly from the
//     multivariate normal; remaining effects stay independent.
//   - Determinism: instances are sampled in sorted-identifier order, so the
//     same seed reproduces the same table regardless of input order.
//   - Singularity flag: a spec whose deviation sits at the numerical floor
//     marks the table StructurallySingular — sampling proceeds, but callers
//     can tell “effect negligible” from “effect mis-specified”.
//
// ⚙️ Usage:
//
//	spec := effects.Spec{
//	  Effects: []effects.Effect{
//	    {Name: "intercept", SD: 7},
//	    {Name: "slope", SD: 3.5},
//	  },
//	  Correlation: &effects.Correlation{A: "intercept", B: "slope", Rho: -0.2},
//	}
//	tbl, err := effects.Sample(designTbl.ParticipantIDs(), spec, src)
//	u, ok := tbl.Lookup("17", "intercept")
package effects
