// Package quantity assigns stable symbolic identities to measurable
// magnitudes of a geometric configuration.
//
// # Kinds
//
// Two kinds of quantity exist:
//
//   - [Length]: the length of segment AB. The pair is unordered, so AB and BA
//     are the same quantity. Length relations are chased on a log scale, which
//     turns ratios into differences.
//   - [Angle]: the direction of the line through A and B, measured modulo pi.
//     The pair is unordered as well. The angle between two lines is the
//     difference of their directions.
//
// # Interning
//
// A [Registry] creates each quantity once and returns the same identity for
// every later request, regardless of the order in which the two points are
// given:
//
//	reg := quantity.NewRegistry()
//	ab, _ := reg.Get(quantity.Length, "a", "b")
//	ba, _ := reg.Get(quantity.Length, "b", "a")
//	// ab.ID == ba.ID
//
// Identities are dense integers starting at zero, so callers can use them as
// arena indices.
//
// # Point Order
//
// [ComparePoints] is the total order over point names used throughout
// ratiochase. Names are compared by alphabetic prefix, then by numeric suffix
// as an integer, so p2 sorts before p10.
package quantity
