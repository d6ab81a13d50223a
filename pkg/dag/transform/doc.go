// Package transform assigns rows to proof graphs and prepares them for
// drawing.
//
// # Layering
//
// [AssignLayers] places sources at [FirstRow] and every other node one row
// below its deepest parent. On a graph built by dag.FromTrace this yields
// premises on row 1, rule applications on even rows and conclusions on odd
// rows. [Tighten] then pulls each fact down to the row just above the
// first rule that cites it, which keeps edges short.
//
// # Edge Subdivision
//
// [Subdivide] breaks edges that still span several rows into chains of
// synthetic subdivider nodes:
//
//	Before: 001 (row 1) → r_angle_chase_1 (row 4)
//	After:  001 → 001_sub_2 → 001_sub_3 → r_angle_chase_1
//
// # Cycles
//
// [BreakCycles] removes back edges. Graphs imported from JSON are not
// guaranteed to be acyclic.
//
// # Ordering
//
// [Barycentric] implements [Orderer] to choose a left-to-right order per
// row that reduces edge crossings.
//
// [Layer] applies the layering steps in order.
package transform
