// Package chase implements the linear closure table ("chase" engine).
//
// A [Table] holds a system of linear equations over quantities of one kind
// and answers whether another equation follows from it. Every equation is
// asserted together with the [proof.ID] of the fact that justifies it, and
// every positive answer can be explained by the facts it depends on.
//
// # Union-find with offsets
//
// Quantities are nodes of an arena indexed by [quantity.ID]. Each node holds
// its parent index, its offset value(node) - value(parent) as an exact
// [linear.Const], and the facts justifying that parent edge. Roots are their
// own parent. The value of any quantity relative to its root is the sum of
// the offsets along the parent chain.
//
// Union is by rank and paths are never compressed: every edge keeps the
// exact fact that created it, so the path between two quantities is always
// a replayable derivation.
//
// # Adding an equation
//
// Add reduces the equation to class representatives by substituting each
// quantity with root + offset. Then:
//
//   - Nothing left: a zero constant means the equation is already implied
//     and is recorded as redundant; anything else is a [Contradiction].
//   - Two representatives with opposite coefficients c and -c: the classes
//     are merged with offset const/c. For angles only c = 1 or -1 qualifies,
//     since dividing a direction modulo pi is ambiguous.
//   - Otherwise the equation is kept as a pending relation.
//
// Pending relations, reduced to representatives, form an echelon basis:
// each row leads at a different representative and records the facts it
// combines. Length rows are eliminated over the rationals. Angle constants
// are only defined modulo pi, so angle rows are combined with integer
// unimodular steps and a query must be an integer combination of them:
// 2*x = 0 does not make x = 0. After every merge the pending relations that
// became two-class equations are merged in and the basis is rebuilt.
//
// Before anything is stored the equation is inserted into a copy of the
// basis. If it reduces to 0 = k with k non-zero it is rejected and the
// table is left unchanged.
//
// # Queries
//
// Holds reports whether an equation reduces to 0 = 0 by the classes and
// the basis. Explain returns the facts of the basis rows used, then the
// facts on the parent edges the rest of the equation flows through.
// Replaying exactly those facts on an empty table makes the equation hold
// again.
//
// # Contradictions
//
// An equation that contradicts the table is rejected with a *Contradiction
// that matches [ErrContradiction] under errors.Is and carries the
// CONTRADICTION code of package errors. Its Support lists the facts the
// conflicting combination follows from.
package chase
