// Package proof records how every fact of a proof session was obtained.
//
// A [Graph] is an append-only arena of [Fact] nodes. Each fact names the
// statement it establishes, the [Rule] that produced it and the ordered
// antecedent facts it cites. Facts are referenced by dense [ID]s, so any
// number of later facts can cite the same antecedent.
//
// # Acyclicity
//
// MakeFact only accepts antecedents whose id is strictly smaller than the id
// the new fact receives. A fact can therefore never be its own direct or
// transitive antecedent, and creation order is a topological order of the
// graph.
//
// # Deduplication
//
// [Graph.Intern] returns the existing fact when the same statement was
// already derived by the same rule from the same antecedent set. Statements
// are compared through their canonical key, so the check is a map lookup.
//
// # Traces
//
// [Graph.Trace] extracts the facts a set of goals depends on and numbers them
// 001, 002, ... in creation order. The textual form is the line format
// consumed by proof visualizers:
//
//	<problem>
//	cong a b c d [001];
//	</problem>
//	<proof>
//	eqratio a b c d c d a b [002] ratio_chase [001];
//	</proof>
//
// Each derivation reads "<statement> [label] <rule> [antecedent]...".
// [ParseTrace] reads the same format back.
package proof
