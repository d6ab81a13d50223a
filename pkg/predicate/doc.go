// Package predicate defines the statements ratiochase reasons about and
// connects them to the closure tables.
//
// # Predicates
//
// A statement is a predicate token followed by point names and, for rconst
// and aconst, a rational value:
//
//	cong A B C D           AB = CD
//	rconst A B C D r       AB:CD = r, r > 0
//	eqratio A B C D E F G H [...]
//	                       AB:CD = EF:GH = ...
//	eqratio3 A B C D M N   AB // MN // CD with M on AC and N on BD
//	para A B C D           AB parallel to CD
//	perp A B C D           AB perpendicular to CD
//	aconst A B C D r       angle(AB,CD) = r*pi (mod pi)
//	eqangle A B C D E F G H [...]
//	                       angle(AB,CD) = angle(EF,GH) = ...
//
// Length predicates are chased in the ratio table, the others in the angle
// table. eqratio3 is compound: it stands for three eqratio statements (see
// [Decompose]) and has no equations of its own.
//
// Per-predicate behavior (arity, symmetry, degeneracy, equations, pretty
// printing) comes from a single table indexed by [Kind].
//
// # Canonical form
//
// [Preparse] rewrites a statement to the least member of its symmetry orbit
// and rejects degenerate ones. [Parse] does the same for text, and a
// [Canonicalizer] memoizes Parse in a [cache.Cache].
//
//	s, err := predicate.Parse("cong d c b a")
//	// s.Key() == "cong a b c d"
//
// # Deduction
//
// A [State] bundles a quantity registry, the two closure tables and the
// justification graph:
//
//	st := predicate.NewState()
//	st.Assume(p1)
//	st.Assume(p2)
//	if ok, _ := st.Check(goal); ok {
//	    id, _ := st.Why(goal)
//	    trace, _ := st.Graph.Trace(id)
//	}
//
// [CheckNumerical] evaluates a statement on coordinates. It is a cheap
// filter in front of Check, never a replacement for it.
package predicate
