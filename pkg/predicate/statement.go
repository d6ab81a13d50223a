package predicate

import (
	"math/big"
	"slices"
	"strings"

	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// Statement is one predicate applied to points, plus a rational constant for
// rconst and aconst.
//
// Statements built by Preparse, Parse or a Canonicalizer are canonical: two
// statements that mean the same thing have identical Args and Value, and
// therefore identical keys.
type Statement struct {
	Kind  Kind
	Args  []quantity.Point
	Value *big.Rat
}

// Key returns the statement text: the predicate token, the points and the
// value, separated by single spaces ("rconst a b c d 2/3"). Key implements
// proof.Statement.
func (s Statement) Key() string {
	var b strings.Builder
	b.WriteString(s.Kind.String())
	for _, p := range s.Args {
		b.WriteByte(' ')
		b.WriteString(string(p))
	}
	if s.Value != nil {
		b.WriteByte(' ')
		b.WriteString(s.Value.RatString())
	}
	return b.String()
}

// String returns the key.
func (s Statement) String() string { return s.Key() }

// Pretty renders the statement in conventional notation, for example
// "AB:CD = EF:GH" or "angle(AB,CD) = 1/3pi".
func (s Statement) Pretty() string {
	sp, ok := s.Kind.spec()
	if !ok {
		return s.Key()
	}
	return sp.pretty(s)
}

// Equal reports whether s and o are the same statement.
func (s Statement) Equal(o Statement) bool {
	if s.Kind != o.Kind || !slices.Equal(s.Args, o.Args) {
		return false
	}
	if s.Value == nil || o.Value == nil {
		return s.Value == nil && o.Value == nil
	}
	return s.Value.Cmp(o.Value) == 0
}

// Points returns the distinct points of the statement in order of first
// appearance.
func (s Statement) Points() []quantity.Point {
	seen := make(map[quantity.Point]struct{}, len(s.Args))
	var out []quantity.Point
	for _, p := range s.Args {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Mentions reports whether p is one of the statement's points.
func (s Statement) Mentions(p quantity.Point) bool {
	return slices.Contains(s.Args, p)
}
