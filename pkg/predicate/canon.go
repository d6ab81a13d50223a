package predicate

import (
	"math/big"
	"slices"

	"github.com/matzehuels/ratiochase/pkg/perm"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// Preparse canonicalizes a statement. It returns false when the arguments do
// not fit the predicate or describe a degenerate configuration:
//
//   - a segment whose two endpoints are equal
//   - cong, para, perp, rconst or aconst relating a segment to itself
//   - rconst with a non-positive ratio
//   - eqratio3 with fewer than three distinct points among A, C, M or
//     among B, D, N
//
// Otherwise the statement is rewritten to the least member of its symmetry
// orbit, comparing point lists element by element with
// [quantity.ComparePoints]. Values follow the symmetry: swapping the two
// segments of rconst inverts the ratio and swapping the two lines of aconst
// negates the angle. Preparse is idempotent, and statements related by a
// symmetry preparse to the same result.
func Preparse(kind Kind, args []quantity.Point, value *big.Rat) (Statement, bool) {
	sp, ok := kind.spec()
	if !ok || !sp.arityOK(len(args)) || sp.valued != (value != nil) {
		return Statement{}, false
	}
	out, v, ok := sp.canon(args, value)
	if !ok {
		return Statement{}, false
	}
	return Statement{Kind: kind, Args: out, Value: v}, true
}

// compareArgs orders point lists lexicographically.
func compareArgs(a, b []quantity.Point) int {
	return slices.CompareFunc(a, b, quantity.ComparePoints)
}

func least(cands [][]quantity.Point) []quantity.Point {
	return slices.MinFunc(cands, compareArgs)
}

// segments sorts the endpoints of each consecutive pair of args. It fails on
// a pair with equal endpoints.
func segments(args []quantity.Point) ([]quantity.Point, bool) {
	out := slices.Clone(args)
	for i := 0; i+1 < len(out); i += 2 {
		switch c := quantity.ComparePoints(out[i], out[i+1]); {
		case c == 0:
			return nil, false
		case c > 0:
			out[i], out[i+1] = out[i+1], out[i]
		}
	}
	return out, true
}

// twoSegments prepares the four points of a two-segment predicate.
func twoSegments(args []quantity.Point) ([]quantity.Point, bool) {
	s, ok := segments(args)
	if !ok || slices.Equal(s[:2], s[2:]) {
		return nil, false
	}
	return s, true
}

// canonSegmentPair handles cong, para and perp: both segments are
// unordered and the statement is symmetric in the two segments.
func canonSegmentPair(args []quantity.Point, _ *big.Rat) ([]quantity.Point, *big.Rat, bool) {
	s, ok := twoSegments(args)
	if !ok {
		return nil, nil, false
	}
	return least(perm.Orbit(s, 2)), nil, true
}

func swapSegments(s []quantity.Point) []quantity.Point {
	return []quantity.Point{s[2], s[3], s[0], s[1]}
}

func canonRConst(args []quantity.Point, v *big.Rat) ([]quantity.Point, *big.Rat, bool) {
	s, ok := twoSegments(args)
	if !ok || v.Sign() <= 0 {
		return nil, nil, false
	}
	if t := swapSegments(s); compareArgs(t, s) < 0 {
		return t, new(big.Rat).Inv(v), true
	}
	return s, new(big.Rat).Set(v), true
}

func canonAConst(args []quantity.Point, v *big.Rat) ([]quantity.Point, *big.Rat, bool) {
	s, ok := twoSegments(args)
	if !ok {
		return nil, nil, false
	}
	if t := swapSegments(s); compareArgs(t, s) < 0 {
		return t, modOne(new(big.Rat).Neg(v)), true
	}
	return s, modOne(v), true
}

// modOne reduces r into [0, 1).
func modOne(r *big.Rat) *big.Rat {
	q := new(big.Int).Div(r.Num(), r.Denom()) // Euclidean: floor for positive denominators
	return new(big.Rat).Sub(r, new(big.Rat).SetInt(q))
}

// canonGroups handles eqratio and eqangle: 4k points forming k groups
// (AB, CD). Groups may be reordered freely, and every group may be swapped
// to (CD, AB) as long as all of them are swapped together.
func canonGroups(args []quantity.Point, _ *big.Rat) ([]quantity.Point, *big.Rat, bool) {
	s, ok := segments(args)
	if !ok {
		return nil, nil, false
	}
	k := len(s) / 4
	var cands [][]quantity.Point
	for _, swap := range []bool{false, true} {
		groups := make([][]quantity.Point, k)
		for i := range k {
			g := s[4*i : 4*i+4]
			if swap {
				g = swapSegments(g)
			}
			groups[i] = g
		}
		slices.SortFunc(groups, compareArgs)
		cands = append(cands, slices.Concat(groups...))
	}
	return least(cands), nil, true
}

// canonEqRatio3 handles A B C D M N: the pairs (A,B), (C,D) and (M,N) may be
// permuted freely, and the two lines may be exchanged by reversing every
// pair at once.
func canonEqRatio3(args []quantity.Point, _ *big.Rat) ([]quantity.Point, *big.Rat, bool) {
	a, b, c, d, m, n := args[0], args[1], args[2], args[3], args[4], args[5]
	if distinct(a, c, m) < 3 || distinct(b, d, n) < 3 {
		return nil, nil, false
	}
	pairs := []quantity.Point{a, b, c, d, m, n}
	reversed := []quantity.Point{b, a, d, c, n, m}
	var cands [][]quantity.Point
	for _, base := range [][]quantity.Point{pairs, reversed} {
		cands = append(cands, perm.Orbit(base, 3)...)
	}
	return least(cands), nil, true
}

func distinct(ps ...quantity.Point) int {
	seen := make(map[quantity.Point]struct{}, len(ps))
	for _, p := range ps {
		seen[p] = struct{}{}
	}
	return len(seen)
}
