package predicate

import (
	"math/big"
	"strings"

	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// groupRotations rewrites a two-group statement so that the point at the
// given index comes first. Entries are tried from the last argument down,
// and each lists the argument indexes of the rewritten statement.
var groupRotations = []struct {
	at    int
	order []int
}{
	{7, []int{7, 0, 1, 2, 3, 4, 5, 6}},
	{6, []int{6, 0, 1, 2, 3, 4, 5, 7}},
	{5, []int{5, 2, 3, 0, 1, 6, 7, 4}},
	{4, []int{4, 2, 3, 0, 1, 6, 7, 5}},
	{3, []int{3, 4, 5, 6, 7, 0, 1, 2}},
	{2, []int{2, 4, 5, 6, 7, 0, 1, 3}},
	{1, []int{1, 6, 7, 4, 5, 2, 3, 0}},
	{0, []int{0, 6, 7, 4, 5, 2, 3, 1}},
}

// Constructive rewrites s as text whose first point is point, the form used
// when a statement defines a newly constructed point. ok is false when point
// does not occur in s or the predicate has no constructive form (eqratio3
// and statements with more than two groups).
//
// Two-segment predicates move the segment holding point first, inverting an
// rconst ratio or negating an aconst angle when the segments trade places.
func Constructive(s Statement, point quantity.Point) (string, bool) {
	if !s.Mentions(point) {
		return "", false
	}
	switch s.Kind {
	case EqRatio, EqAngle:
		if len(s.Args) != 8 {
			return "", false
		}
		for _, r := range groupRotations {
			if s.Args[r.at] != point {
				continue
			}
			args := make([]quantity.Point, len(r.order))
			for i, j := range r.order {
				args[i] = s.Args[j]
			}
			return constructiveText(s.Kind, args, nil), true
		}
	case Cong, RConst, Para, Perp, AConst:
		a := s.Args
		v := s.Value
		if point == a[2] || point == a[3] {
			a = swapSegments(a)
			switch s.Kind {
			case RConst:
				v = new(big.Rat).Inv(v)
			case AConst:
				v = modOne(new(big.Rat).Neg(v))
			}
		}
		if point == a[1] {
			a = []quantity.Point{a[1], a[0], a[2], a[3]}
		}
		return constructiveText(s.Kind, a, v), true
	}
	return "", false
}

func constructiveText(k Kind, args []quantity.Point, v *big.Rat) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, k.String())
	for _, p := range args {
		parts = append(parts, string(p))
	}
	if v != nil {
		parts = append(parts, v.RatString())
	}
	return strings.Join(parts, " ")
}
