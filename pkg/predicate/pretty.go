package predicate

import (
	"strings"

	"github.com/matzehuels/ratiochase/pkg/quantity"
)

func seg(a, b quantity.Point) string {
	return strings.ToUpper(string(a)) + strings.ToUpper(string(b))
}

// ratioGroups renders groups of four points as AB:CD.
func ratioGroups(args []quantity.Point) []string {
	out := make([]string, 0, len(args)/4)
	for i := 0; i+3 < len(args); i += 4 {
		out = append(out, seg(args[i], args[i+1])+":"+seg(args[i+2], args[i+3]))
	}
	return out
}

// angleGroups renders groups of four points as angle(AB,CD).
func angleGroups(args []quantity.Point) []string {
	out := make([]string, 0, len(args)/4)
	for i := 0; i+3 < len(args); i += 4 {
		out = append(out, "angle("+seg(args[i], args[i+1])+","+seg(args[i+2], args[i+3])+")")
	}
	return out
}

func prettyCong(s Statement) string {
	return seg(s.Args[0], s.Args[1]) + " = " + seg(s.Args[2], s.Args[3])
}

func prettyRConst(s Statement) string {
	return ratioGroups(s.Args)[0] + " = " + s.Value.RatString()
}

func prettyEqRatio(s Statement) string {
	return strings.Join(ratioGroups(s.Args), " = ")
}

func prettyEqRatio3(s Statement) string {
	parts := make([]string, 0, len(eqratio3Patterns))
	for _, pattern := range eqratio3Patterns {
		args := make([]quantity.Point, len(pattern))
		for i, j := range pattern {
			args[i] = s.Args[j]
		}
		parts = append(parts, prettyEqRatio(Statement{Kind: EqRatio, Args: args}))
	}
	return strings.Join(parts, ", ")
}

func prettyPara(s Statement) string {
	return seg(s.Args[0], s.Args[1]) + " // " + seg(s.Args[2], s.Args[3])
}

func prettyPerp(s Statement) string {
	return seg(s.Args[0], s.Args[1]) + " _|_ " + seg(s.Args[2], s.Args[3])
}

func prettyAConst(s Statement) string {
	v := "0"
	if s.Value.Sign() != 0 {
		v = s.Value.RatString() + "pi"
	}
	return angleGroups(s.Args)[0] + " = " + v
}

func prettyEqAngle(s Statement) string {
	return strings.Join(angleGroups(s.Args), " = ")
}
