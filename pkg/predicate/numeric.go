package predicate

import (
	"math"

	"github.com/matzehuels/ratiochase/pkg/numeric"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// CheckNumerical evaluates s on a concrete figure. It is the conjunction of
// the numeric checks of the primitives of s and never touches a State.
//
// An error means the figure cannot evaluate s (a point without coordinates,
// coinciding positions), not that s is false.
func CheckNumerical(s Statement, v numeric.Validator, tol numeric.Tolerance) (bool, error) {
	prims, err := Decompose(s)
	if err != nil {
		return false, err
	}
	for _, p := range prims {
		ok, err := checkPrimitive(p, v, tol)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func checkPrimitive(s Statement, v numeric.Validator, tol numeric.Tolerance) (bool, error) {
	kind := s.Kind.Table()
	a := s.Args
	first, err := v.Measure(kind, a[0], a[1], a[2], a[3])
	if err != nil {
		return false, err
	}
	switch s.Kind {
	case Cong:
		return tol.Close(first, 1), nil
	case RConst:
		r, _ := s.Value.Float64()
		return tol.Close(first, r), nil
	case Para:
		return tol.CloseAngle(first, 0), nil
	case Perp:
		return tol.CloseAngle(first, math.Pi/2), nil
	case AConst:
		r, _ := s.Value.Float64()
		return tol.CloseAngle(first, r*math.Pi), nil
	}

	// eqratio, eqangle: every group measures like the first one
	for i := 4; i+3 < len(a); i += 4 {
		m, err := v.Measure(kind, a[i], a[i+1], a[i+2], a[i+3])
		if err != nil {
			return false, err
		}
		same := tol.Close(m, first)
		if kind == quantity.Angle {
			same = tol.CloseAngle(m, first)
		}
		if !same {
			return false, nil
		}
	}
	return true, nil
}
