// Package numeric evaluates statements on concrete coordinates.
//
// Numeric checks are a pre-filter: a goal that is false on the problem's
// coordinates is not worth a symbolic attempt. They are never the source of
// truth, and nothing here writes to the closure tables.
//
// The core only depends on the [Validator] interface. [Coordinates] is the
// plain Euclidean implementation the CLI builds from a problem file.
package numeric

import (
	"errors"
	"math"

	errs "github.com/matzehuels/ratiochase/pkg/errors"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

var (
	// ErrUnknownPoint is returned when a point has no coordinates.
	ErrUnknownPoint = errors.New("point has no coordinates")

	// ErrZeroLength is returned when a segment or line is defined by two
	// coinciding positions.
	ErrZeroLength = errors.New("zero length segment")
)

// Validator measures quantities on a concrete figure.
type Validator interface {
	// Measure returns |AB|/|CD| for Length, and for Angle the directed angle
	// from line CD to line AB, in [0, pi).
	Measure(kind quantity.Kind, a, b, c, d quantity.Point) (float64, error)
}

// Tolerance compares measurements. Two values are close when they differ by
// at most Abs or by at most Rel times the larger magnitude.
type Tolerance struct {
	Rel float64
	Abs float64
}

// DefaultTolerance is used when no tolerance is configured.
var DefaultTolerance = Tolerance{Rel: 1e-9, Abs: 1e-7}

// Close reports whether x and y are equal within the tolerance.
func (t Tolerance) Close(x, y float64) bool {
	d := math.Abs(x - y)
	return d <= t.Abs || d <= t.Rel*math.Max(math.Abs(x), math.Abs(y))
}

// CloseAngle reports whether x and y are equal modulo pi.
func (t Tolerance) CloseAngle(x, y float64) bool {
	d := math.Mod(x-y, math.Pi)
	if d < 0 {
		d += math.Pi
	}
	return t.Close(d, 0) || t.Close(d, math.Pi)
}

// Vec is a position in the plane.
type Vec struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Len returns the Euclidean norm of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Coordinates is a [Validator] over explicit point positions.
type Coordinates map[quantity.Point]Vec

func (c Coordinates) segment(a, b quantity.Point) (Vec, error) {
	pa, ok := c[a]
	if !ok {
		return Vec{}, errs.Wrap(errs.ErrCodeUnknownPoint, ErrUnknownPoint, "%s", a)
	}
	pb, ok := c[b]
	if !ok {
		return Vec{}, errs.Wrap(errs.ErrCodeUnknownPoint, ErrUnknownPoint, "%s", b)
	}
	v := pb.Sub(pa)
	if v.Len() == 0 {
		return Vec{}, errs.Wrap(errs.ErrCodeDegenerate, ErrZeroLength, "%s%s", a, b)
	}
	return v, nil
}

// Measure implements Validator.
func (c Coordinates) Measure(kind quantity.Kind, a, b, cc, d quantity.Point) (float64, error) {
	u, err := c.segment(a, b)
	if err != nil {
		return 0, err
	}
	v, err := c.segment(cc, d)
	if err != nil {
		return 0, err
	}
	if kind == quantity.Length {
		return u.Len() / v.Len(), nil
	}
	angle := math.Mod(direction(u)-direction(v), math.Pi)
	if angle < 0 {
		angle += math.Pi
	}
	return angle, nil
}

// direction returns the angle of v with the x axis, in (-pi, pi].
func direction(v Vec) float64 { return math.Atan2(v.Y, v.X) }
