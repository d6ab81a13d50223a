package linear

import (
	"errors"
	"fmt"
	"maps"
	"math/big"
	"slices"
	"strings"

	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// ErrNonPositiveRatio is returned by [Ratio] for r <= 0, which has no
// logarithm.
var ErrNonPositiveRatio = errors.New("ratio must be positive")

// trialLimit bounds trial division when factoring ratio constants.
const trialLimit = 1 << 20

// Const is an exact constant of one quantity kind. The zero value is the
// zero Length constant. Const values are immutable; every operation returns
// a new value.
type Const struct {
	kind quantity.Kind
	pi   *big.Rat            // Angle: multiple of pi in [0, 1); nil means 0
	logs map[string]*big.Rat // Length: prime (decimal) -> exponent, no zeros
}

// Zero returns the zero constant of kind.
func Zero(kind quantity.Kind) Const { return Const{kind: kind} }

// Angle returns r*pi reduced modulo pi.
func Angle(r *big.Rat) Const {
	return Const{kind: quantity.Angle, pi: modOne(r)}
}

// Ratio returns log r for a positive rational r.
func Ratio(r *big.Rat) (Const, error) {
	if r.Sign() <= 0 {
		return Const{}, fmt.Errorf("%w: %s", ErrNonPositiveRatio, r.RatString())
	}
	logs := make(map[string]*big.Rat)
	for p, e := range factor(r.Num()) {
		logs[p] = new(big.Rat).SetInt64(e)
	}
	for p, e := range factor(r.Denom()) {
		addExp(logs, p, new(big.Rat).SetInt64(-e))
	}
	return Const{kind: quantity.Length, logs: logs}, nil
}

// MustRatio is like Ratio but panics on a non-positive r.
// It is intended for constants written in source code and tests.
func MustRatio(r *big.Rat) Const {
	c, err := Ratio(r)
	if err != nil {
		panic(err)
	}
	return c
}

// Kind returns the kind the constant belongs to.
func (c Const) Kind() quantity.Kind { return c.kind }

// IsZero reports whether c is the zero constant.
func (c Const) IsZero() bool {
	if c.kind == quantity.Angle {
		return c.pi == nil || c.pi.Sign() == 0
	}
	return len(c.logs) == 0
}

// Equal reports whether c and o are the same constant of the same kind.
func (c Const) Equal(o Const) bool {
	if c.kind != o.kind {
		return false
	}
	if c.kind == quantity.Angle {
		return ratOrZero(c.pi).Cmp(ratOrZero(o.pi)) == 0
	}
	return maps.EqualFunc(c.logs, o.logs, func(a, b *big.Rat) bool { return a.Cmp(b) == 0 })
}

// Add returns c + o. It panics if the kinds differ.
func (c Const) Add(o Const) Const {
	mustSameKind(c, o)
	if c.kind == quantity.Angle {
		return Angle(new(big.Rat).Add(ratOrZero(c.pi), ratOrZero(o.pi)))
	}
	logs := cloneLogs(c.logs)
	for p, e := range o.logs {
		addExp(logs, p, e)
	}
	return Const{kind: c.kind, logs: logs}
}

// Neg returns -c.
func (c Const) Neg() Const {
	if c.kind == quantity.Angle {
		return Angle(new(big.Rat).Neg(ratOrZero(c.pi)))
	}
	logs := make(map[string]*big.Rat, len(c.logs))
	for p, e := range c.logs {
		logs[p] = new(big.Rat).Neg(e)
	}
	return Const{kind: c.kind, logs: logs}
}

// Sub returns c - o. It panics if the kinds differ.
func (c Const) Sub(o Const) Const { return c.Add(o.Neg()) }

// Mul returns k*c. For angles the product is only well defined modulo pi
// when k is an integer; ok is false otherwise.
func (c Const) Mul(k *big.Rat) (_ Const, ok bool) {
	if c.kind == quantity.Angle {
		if !k.IsInt() {
			return Const{}, false
		}
		return Angle(new(big.Rat).Mul(ratOrZero(c.pi), k)), true
	}
	if k.Sign() == 0 {
		return Zero(c.kind), true
	}
	logs := make(map[string]*big.Rat, len(c.logs))
	for p, e := range c.logs {
		logs[p] = new(big.Rat).Mul(e, k)
	}
	return Const{kind: c.kind, logs: logs}, true
}

// Div returns c/k. Division by zero is never ok; for angles only k = 1 and
// k = -1 are accepted since halving a direction modulo pi has two answers.
func (c Const) Div(k *big.Rat) (_ Const, ok bool) {
	if k.Sign() == 0 {
		return Const{}, false
	}
	if c.kind == quantity.Angle {
		if !isUnit(k) {
			return Const{}, false
		}
		return c.Mul(k)
	}
	return c.Mul(new(big.Rat).Inv(k))
}

// Pi returns the multiple of pi an Angle constant stands for, in [0, 1).
// It returns nil for Length constants.
func (c Const) Pi() *big.Rat {
	if c.kind != quantity.Angle {
		return nil
	}
	return new(big.Rat).Set(ratOrZero(c.pi))
}

// Rat returns the rational r with c = log r. ok is false for Angle constants
// and for logs of irrational numbers (fractional exponents).
func (c Const) Rat() (_ *big.Rat, ok bool) {
	if c.kind != quantity.Length {
		return nil, false
	}
	num, den := big.NewInt(1), big.NewInt(1)
	for p, e := range c.logs {
		if !e.IsInt() {
			return nil, false
		}
		base, _ := new(big.Int).SetString(p, 10)
		pow := new(big.Int).Exp(base, new(big.Int).Abs(e.Num()), nil)
		if e.Sign() > 0 {
			num.Mul(num, pow)
		} else {
			den.Mul(den, pow)
		}
	}
	return new(big.Rat).SetFrac(num, den), true
}

// String renders angle constants as a fraction of pi ("1/3pi") and length
// constants as log(r).
func (c Const) String() string {
	if c.kind == quantity.Angle {
		if c.IsZero() {
			return "0"
		}
		return c.pi.RatString() + "pi"
	}
	if r, ok := c.Rat(); ok {
		return "log(" + r.RatString() + ")"
	}
	bases := slices.SortedFunc(maps.Keys(c.logs), compareDecimal)
	parts := make([]string, len(bases))
	for i, p := range bases {
		parts[i] = p + "^" + c.logs[p].RatString()
	}
	return "log(" + strings.Join(parts, "*") + ")"
}

func mustSameKind(a, b Const) {
	if a.kind != b.kind {
		panic(fmt.Sprintf("linear: mixing %s and %s constants", a.kind, b.kind))
	}
}

func ratOrZero(r *big.Rat) *big.Rat {
	if r == nil {
		return new(big.Rat)
	}
	return r
}

func isUnit(k *big.Rat) bool {
	return k.IsInt() && k.Num().IsInt64() && (k.Num().Int64() == 1 || k.Num().Int64() == -1)
}

// modOne returns r - floor(r).
func modOne(r *big.Rat) *big.Rat {
	// Denominators of big.Rat are positive, so Euclidean division is floor.
	q := new(big.Int).Div(r.Num(), r.Denom())
	return new(big.Rat).Sub(r, new(big.Rat).SetInt(q))
}

func cloneLogs(m map[string]*big.Rat) map[string]*big.Rat {
	out := make(map[string]*big.Rat, len(m))
	for p, e := range m {
		out[p] = new(big.Rat).Set(e)
	}
	return out
}

func addExp(m map[string]*big.Rat, p string, e *big.Rat) {
	sum := new(big.Rat).Add(ratOrZero(m[p]), e)
	if sum.Sign() == 0 {
		delete(m, p)
		return
	}
	m[p] = sum
}

func compareDecimal(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

// factor returns the prime factorization of n > 0 as decimal prime ->
// exponent. A cofactor without divisors below trialLimit is reported as if it
// were prime.
func factor(n *big.Int) map[string]int64 {
	out := make(map[string]int64)
	if n.Sign() <= 0 {
		return out
	}
	rest := new(big.Int).Set(n)
	one := big.NewInt(1)
	d, q, r := new(big.Int), new(big.Int), new(big.Int)
	for p := int64(2); p < trialLimit; p++ {
		if rest.Cmp(one) == 0 {
			break
		}
		d.SetInt64(p)
		if new(big.Int).Mul(d, d).Cmp(rest) > 0 {
			break
		}
		for {
			q.QuoRem(rest, d, r)
			if r.Sign() != 0 {
				break
			}
			rest.Set(q)
			out[d.String()]++
		}
	}
	if rest.Cmp(one) != 0 {
		out[rest.String()]++
	}
	return out
}
