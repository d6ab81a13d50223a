package quantity

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

var (
	// ErrDegeneratePair is returned by [Registry.Get] when both points of the
	// pair are the same. A segment or line needs two distinct points.
	ErrDegeneratePair = errors.New("degenerate point pair")

	// ErrUnknownKind is returned by [Registry.Get] for a Kind outside
	// Length and Angle.
	ErrUnknownKind = errors.New("unknown quantity kind")
)

// Kind distinguishes the algebra a quantity lives in.
type Kind uint8

const (
	// Length is a segment length, chased multiplicatively (log scale).
	Length Kind = iota
	// Angle is a line direction modulo pi, chased additively.
	Angle
)

// kindCount is the number of valid kinds, used to size per-kind arrays.
const kindCount = 2

// String returns "length" or "angle".
func (k Kind) String() string {
	switch k {
	case Length:
		return "length"
	case Angle:
		return "angle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is Length or Angle.
func (k Kind) Valid() bool { return k < kindCount }

// Point is a point identifier as written in statements (a, B, p1).
type Point string

// ComparePoints is the total order over point names. It returns a negative
// number when a sorts before b, zero when they are equal and a positive number
// otherwise.
//
// Names are split into an alphabetic prefix and a trailing decimal suffix.
// Prefixes compare first (shorter prefix first, then lexically), then the
// numeric suffix as an integer (a missing suffix sorts first), then the raw
// strings as a tie breaker so that the order is total.
func ComparePoints(a, b Point) int {
	if a == b {
		return 0
	}
	pa, na, oka := splitName(string(a))
	pb, nb, okb := splitName(string(b))
	if c := cmp.Compare(len(pa), len(pb)); c != 0 {
		return c
	}
	if c := strings.Compare(pa, pb); c != 0 {
		return c
	}
	switch {
	case !oka && okb:
		return -1
	case oka && !okb:
		return 1
	case oka && okb:
		if c := cmp.Compare(na, nb); c != 0 {
			return c
		}
	}
	return strings.Compare(string(a), string(b))
}

func splitName(s string) (prefix string, n uint64, hasNum bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0, false
	}
	v, err := strconv.ParseUint(s[i:], 10, 64)
	if err != nil {
		return s, 0, false
	}
	return s[:i], v, true
}

// ID is the dense identity of a quantity within one [Registry].
type ID int

// Quantity is an interned measurable magnitude.
//
// A and B hold the defining pair in point order (ComparePoints(A, B) < 0).
type Quantity struct {
	ID   ID
	Kind Kind
	A, B Point
}

// String renders the quantity as |ab| for lengths and dir(ab) for angles.
func (q Quantity) String() string {
	if q.Kind == Length {
		return "|" + string(q.A) + string(q.B) + "|"
	}
	return "dir(" + string(q.A) + string(q.B) + ")"
}

type key struct {
	kind Kind
	a, b Point
}

// Registry interns quantities. The zero value is not usable; use NewRegistry.
//
// Registry is not safe for concurrent use. Proof branches that run in parallel
// each work on their own copy (see Clone).
type Registry struct {
	items []Quantity
	index map[key]ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[key]ID)}
}

func (r *Registry) intern(k key) ID {
	if id, ok := r.index[k]; ok {
		return id
	}
	id := ID(len(r.items))
	r.items = append(r.items, Quantity{ID: id, Kind: k.kind, A: k.a, B: k.b})
	r.index[k] = id
	return id
}

// Get returns the quantity of the given kind defined by points a and b,
// creating it on first use. The order of a and b does not matter.
//
// Returns ErrDegeneratePair if a == b or either point is empty, and
// ErrUnknownKind for an invalid kind.
func (r *Registry) Get(kind Kind, a, b Point) (Quantity, error) {
	if !kind.Valid() {
		return Quantity{}, ErrUnknownKind
	}
	if a == b || a == "" || b == "" {
		return Quantity{}, fmt.Errorf("%w: %s%s", ErrDegeneratePair, a, b)
	}
	if ComparePoints(b, a) < 0 {
		a, b = b, a
	}
	return r.items[r.intern(key{kind: kind, a: a, b: b})], nil
}

// Lookup returns the quantity with the given id.
func (r *Registry) Lookup(id ID) (Quantity, bool) {
	if id < 0 || int(id) >= len(r.items) {
		return Quantity{}, false
	}
	return r.items[id], true
}

// Len returns the number of interned quantities.
// Valid ids are 0 through Len()-1.
func (r *Registry) Len() int { return len(r.items) }

// Clone returns an independent copy of the registry. Quantities interned in
// the copy afterwards do not appear in r and vice versa, but ids that existed
// at clone time are shared.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		items: make([]Quantity, len(r.items)),
		index: make(map[key]ID, len(r.index)),
	}
	copy(c.items, r.items)
	maps.Copy(c.index, r.index)
	return c
}
