package predicate

import (
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/matzehuels/ratiochase/pkg/cache"
	errs "github.com/matzehuels/ratiochase/pkg/errors"
	"github.com/matzehuels/ratiochase/pkg/observability"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// ErrDegenerate is wrapped by every DEGENERATE_STATEMENT error.
var ErrDegenerate = errors.New("degenerate statement")

// Parse reads and canonicalizes a statement written as
//
//	<predicate> <point>... [<value>]
//
// Tokens are separated by whitespace. rconst takes a positive rational
// value ("2", "2/3", "0.5"). aconst takes a multiple of pi written as "1/3",
// "pi/3" or "1pi/3".
func Parse(text string) (Statement, error) {
	kind, args, value, err := tokens(text)
	if err != nil {
		return Statement{}, err
	}
	return canonicalize(kind, args, value, text)
}

// Canonicalize returns the canonical form of s, or a DEGENERATE_STATEMENT
// error when it has none.
func Canonicalize(s Statement) (Statement, error) {
	sp, ok := s.Kind.spec()
	if !ok {
		return Statement{}, errs.New(errs.ErrCodeUnknownPredicate, "unknown predicate %s", s.Kind)
	}
	if !sp.arityOK(len(s.Args)) {
		return Statement{}, errArity(s.Kind, len(s.Args))
	}
	if sp.valued != (s.Value != nil) {
		return Statement{}, errs.New(errs.ErrCodeInvalidValue, "%s: value mismatch", s.Key())
	}
	return canonicalize(s.Kind, s.Args, s.Value, s.Key())
}

func canonicalize(kind Kind, args []quantity.Point, value *big.Rat, text string) (Statement, error) {
	s, ok := Preparse(kind, args, value)
	if !ok {
		return Statement{}, errs.Wrap(errs.ErrCodeDegenerate, ErrDegenerate, "%s", strings.TrimSpace(text))
	}
	return s, nil
}

// tokens splits a statement into predicate, points and value without
// canonicalizing it.
func tokens(text string) (Kind, []quantity.Point, *big.Rat, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, nil, nil, errs.New(errs.ErrCodeInvalidStatement, "statement is empty")
	}
	if err := errs.ValidatePredicateName(fields[0]); err != nil {
		return 0, nil, nil, err
	}
	kind, ok := KindOf(fields[0])
	if !ok {
		return 0, nil, nil, errs.New(errs.ErrCodeUnknownPredicate, "unknown predicate %q", fields[0])
	}
	sp, _ := kind.spec()

	rest := fields[1:]
	var value *big.Rat
	if sp.valued {
		if len(rest) == 0 {
			return 0, nil, nil, errs.New(errs.ErrCodeInvalidStatement, "%s expects a value", kind)
		}
		v, err := parseValue(rest[len(rest)-1], sp.table == quantity.Angle)
		if err != nil {
			return 0, nil, nil, err
		}
		value, rest = v, rest[:len(rest)-1]
	}
	if !sp.arityOK(len(rest)) {
		return 0, nil, nil, errArity(kind, len(rest))
	}

	args := make([]quantity.Point, len(rest))
	for i, name := range rest {
		if err := errs.ValidatePointName(name); err != nil {
			return 0, nil, nil, err
		}
		args[i] = quantity.Point(name)
	}
	return kind, args, value, nil
}

// parseValue reads a rational constant. For angles a "pi" factor may be
// written out and is dropped, since angle values are multiples of pi.
func parseValue(tok string, angle bool) (*big.Rat, error) {
	t := tok
	if angle && strings.Contains(t, "pi") {
		t = strings.Replace(t, "pi", "", 1)
		if t == "" || strings.HasPrefix(t, "/") {
			t = "1" + t
		}
	}
	r, ok := new(big.Rat).SetString(t)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidValue, "invalid value %q", tok)
	}
	return r, nil
}

// Canonicalizer parses statements and memoizes their canonical forms.
//
// Canonicalization is a pure function of the text, so a single
// Canonicalizer backed by a concurrency-safe cache can serve every proof
// branch. Only successful results are memoized.
type Canonicalizer struct {
	memo cache.Cache
	ttl  time.Duration
}

// NewCanonicalizer returns a Canonicalizer storing results in memo for ttl
// (zero uses the cache default). A nil memo disables memoization.
func NewCanonicalizer(memo cache.Cache, ttl time.Duration) *Canonicalizer {
	if memo == nil {
		memo = cache.NewNullCache()
	}
	return &Canonicalizer{memo: memo, ttl: ttl}
}

// Parse is the memoized form of the package level Parse.
func (c *Canonicalizer) Parse(text string) (Statement, error) {
	norm := strings.Join(strings.Fields(text), " ")
	key := cache.Key("canon", norm)

	if data, ok, err := c.memo.Get(key); err == nil && ok {
		if s, err := decode(string(data)); err == nil {
			observability.Cache().OnCacheHit("canonical")
			return s, nil
		}
	}
	observability.Cache().OnCacheMiss("canonical")

	s, err := Parse(norm)
	if err != nil {
		return Statement{}, err
	}
	data := []byte(s.Key())
	if err := c.memo.Set(key, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet("canonical", len(data))
	}
	return s, nil
}

// decode reads back a key produced by Statement.Key. The key is already
// canonical, so it is not canonicalized again.
func decode(key string) (Statement, error) {
	kind, args, value, err := tokens(key)
	if err != nil {
		return Statement{}, err
	}
	return Statement{Kind: kind, Args: args, Value: value}, nil
}
