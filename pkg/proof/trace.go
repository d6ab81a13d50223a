package proof

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	errs "github.com/matzehuels/ratiochase/pkg/errors"
)

// Line is one numbered fact of a [Trace].
type Line struct {
	Label       string // three digit label, "001" first
	Statement   string // canonical statement text
	Rule        Rule
	Antecedents []string // labels of cited lines
	Premise     bool
}

// String renders the line as "<statement> [label]" for premises and
// "<statement> [label] <rule> [a] [b]" for derivations.
func (l Line) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]", l.Statement, l.Label)
	if l.Premise {
		return b.String()
	}
	b.WriteString(" ")
	b.WriteString(string(l.Rule))
	for _, a := range l.Antecedents {
		fmt.Fprintf(&b, " [%s]", a)
	}
	return b.String()
}

// Trace is the self-contained part of a graph that a set of goals depends
// on. Lines are in creation order, so every antecedent label refers to an
// earlier line.
type Trace struct {
	Lines []Line
	Goals []string // labels of the requested goals
}

// Premises returns the premise lines.
func (t Trace) Premises() []Line {
	var out []Line
	for _, l := range t.Lines {
		if l.Premise {
			out = append(out, l)
		}
	}
	return out
}

// Steps returns the derivation lines.
func (t Trace) Steps() []Line {
	var out []Line
	for _, l := range t.Lines {
		if !l.Premise {
			out = append(out, l)
		}
	}
	return out
}

// String renders the trace in the <problem>/<proof> block format.
func (t Trace) String() string {
	var b strings.Builder
	b.WriteString("<problem>\n")
	for _, l := range t.Premises() {
		b.WriteString(l.String())
		b.WriteString(";\n")
	}
	b.WriteString("</problem>\n<proof>\n")
	for _, l := range t.Steps() {
		b.WriteString(l.String())
		b.WriteString(";\n")
	}
	b.WriteString("</proof>\n")
	return b.String()
}

// Trace extracts the sub-graph reachable from goals. It returns an
// UNKNOWN_FACT error if a goal does not exist.
func (g *Graph) Trace(goals ...ID) (Trace, error) {
	for _, id := range goals {
		if _, ok := g.Fact(id); !ok {
			return Trace{}, errs.Wrap(errs.ErrCodeUnknownFact, ErrUnknownFact, "goal %d", id)
		}
	}
	ids := make([]ID, 0)
	for id := range g.closure(goals) {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	labels := make(map[ID]string, len(ids))
	t := Trace{Lines: make([]Line, 0, len(ids))}
	for i, id := range ids {
		f := g.facts[id]
		labels[id] = label(i + 1)
		l := Line{
			Label:     labels[id],
			Statement: f.Key(),
			Rule:      f.Rule,
			Premise:   f.IsPremise(),
		}
		for _, a := range f.Antecedents {
			l.Antecedents = append(l.Antecedents, labels[a])
		}
		t.Lines = append(t.Lines, l)
	}
	for _, id := range goals {
		t.Goals = append(t.Goals, labels[id])
	}
	return t, nil
}

func label(n int) string { return fmt.Sprintf("%03d", n) }

var (
	problemBlock = regexp.MustCompile(`(?s)<problem>(.*?)</problem>`)
	proofBlock   = regexp.MustCompile(`(?s)<proof>(.*?)</proof>`)
	labelRef     = regexp.MustCompile(`\[(\d{3,})\]`)
	ruleName     = regexp.MustCompile(`^(\w+)`)
)

// ParseTrace reads the block format written by Trace.String. Premises come
// from the <problem> block, derivations from the <proof> block. Derivations
// citing labels that were never defined are rejected with INVALID_FORMAT.
func ParseTrace(text string) (Trace, error) {
	var t Trace
	defined := make(map[string]bool)

	if m := problemBlock.FindStringSubmatch(text); m != nil {
		for _, seg := range segments(m[1]) {
			loc := labelRef.FindStringSubmatchIndex(seg)
			if loc == nil {
				return Trace{}, errs.New(errs.ErrCodeInvalidFormat, "premise %q has no label", seg)
			}
			l := Line{
				Label:     seg[loc[2]:loc[3]],
				Statement: strings.TrimSpace(seg[:loc[0]]),
				Rule:      RulePremise,
				Premise:   true,
			}
			defined[l.Label] = true
			t.Lines = append(t.Lines, l)
		}
	}

	m := proofBlock.FindStringSubmatch(text)
	if m == nil {
		return Trace{}, errs.New(errs.ErrCodeInvalidFormat, "no <proof> block")
	}
	for _, seg := range segments(m[1]) {
		loc := labelRef.FindStringSubmatchIndex(seg)
		if loc == nil {
			return Trace{}, errs.New(errs.ErrCodeInvalidFormat, "step %q has no label", seg)
		}
		l := Line{
			Label:     seg[loc[2]:loc[3]],
			Statement: strings.TrimSpace(seg[:loc[0]]),
		}
		rest := strings.TrimSpace(seg[loc[1]:])
		rm := ruleName.FindStringSubmatch(rest)
		if rm == nil {
			return Trace{}, errs.New(errs.ErrCodeInvalidFormat, "step [%s] has no rule", l.Label)
		}
		l.Rule = Rule(rm[1])
		for _, ref := range labelRef.FindAllStringSubmatch(rest, -1) {
			if !defined[ref[1]] {
				return Trace{}, errs.New(errs.ErrCodeInvalidFormat, "step [%s] cites undefined [%s]", l.Label, ref[1])
			}
			l.Antecedents = append(l.Antecedents, ref[1])
		}
		defined[l.Label] = true
		t.Lines = append(t.Lines, l)
	}
	if n := len(t.Lines); n > 0 {
		t.Goals = []string{t.Lines[n-1].Label}
	}
	return t, nil
}

func segments(block string) []string {
	var out []string
	for _, s := range strings.Split(block, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
