// Package pipeline runs a problem end to end: load -> assume -> prove ->
// trace -> render.
//
// # Architecture
//
//  1. Load: parse the problem's premises and goals and assume the premises
//     in a fresh [session.Session]. A contradiction among the premises
//     aborts the run.
//  2. Prove: each goal is first checked against the problem's coordinates
//     (when present). Goals that are numerically false are not attempted.
//     The rest are proved by the closure tables, sequentially or on one
//     session clone per goal.
//  3. Render: the proof of all proved goals is extracted as a trace,
//     layered and written in the requested formats.
//
// # Usage
//
//	runner := pipeline.NewRunner(memo, logger)
//	defer runner.Close()
//
//	p, _ := problem.Load("examples/problems/thales.toml")
//	result, err := runner.Execute(ctx, p, pipeline.Options{Formats: []string{"text", "svg"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(string(result.Artifacts["text"]))
package pipeline

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ratiochase/pkg/chase"
	"github.com/matzehuels/ratiochase/pkg/dag"
	"github.com/matzehuels/ratiochase/pkg/numeric"
	"github.com/matzehuels/ratiochase/pkg/predicate"
	"github.com/matzehuels/ratiochase/pkg/problem"
	"github.com/matzehuels/ratiochase/pkg/proof"
)

const (
	// DefaultParallel is the number of goals proved concurrently.
	DefaultParallel = 4

	// DefaultOrderingPasses is the number of barycenter sweeps used to order
	// the rows of the rendered proof graph.
	DefaultOrderingPasses = 24

	// DefaultPNGScale is the resolution multiplier for PNG output.
	DefaultPNGScale = 2.0

	// CanonTTL is how long canonical forms stay memoized.
	CanonTTL = 10 * time.Minute
)

// Format constants for output formats.
const (
	FormatText  = "text"  // <problem>/<proof> trace
	FormatJSON  = "json"  // nodes/links viewer format
	FormatGraph = "graph" // full layered graph, re-importable
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText:  true,
	FormatJSON:  true,
	FormatGraph: true,
	FormatDOT:   true,
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		names := slices.Sorted(maps.Keys(ValidFormats))
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format, strings.Join(names, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	// Prove options
	Parallel  int               // goals proved concurrently; 1 proves on the root session
	NoNumeric bool              // skip the coordinate pre-filter
	Tolerance numeric.Tolerance // zero value means numeric.DefaultTolerance

	// Render options
	Formats  []string
	Detailed bool // trace labels and rows in DOT labels
	Pretty   bool // AB:CD = EF:GH labels instead of canonical text

	// Runtime options
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Parallel < 0 {
		return fmt.Errorf("parallel must not be negative, got %d", o.Parallel)
	}
	if o.Parallel == 0 {
		o.Parallel = DefaultParallel
	}
	if o.Tolerance == (numeric.Tolerance{}) {
		o.Tolerance = numeric.DefaultTolerance
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Status is the outcome of one goal.
type Status int

const (
	// StatusNotDerived means the closure tables do not imply the goal.
	StatusNotDerived Status = iota
	// StatusProved means the goal was derived.
	StatusProved
	// StatusNumericallyFalse means the goal fails in the problem's
	// coordinates and was not attempted.
	StatusNumericallyFalse
	// StatusError means the goal could not be checked.
	StatusError
)

var statusNames = [...]string{
	StatusNotDerived:       "not derived",
	StatusProved:           "proved",
	StatusNumericallyFalse: "numerically false",
	StatusError:            "error",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// GoalResult is the outcome of one goal.
type GoalResult struct {
	Text      string // goal as written in the problem
	Statement predicate.Statement
	Status    Status
	Fact      proof.ID    // fact id in the root session, set when proved
	Trace     proof.Trace // proof of this goal alone, set when proved
	Duration  time.Duration
	Err       error
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Problem   *problem.Problem
	SessionID string

	Goals []GoalResult

	// Trace covers every proved goal; empty when nothing was proved.
	Trace proof.Trace
	// Graph is the layered proof graph; nil when nothing was proved.
	Graph *dag.DAG

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats Stats
}

// Proved returns the number of proved goals.
func (r *Result) Proved() int {
	n := 0
	for _, g := range r.Goals {
		if g.Status == StatusProved {
			n++
		}
	}
	return n
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Premises   int
	Goals      int
	Facts      int // facts in the session's justification graph
	Crossings  int // edge crossings of the rendered row ordering
	Ratios     chase.Stats
	Angles     chase.Stats
	LoadTime   time.Duration
	ProveTime  time.Duration
	RenderTime time.Duration
}
