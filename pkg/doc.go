// Package pkg provides the core libraries of ratiochase.
//
// # Overview
//
// Ratiochase decides whether geometric goals about segment ratios and
// angles follow from premises by linear reasoning, and explains the
// derivations it finds. Statements are canonicalized, turned into linear
// equations over interned quantities and merged into union-find closure
// tables whose offsets are exact rationals. Every merge remembers the fact
// that justified it, so a derived goal comes with a proof trace.
//
// # Architecture
//
// The typical data flow:
//
//	problem file (TOML)
//	         ↓
//	    [problem] package (premises, goals, coordinates)
//	         ↓
//	    [predicate] package (canonical statements → linear equations)
//	         ↓
//	    [chase] package (closure tables) + [proof] package (justification graph)
//	         ↓
//	    [dag] package (layered proof graph)
//	         ↓
//	    [render/nodelink] package (DOT/SVG) and [io] package (JSON)
//
// [pipeline] runs these stages for the CLI. [session] bundles one deduction
// context and clones it for parallel goals.
//
// # Quick Start
//
// Prove the goals of a problem file and print the trace:
//
//	p, _ := problem.Load("examples/problems/thales.toml")
//	runner := pipeline.NewRunner(cache.NewMemoryCache(pipeline.CanonTTL, time.Minute), nil)
//	defer runner.Close()
//
//	res, err := runner.Execute(ctx, p, pipeline.Options{
//	    Formats: []string{pipeline.FormatText, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err // contradicting premises, malformed statements
//	}
//	fmt.Print(string(res.Artifacts[pipeline.FormatText]))
//
// Work with the deduction core directly:
//
//	st := predicate.NewState()
//	s, _ := predicate.Parse("rconst a b c d 2")
//	st.Assume(s)
//	goal, _ := predicate.Parse("rconst c d a b 1/2")
//	id, proved, _ := st.Prove(goal)
//	trace, _ := st.Graph.Trace(id)
//
// # Main Packages
//
// ## Deduction
//
// [quantity] - Points and interned Length / Angle quantities.
//
// [linear] - Exact constants and sparse linear terms over quantities.
//
// [chase] - Closure tables: union-find with rational offsets, pending
// equations and explanations of derived relations.
//
// [proof] - Append-only justification graph, trace extraction and parsing.
//
// [predicate] - Predicate table, canonicalization, decomposition, and the
// check / add / why operations on a deduction state.
//
// [numeric] - Numeric validation against point coordinates.
//
// [perm] - Permutation helpers used to enumerate statement symmetries.
//
// ## Proof Graphs
//
// [dag] - Row-layered graph of facts and rule applications.
//
// [dag/transform] - Layering, edge subdivision, cycle breaking and row
// ordering. [transform.Layer] runs the complete layering.
//
// [render/nodelink] - Graphviz DOT generation and SVG rendering.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// [io] - JSON export and import of proof graphs.
//
// ## Infrastructure
//
// [pipeline] - Load → prove → render, shared by every CLI command.
//
// [session] - Proof sessions with UUIDs and cloning for parallel branches.
//
// [problem] - TOML problem files.
//
// [cache] - Canonical-form memo (in-memory TTL cache or no-op).
//
// [observability] - Hooks for metrics; the CLI installs a Prometheus
// implementation.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/chase/...        # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [quantity]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/quantity
// [linear]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/linear
// [chase]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/chase
// [proof]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/proof
// [predicate]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/predicate
// [numeric]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/numeric
// [perm]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/perm
// [dag]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/dag/transform
// [transform.Layer]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/dag/transform#Layer
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/render/nodelink
// [render]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/pipeline
// [session]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/session
// [problem]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/problem
// [cache]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/ratiochase/pkg/buildinfo
package pkg
