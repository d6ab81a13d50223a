package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ratiochase/pkg/cache"
	errs "github.com/matzehuels/ratiochase/pkg/errors"
	"github.com/matzehuels/ratiochase/pkg/numeric"
	"github.com/matzehuels/ratiochase/pkg/observability"
	"github.com/matzehuels/ratiochase/pkg/predicate"
	"github.com/matzehuels/ratiochase/pkg/problem"
	"github.com/matzehuels/ratiochase/pkg/proof"
	"github.com/matzehuels/ratiochase/pkg/session"
)

// Runner executes the pipeline. It holds the canonical-form memo shared by
// every session it creates and is safe for concurrent use with different
// problems.
type Runner struct {
	Memo   cache.Cache
	Canon  *predicate.Canonicalizer
	Logger *log.Logger
}

// NewRunner creates a runner memoizing canonical forms in memo. A nil memo
// disables memoization and a nil logger uses log.Default.
func NewRunner(memo cache.Cache, logger *log.Logger) *Runner {
	if memo == nil {
		memo = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Memo:   memo,
		Canon:  predicate.NewCanonicalizer(memo, CanonTTL),
		Logger: logger,
	}
}

// Execute runs load -> prove -> render for p.
func (r *Runner) Execute(ctx context.Context, p *problem.Problem, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := observability.Pipeline()

	result := &Result{
		Problem:   p,
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	hooks.OnLoadStart(ctx, p.Name)
	sess, goals, err := r.Load(ctx, p, opts)
	result.Stats.LoadTime = time.Since(loadStart)
	hooks.OnLoadComplete(ctx, p.Name, len(p.Premises), len(p.Goals), result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p.Name, err)
	}
	result.SessionID = sess.ID
	result.Stats.Premises = len(p.Premises)
	result.Stats.Goals = len(goals)

	logger := opts.Logger.With("session", sess.ID)
	logger.Info("loaded problem",
		"problem", p.Name,
		"premises", len(p.Premises),
		"goals", len(goals),
		"duration", result.Stats.LoadTime)

	// Stage 2: Prove
	proveStart := time.Now()
	result.Goals, err = r.Prove(ctx, sess, p, goals, opts)
	if err != nil {
		return nil, fmt.Errorf("prove: %w", err)
	}
	result.Stats.ProveTime = time.Since(proveStart)
	result.Stats.Facts = sess.State.Graph.Len()
	result.Stats.Ratios, result.Stats.Angles = sess.State.Stats()

	logger.Info("proved goals",
		"proved", result.Proved(),
		"goals", len(goals),
		"facts", result.Stats.Facts,
		"duration", result.Stats.ProveTime)

	var facts []proof.ID
	for _, g := range result.Goals {
		if g.Status == StatusProved {
			facts = append(facts, g.Fact)
		}
	}
	if len(facts) == 0 {
		logger.Warn("no goal proved, nothing to render")
		return result, nil
	}
	result.Trace, err = sess.Trace(facts...)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	// Stage 3: Render
	renderStart := time.Now()
	rendered, err := r.Render(ctx, result.Trace, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Graph = rendered.Graph
	result.Artifacts = rendered.Artifacts
	result.Stats.Crossings = rendered.Crossings
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"nodes", rendered.Graph.NodeCount(),
		"crossings", rendered.Crossings,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load parses the problem's statements and assumes its premises in a new
// session. It returns the canonical goals in problem order. A premise that
// contradicts the earlier ones is a hard error.
func (r *Runner) Load(ctx context.Context, p *problem.Problem, opts Options) (*session.Session, []predicate.Statement, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, fmt.Errorf("invalid options: %w", err)
	}

	premises, goals, err := p.Statements(r.Canon)
	if err != nil {
		return nil, nil, err
	}

	sess := session.New(p.Name, r.Canon)
	logger := opts.Logger.With("session", sess.ID)
	coords := r.coordinates(p, opts)
	for i, s := range premises {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if coords != nil {
			if ok, err := predicate.CheckNumerical(s, coords, opts.Tolerance); err == nil && !ok {
				logger.Warn("premise does not hold in the figure", "premise", p.Premises[i])
			}
		}
		if _, err := sess.Assume(s); err != nil {
			return nil, nil, fmt.Errorf("premise %d (%s): %w", i+1, p.Premises[i], err)
		}
	}
	return sess, goals, nil
}

// Prove attempts every goal. With opts.Parallel > 1 each goal is proved on
// its own clone of sess, at most opts.Parallel at a time; the goals that
// were proved are then derived once more on sess so that a single trace
// covers all of them. Proving only queries the session, so contradictions
// come from Load; a per-goal failure is reported in its GoalResult.
func (r *Runner) Prove(ctx context.Context, sess *session.Session, p *problem.Problem, goals []predicate.Statement, opts Options) ([]GoalResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	coords := r.coordinates(p, opts)
	results := make([]GoalResult, len(goals))
	attempt := func(ctx context.Context, s *session.Session, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		results[i] = r.proveGoal(ctx, s, p.Goals[i], goals[i], coords, opts)
		return nil
	}

	if opts.Parallel <= 1 || len(goals) < 2 {
		for i := range goals {
			if err := attempt(ctx, sess, i); err != nil {
				return nil, err
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)
	for i := range goals {
		branch := sess.Clone()
		opts.Logger.Debug("branching", "goal", p.Goals[i], "branch", branch.ID, "parent", sess.ID)
		g.Go(func() error { return attempt(gctx, branch, i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range results {
		if results[i].Status != StatusProved {
			continue
		}
		replay := sess.Prove(goals[i])
		if replay.Err != nil || !replay.Proved {
			return nil, errs.Wrap(errs.ErrCodeInternal, replay.Err, "goal %q proved on a branch but not on the root session", p.Goals[i])
		}
		results[i].Fact = replay.Fact
	}
	return results, nil
}

func (r *Runner) proveGoal(ctx context.Context, s *session.Session, text string, goal predicate.Statement, coords numeric.Validator, opts Options) (res GoalResult) {
	hooks := observability.Pipeline()
	hooks.OnProveStart(ctx, goal.Key())
	start := time.Now()
	logger := opts.Logger.With("session", s.ID, "goal", text)

	res = GoalResult{Text: text, Statement: goal}
	defer func() {
		res.Duration = time.Since(start)
		hooks.OnProveComplete(ctx, goal.Key(), res.Status == StatusProved, res.Duration, res.Err)
	}()

	if coords != nil {
		ok, err := predicate.CheckNumerical(goal, coords, opts.Tolerance)
		switch {
		case err != nil:
			logger.Warn("numeric check skipped", "err", err)
		case !ok:
			logger.Info("goal is false in the figure")
			res.Status = StatusNumericallyFalse
			return res
		}
	}

	out := s.Prove(goal)
	switch {
	case out.Err != nil:
		logger.Error("goal failed", "err", out.Err)
		res.Status, res.Err = StatusError, out.Err
	case out.Proved:
		res.Status, res.Fact = StatusProved, out.Fact
		tr, err := s.Trace(out.Fact)
		if err != nil {
			res.Status, res.Err = StatusError, err
			return res
		}
		res.Trace = tr
		logger.Debug("goal proved", "steps", len(tr.Steps()))
	default:
		logger.Debug("goal not derived")
	}
	return res
}

func (r *Runner) coordinates(p *problem.Problem, opts Options) numeric.Validator {
	if opts.NoNumeric || !p.HasCoordinates() {
		return nil
	}
	return p.Coordinates()
}

// Close releases the canonical-form memo.
func (r *Runner) Close() error {
	if r.Memo != nil {
		return r.Memo.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
