// Package engine drives the per-project analysis loop and merges the
// results into the aggregates the renderers consume.
package engine

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/modreport/modreport/internal/diag"
	"github.com/modreport/modreport/internal/extract"
	"github.com/modreport/modreport/internal/loader"
	"github.com/modreport/modreport/internal/metrics"
	"github.com/modreport/modreport/internal/render"
)

// Result holds the aggregates, keyed by the lowercased project path.
// When two discovered paths differ only by case the later one wins.
type Result struct {
	Metrics  map[string]render.ProjectTree
	Commands map[string]render.ProjectCommands
}

// projectOutcome is one project's analysis output before it is
// committed to the aggregates.
type projectOutcome struct {
	path    string
	tree    *metrics.MetricNode
	modules []extract.CommandModule
	err     error
}

// Engine runs the analysis over a set of project files.
type Engine struct {
	Marker   string
	Parallel bool
	Log      logrus.FieldLogger

	// analyze is swapped out by tests; the default loads and analyzes
	// a real module.
	analyze func(ctx context.Context, path, marker string, sink diag.Sink) (*metrics.MetricNode, []extract.CommandModule, error)
}

// New returns an engine bound to a run-scoped logger carrying a fresh
// run id.
func New(marker string, parallel bool, log logrus.FieldLogger) *Engine {
	return &Engine{
		Marker:   marker,
		Parallel: parallel,
		Log:      log.WithField("run_id", uuid.NewString()),
		analyze:  analyzeProject,
	}
}

func analyzeProject(ctx context.Context, path, marker string, sink diag.Sink) (*metrics.MetricNode, []extract.CommandModule, error) {
	p, err := loader.Load(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return loader.BuildMetrics(p), extract.Modules(p, marker, sink), nil
}

// Run analyzes every project and returns the aggregates. A project that
// fails to load is logged and skipped; its entry is simply absent. The
// context is observed between projects, so results committed before a
// cancellation are still returned alongside ctx.Err().
func (e *Engine) Run(ctx context.Context, projects []string) (Result, error) {
	res := Result{
		Metrics:  make(map[string]render.ProjectTree),
		Commands: make(map[string]render.ProjectCommands),
	}
	if e.Parallel {
		return res, e.runParallel(ctx, projects, &res)
	}
	return res, e.runSequential(ctx, projects, &res)
}

func (e *Engine) runSequential(ctx context.Context, projects []string, res *Result) error {
	sink := &diag.LogrusSink{Log: e.Log}
	for _, path := range projects {
		if err := ctx.Err(); err != nil {
			return err
		}
		tree, modules, err := e.analyze(ctx, path, e.Marker, sink)
		if err != nil {
			e.Log.WithError(err).WithField("project", path).Warn("project failed to load, skipping")
			continue
		}
		commit(res, path, tree, modules)
	}
	return nil
}

// runParallel fans the projects out over an errgroup. Each project
// collects its diagnostics in a buffer so the log keeps input order,
// and the merge itself stays single-threaded.
func (e *Engine) runParallel(ctx context.Context, projects []string, res *Result) error {
	outcomes := make([]projectOutcome, len(projects))
	collectors := make([]*diag.Collector, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range projects {
		i, path := i, path
		collectors[i] = &diag.Collector{}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = projectOutcome{path: path, err: err}
				return nil
			}
			tree, modules, err := e.analyze(gctx, path, e.Marker, collectors[i])
			outcomes[i] = projectOutcome{path: path, tree: tree, modules: modules, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, o := range outcomes {
		collectors[i].Drain(&diag.LogrusSink{Log: e.Log})
		if o.err != nil {
			e.Log.WithError(o.err).WithField("project", o.path).Warn("project failed to load, skipping")
			continue
		}
		commit(res, o.path, o.tree, o.modules)
	}
	return ctx.Err()
}

// commit stores one fully analyzed project. Nothing partial ever lands
// here: a failed project never reaches commit.
func commit(res *Result, path string, tree *metrics.MetricNode, modules []extract.CommandModule) {
	key := strings.ToLower(path)
	res.Metrics[key] = render.ProjectTree{Path: path, Tree: tree}
	res.Commands[key] = render.ProjectCommands{Path: path, Modules: modules}
}

// MetricsSlice returns the metrics aggregate as a slice for rendering.
func (r Result) MetricsSlice() []render.ProjectTree {
	out := make([]render.ProjectTree, 0, len(r.Metrics))
	for _, v := range r.Metrics {
		out = append(out, v)
	}
	return out
}

// CommandsSlice returns the command aggregate as a slice for rendering.
func (r Result) CommandsSlice() []render.ProjectCommands {
	out := make([]render.ProjectCommands, 0, len(r.Commands))
	for _, v := range r.Commands {
		out = append(out, v)
	}
	return out
}
