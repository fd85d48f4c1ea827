package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nvandessel/paramtree/internal/logging"
	"github.com/nvandessel/paramtree/internal/param"
)

// ErrNoRoot is returned for scenarios without a tree.
var ErrNoRoot = errors.New("simulation: scenario has no root parameter")

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithRecorder records every draw as a JSONL sample event.
func WithRecorder(rec *logging.SampleRecorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithSource installs src on every perturbed node before sampling.
func WithSource(src param.RandSource) Option {
	return func(r *Runner) { r.src = src }
}

// Runner orchestrates sampling experiments over parameter trees.
type Runner struct {
	logger   *slog.Logger
	recorder *logging.SampleRecorder
	src      param.RandSource
}

// NewRunner creates a runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run executes the scenario and returns the collected results. It checks ctx
// between draws.
func (r *Runner) Run(ctx context.Context, sc Scenario) (*Result, error) {
	if sc.Root == nil {
		return nil, ErrNoRoot
	}
	if sc.Samples < 0 {
		return nil, fmt.Errorf("simulation: negative sample count %d", sc.Samples)
	}

	// Phase 1: apply perturbations.
	root := sc.Root
	if sc.Perturb != nil {
		var err error
		root, err = param.PerturbLogged(r.logger, root, sc.Perturb)
		if err != nil {
			return nil, fmt.Errorf("applying perturbations: %w", err)
		}
	}

	target, err := param.Lookup(root, sc.Path)
	if err != nil {
		return nil, err
	}
	if r.src != nil {
		SetSource(target, r.src)
	}

	// Phase 2: nominal value.
	nominal, err := Nominal(target)
	if err != nil {
		return nil, fmt.Errorf("nominal transform: %w", err)
	}
	nominalFlat := flattenFor(target, nominal)

	r.logger.Debug("sampling started",
		"scenario", sc.Name,
		"target", target.ID(),
		"samples", sc.Samples,
		"series", len(nominalFlat),
	)

	// Phase 3: draws.
	samples := make([]any, 0, sc.Samples)
	series := make(map[string][]float64, len(nominalFlat))
	for i := 0; i < sc.Samples; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := target.Transform()
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		samples = append(samples, v)
		for k, f := range flattenFor(target, v) {
			series[k] = append(series[k], f)
		}

		r.recorder.Record(map[string]any{
			"scenario": sc.Name,
			"target":   target.ID(),
			"index":    i,
			"value":    v,
		})
		r.logger.Log(ctx, logging.LevelTrace, "sample drawn", "index", i, "value", v)
	}

	// Phase 4: statistics.
	stats := make(map[string]*Summary, len(series))
	for k, values := range series {
		stats[k] = summarize(values, nominalFlat[k])
	}

	r.logger.Debug("sampling complete", "scenario", sc.Name, "series", len(stats))
	return &Result{
		Scenario: sc.Name,
		Nominal:  nominal,
		Samples:  samples,
		Stats:    stats,
	}, nil
}

// flattenFor keys record fields by their own ids and anything else by the
// target id, so a container's child "feed" is keyed "feed" and a broadcaster's
// first record field "k" is keyed "batch[0].k".
func flattenFor(target param.Parameter, v any) map[string]float64 {
	if _, ok := v.(param.Record); ok {
		return Flatten("", v)
	}
	return Flatten(target.ID(), v)
}

// Nominal returns the transform of root with every perturbation fraction
// temporarily set to zero. Fractions are restored before returning.
func Nominal(root param.Parameter) (any, error) {
	var perturbed []*param.Perturbed
	root.Traverse(func(p param.Parameter) bool {
		if pp, ok := p.(*param.Perturbed); ok {
			perturbed = append(perturbed, pp)
		}
		return true
	})

	saved := make([]float64, len(perturbed))
	for i, pp := range perturbed {
		saved[i] = pp.Perturbation()
		pp.SetPerturbation(0)
	}
	defer func() {
		for i, pp := range perturbed {
			pp.SetPerturbation(saved[i])
		}
	}()

	return root.Transform()
}

// SetSource installs src on every perturbed node below root.
func SetSource(root param.Parameter, src param.RandSource) {
	root.Traverse(func(p param.Parameter) bool {
		if pp, ok := p.(*param.Perturbed); ok {
			pp.SetSource(src)
		}
		return true
	})
}
