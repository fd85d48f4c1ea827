// Package simulation draws repeated transforms of a parameter tree and
// summarizes them.
//
// A Scenario names a tree, an optional sub-path and an optional perturbation
// map applied before sampling. The Runner evaluates the nominal value once
// (every perturbation fraction temporarily zeroed), then draws Samples
// transforms, flattening each into numeric series keyed by dotted path.
// Each series gets a Summary: mean, range, mean absolute deviation from the
// nominal value and the share of draws above and below it.
//
// Usage:
//
//	r := simulation.NewRunner(simulation.WithSource(rand.New(rand.NewPCG(1, 2))))
//	result, err := r.Run(ctx, simulation.Scenario{
//	    Name:    "feed-spread",
//	    Root:    plant,
//	    Perturb: map[string]any{"feed": 0.2},
//	    Samples: 10000,
//	})
//	s := result.Stats["feed"]
//	fmt.Println(s.MeanAbsDev, s.FracAbove)
//
// Trees are mutated while nominal values are computed, so a tree must not be
// shared with other goroutines during Run.
package simulation
