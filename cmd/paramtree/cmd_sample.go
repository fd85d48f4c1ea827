package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nvandessel/paramtree/internal/logging"
	"github.com/nvandessel/paramtree/internal/simulation"
	"github.com/spf13/cobra"
)

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample <file> [path]",
		Short: "Draw repeated transforms and summarize them",
		Long: `Transform the tree (or the parameter at the dotted path) repeatedly and
report, for every numeric value, its nominal value, mean, range, mean
absolute deviation and the share of draws above and below nominal.

Examples:
  paramtree sample plant.yaml -n 10000 --seed 7
  paramtree sample plant.yaml --perturb feed=0.2 --perturb pump.speed=0.05
  paramtree sample plant.yaml batch --record ./runs`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			recordDir, _ := cmd.Flags().GetString("record")
			perturbFlags, _ := cmd.Flags().GetStringToString("perturb")

			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("samples") {
				env.cfg.Sampling.Count, _ = cmd.Flags().GetInt("samples")
			}
			if cmd.Flags().Changed("seed") {
				env.cfg.Sampling.Seed, _ = cmd.Flags().GetUint64("seed")
			}
			if err := env.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			perturb, err := parsePerturbations(perturbFlags)
			if err != nil {
				return err
			}

			root, err := env.loadTree(args[0])
			if err != nil {
				return err
			}

			var recorder *logging.SampleRecorder
			if recordDir != "" {
				recorder, err = logging.OpenSampleRecorder(recordDir)
				if err != nil {
					return err
				}
			} else {
				dir := env.cfg.Logging.Dir
				if dir == "" {
					dir = ".paramtree"
				}
				recorder = logging.NewSampleRecorder(dir, env.cfg.Logging.Level)
			}
			defer recorder.Close()

			opts := []simulation.Option{
				simulation.WithLogger(env.logger),
				simulation.WithRecorder(recorder),
			}
			if seed := env.cfg.Sampling.Seed; seed != 0 {
				opts = append(opts, simulation.WithSource(rand.New(rand.NewPCG(seed, seed))))
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sigCh := make(chan os.Signal, 1)
			notifySignals(sigCh)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					cancel()
				case <-ctx.Done():
				}
			}()

			sc := simulation.Scenario{
				Name:    strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])),
				Root:    root,
				Samples: env.cfg.Sampling.Count,
			}
			if len(args) > 1 {
				sc.Path = args[1]
			}
			if len(perturb) > 0 {
				sc.Perturb = perturb
			}

			result, err := simulation.NewRunner(opts...).Run(ctx, sc)
			if err != nil {
				return fmt.Errorf("sampling: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return encodeJSON(out, map[string]any{
					"scenario": result.Scenario,
					"samples":  len(result.Samples),
					"seed":     env.cfg.Sampling.Seed,
					"stats":    result.Stats,
				})
			}

			fmt.Fprintf(out, "%s: %d samples", result.Scenario, len(result.Samples))
			if env.cfg.Sampling.Seed != 0 {
				fmt.Fprintf(out, " (seed %d)", env.cfg.Sampling.Seed)
			}
			fmt.Fprintln(out)
			keys := result.Keys()
			width := 0
			for _, k := range keys {
				width = max(width, len(k))
			}
			for _, k := range keys {
				fmt.Fprintf(out, "  %-*s  %s\n", width, k, result.Stats[k])
			}
			return nil
		},
	}

	cmd.Flags().IntP("samples", "n", 1000, "Number of transforms to draw")
	cmd.Flags().Uint64("seed", 0, "Seed for the random source (0 = unseeded)")
	cmd.Flags().String("record", "", "Record every draw to <dir>/samples.jsonl")
	cmd.Flags().StringToString("perturb", nil, "Perturb a parameter before sampling, e.g. feed=0.1 or pump.speed=0.05 (repeatable)")

	return cmd
}

// parsePerturbations turns dotted-path flags into the nested map accepted by
// param.Perturb.
func parsePerturbations(flags map[string]string) (map[string]any, error) {
	out := make(map[string]any)

	paths := make([]string, 0, len(flags))
	for p := range flags {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		f, err := strconv.ParseFloat(flags[path], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid perturbation %s=%q: %w", path, flags[path], err)
		}

		ids := strings.Split(path, ".")
		node := out
		for _, id := range ids[:len(ids)-1] {
			next, exists := node[id]
			if !exists {
				child := make(map[string]any)
				node[id] = child
				node = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("conflicting perturbations at %q", path)
			}
			node = child
		}
		last := ids[len(ids)-1]
		if _, exists := node[last]; exists {
			return nil, fmt.Errorf("conflicting perturbations at %q", path)
		}
		node[last] = f
	}
	return out, nil
}
