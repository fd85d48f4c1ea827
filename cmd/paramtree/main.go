package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nvandessel/paramtree/internal/config"
	"github.com/nvandessel/paramtree/internal/loader"
	"github.com/nvandessel/paramtree/internal/logging"
	"github.com/nvandessel/paramtree/internal/param"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "paramtree",
		Short: "Inspect and sample parameter trees",
		Long: `paramtree loads named, unit-aware parameter trees from YAML or HCL
files and evaluates them.

Parameters may be plain values, containers of children, a selection among
alternatives, randomly perturbed values, or batches of independent samples.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.paramtree/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, or trace")
	rootCmd.PersistentFlags().Bool("si", false, "Convert leaves with units to SI when transforming")

	rootCmd.AddCommand(
		newVersionCmd(),
		newShowCmd(),
		newValueCmd(),
		newTransformCmd(),
		newSampleCmd(),
		newGraphCmd(),
		newValidateCmd(),
		newUnitsCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// runEnv is the per-invocation state shared by commands.
type runEnv struct {
	cfg    *config.Config
	logger *slog.Logger
}

// loadEnv resolves configuration (file, environment, then flags) and builds
// the logger. Logs go to the command's error stream.
func loadEnv(cmd *cobra.Command) (*runEnv, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("si") {
		cfg.Units.ConvertToSI, _ = cmd.Flags().GetBool("si")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &runEnv{
		cfg:    cfg,
		logger: logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()),
	}, nil
}

// loadTree loads a parameter file with the configured unit handling.
func (e *runEnv) loadTree(path string) (param.Parameter, error) {
	l := loader.NewLoader(
		loader.WithLogger(e.logger),
		loader.WithSIConversion(e.cfg.Units.ConvertToSI),
	)
	root, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("loaded parameter tree", "path", path, "root", root.ID(), "parameters", param.Count(root))
	return root, nil
}

// target loads path and resolves the optional dotted sub-path in args[1].
func (e *runEnv) target(args []string) (param.Parameter, string, error) {
	root, err := e.loadTree(args[0])
	if err != nil {
		return nil, "", err
	}
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}
	p, err := param.Lookup(root, sub)
	if err != nil {
		return nil, "", err
	}
	return p, sub, nil
}
