package main

import (
	"fmt"

	"github.com/nvandessel/paramtree/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show paramtree configuration",
		Long: `View paramtree configuration settings.

Configuration is read from ~/.paramtree/config.yaml (or --config) and
PARAMTREE_* environment variables.

Examples:
  paramtree config list                 # Show all settings
  paramtree config get sampling.count   # Get a specific setting`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			cfg := env.cfg
			out := cmd.OutOrStdout()

			if jsonOut {
				return encodeJSON(out, cfg)
			}

			fmt.Fprintln(out, "Logging Settings:")
			fmt.Fprintf(out, "  logging.level:        %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  logging.format:       %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  logging.dir:          %s\n", valueOrDefault(cfg.Logging.Dir, "(default)"))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Sampling Settings:")
			fmt.Fprintf(out, "  sampling.count:       %d\n", cfg.Sampling.Count)
			fmt.Fprintf(out, "  sampling.seed:        %d\n", cfg.Sampling.Seed)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Units Settings:")
			fmt.Fprintf(out, "  units.convert_to_si:  %v\n", cfg.Units.ConvertToSI)
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Get a configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]

			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			value, err := env.cfg.Get(key)
			if err != nil {
				return err
			}

			if jsonOut {
				return encodeJSON(cmd.OutOrStdout(), map[string]any{
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, value)
			return nil
		},
	}
}

// valueOrDefault returns v, or def if v is empty.
func valueOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
