package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nvandessel/paramtree/internal/param"
	"github.com/nvandessel/paramtree/internal/visualization"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Show the parameter tree as an indented outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			root, err := env.loadTree(args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				return encodeJSON(cmd.OutOrStdout(), visualization.RenderJSON(root))
			}
			fmt.Fprint(cmd.OutOrStdout(), visualization.RenderText(root))
			return nil
		},
	}
}

func newValueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "value <file> [path]",
		Short: "Print stored values",
		Long: `Print the stored (untransformed) value of the tree or of the parameter at
the dotted path, e.g. "pump.speed".`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			p, sub, err := env.target(args)
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), jsonOut, sub, p.Value())
		},
	}
}

func newTransformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transform <file> [path]",
		Short: "Print usable (transformed) values",
		Long: `Print the transformed value of the tree or of the parameter at the dotted
path. Perturbed parameters draw a new factor on every run; use --si to
convert values with units to SI first.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			p, sub, err := env.target(args)
			if err != nil {
				return err
			}
			v, err := p.Transform()
			if err != nil {
				return fmt.Errorf("transform: %w", err)
			}
			return writeValue(cmd.OutOrStdout(), jsonOut, sub, v)
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a parameter file loads and transforms",
		Long: `Validate a parameter file.

This command checks that:
  - Every record has an id or name and exactly one variant
  - Option selections name an existing alternative
  - Broadcast sizes are non-negative integers
  - The whole tree transforms without error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()

			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			root, err := env.loadTree(args[0])
			if err == nil {
				_, err = root.Transform()
			}

			if jsonOut {
				result := map[string]any{"file": args[0], "valid": err == nil}
				if err != nil {
					result["error"] = err.Error()
				} else {
					result["parameters"] = param.Count(root)
				}
				if encErr := encodeJSON(out, result); encErr != nil {
					return encErr
				}
			} else if err == nil {
				fmt.Fprintf(out, "%s: ok (%d parameters)\n", args[0], param.Count(root))
			}

			if err != nil {
				return fmt.Errorf("%s: invalid: %w", args[0], err)
			}
			return nil
		},
	}
}

// writeValue prints v as JSON or YAML.
func writeValue(w io.Writer, jsonOut bool, path string, v any) error {
	if jsonOut {
		return encodeJSON(w, map[string]any{"path": path, "value": v})
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
