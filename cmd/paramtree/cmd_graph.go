package main

import (
	"fmt"

	"github.com/nvandessel/paramtree/internal/visualization"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Visualize the parameter tree",
		Long:  `Output the parameter tree in DOT (Graphviz), JSON, or indented text format.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			root, err := env.loadTree(args[0])
			if err != nil {
				return err
			}

			switch visualization.Format(format) {
			case visualization.FormatDOT:
				fmt.Fprint(cmd.OutOrStdout(), visualization.RenderDOT(root))
			case visualization.FormatJSON:
				return encodeJSON(cmd.OutOrStdout(), visualization.RenderJSON(root))
			case visualization.FormatText:
				fmt.Fprint(cmd.OutOrStdout(), visualization.RenderText(root))
			default:
				return fmt.Errorf("unsupported format %q (use 'dot', 'json', or 'text')", format)
			}
			return nil
		},
	}

	cmd.Flags().String("format", "dot", "Output format: dot, json, or text")

	return cmd
}
