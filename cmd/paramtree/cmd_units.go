package main

import (
	"fmt"
	"strconv"

	"github.com/nvandessel/paramtree/internal/units"
	"github.com/spf13/cobra"
)

func newUnitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "List and convert units",
		Long: `Inspect the unit registry used for SI conversion.

Examples:
  paramtree units list
  paramtree units convert 20 °C           # 293.15
  paramtree units convert 0.02 cm --from-si # 2`,
	}

	cmd.AddCommand(
		newUnitsListCmd(),
		newUnitsConvertCmd(),
	)

	return cmd
}

func newUnitsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered units",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			names := units.Standard().Units()

			if jsonOut {
				return encodeJSON(cmd.OutOrStdout(), map[string]any{"units": names, "count": len(names)})
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newUnitsConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <value> <unit>",
		Short: "Convert a value between a unit and SI",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			fromSI, _ := cmd.Flags().GetBool("from-si")

			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			unit := args[1]

			reg := units.Standard()
			convert := reg.ToSI
			if fromSI {
				convert = reg.FromSI
			}
			got, err := convert(v, unit)
			if err != nil {
				return err
			}

			if jsonOut {
				return encodeJSON(cmd.OutOrStdout(), map[string]any{
					"value":   v,
					"unit":    unit,
					"from_si": fromSI,
					"result":  got,
				})
			}
			if fromSI {
				fmt.Fprintf(cmd.OutOrStdout(), "%g (SI) = %g %s\n", v, got, unit)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%g %s = %g (SI)\n", v, unit, got)
			}
			return nil
		},
	}

	cmd.Flags().Bool("from-si", false, "Convert from SI into the given unit")

	return cmd
}
