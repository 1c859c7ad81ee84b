package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fgjorup/detgeo/pkg/units"
)

var (
	convertFrom string
	convertTo   string
)

var convertCmd = &cobra.Command{
	Use:   "convert <value>",
	Short: "Convert a ring position between 2θ, d, q and sin(θ)/λ",
	Long: `Convert a ring position between units at the configured beam energy.
Units are given as tth, d, q or stl (or their indices 0 to 3).`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertFrom, "from", "tth", "unit of the value")
	convertCmd.Flags().StringVar(&convertTo, "to", "d", "unit to convert to")
}

func runConvert(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[0], err)
	}
	from, err := units.ParseUnit(convertFrom)
	if err != nil {
		return err
	}
	to, err := units.ParseUnit(convertTo)
	if err != nil {
		return err
	}

	energy := settings.Geo.Energy
	out, ok := units.Convert(value, from, to, energy)
	if !ok {
		return fmt.Errorf("%g in %s does not diffract at %g keV", value, from, energy)
	}
	printf(cmd, "%.6f\n", out)
	return nil
}
