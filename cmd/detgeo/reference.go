package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fgjorup/detgeo/pkg/reference"
	"github.com/fgjorup/detgeo/pkg/units"
)

var referenceCmd = &cobra.Command{
	Use:   "reference [name | file.cif]",
	Short: "List reference patterns or show the lines of one",
	Long: `Without an argument, list the built-in reference patterns.
With a pattern name or a CIF file, print its lines that can diffract at the
current energy in 2θ and the label unit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReference,
}

func init() {
	rootCmd.AddCommand(referenceCmd)
}

func runReference(cmd *cobra.Command, args []string) error {
	st, err := newState()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		printf(cmd, "%s\n", reference.NoneName)
		for _, name := range st.Library().Names() {
			printf(cmd, "%s\n", name)
		}
		return nil
	}

	name := args[0]
	if strings.EqualFold(filepath.Ext(name), ".cif") {
		if _, err := st.ImportCIF(name); err != nil {
			return err
		}
	} else {
		st.ChangeReference(name)
	}

	p := st.Reference()
	energy := st.Params().EnergyKeV
	unit := st.Unit()
	lines := reference.Lines(p, energy)

	printf(cmd, "%s at %g keV: %d of %d lines observable\n", p.Name, energy, len(lines), len(p.DSpacings))
	if len(lines) == 0 {
		return nil
	}
	printf(cmd, "%4s %10s %9s %14s\n", "#", "d [Å]", "2θ [°]", unit.String())
	for _, l := range lines {
		printf(cmd, "%4d %10.5f %9.3f %14.4f\n", l.Index, l.DSpacing, l.TwoTheta, units.FromTwoTheta(l.TwoTheta, energy).In(unit))
	}
	return nil
}
