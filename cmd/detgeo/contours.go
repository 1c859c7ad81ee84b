package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/fgjorup/detgeo/pkg/analysis"
	"github.com/fgjorup/detgeo/pkg/engine"
)

var contoursJSON bool

var contoursCmd = &cobra.Command{
	Use:   "contours",
	Short: "Compute the ring contours for the current geometry",
	Long: `Compute one contour per 2θ level and one per observable reference line.
Levels whose cone does not reach the detector plane are reported as hidden.`,
	Args: cobra.NoArgs,
	RunE: runContours,
}

func init() {
	rootCmd.AddCommand(contoursCmd)
	contoursCmd.Flags().BoolVar(&contoursJSON, "json", false, "write the full frame as JSON")
}

func runContours(cmd *cobra.Command, _ []string) error {
	st, err := newState()
	if err != nil {
		return err
	}
	f, err := st.Frame(cmd.Context())
	if err != nil {
		return err
	}

	if contoursJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	}

	printFrame(cmd, st.Title(), f)
	return nil
}

func printFrame(cmd *cobra.Command, title string, f *engine.Frame) {
	p := f.Params
	printf(cmd, "%s\n", title)
	printf(cmd, "E = %g keV, D = %g mm, x = %g mm, y = %g mm, rot = %g°, tilt = %g°\n\n",
		p.EnergyKeV, p.DistanceMM, p.XOffsetMM, p.YOffsetMM, p.RotationDeg, p.TiltDeg)

	result := analysis.AnalyzeFrame(f)
	printf(cmd, "%4s %9s %14s %8s %9s %9s  %s\n", "#", "2θ [°]", f.Unit.String(), "visible", "vertices", "coverage", "label")
	for i, c := range f.Contours {
		ring := result.Rings[i]
		label := "-"
		if c.Visible {
			label = analysis.FormatPoint(c.LabelPosition)
		}
		printf(cmd, "%4d %9.3f %14.4f %8t %9d %8.0f%%  %s\n",
			c.Index, c.TwoTheta, c.LabelValue, c.Visible, ring.Vertices, ring.Coverage*100, label)
	}

	if len(f.Reference) == 0 {
		return
	}
	printf(cmd, "\n%s: %d lines\n", f.ReferenceName, len(f.Reference))
	printf(cmd, "%4s %10s %9s %8s\n", "#", "d [Å]", "2θ [°]", "visible")
	for _, r := range f.Reference {
		printf(cmd, "%4d %10.5f %9.3f %8t\n", r.Index, r.DSpacing, r.TwoTheta, r.Visible)
	}
}
