package main

import (
	"github.com/spf13/cobra"

	"github.com/fgjorup/detgeo/pkg/analysis"
	"github.com/fgjorup/detgeo/pkg/cone"
	"github.com/fgjorup/detgeo/pkg/geometry"
)

var (
	measureX, measureY float64
	minCoverage        float64
	largestCount       int
)

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Find the ring nearest to a detector position",
	Long: `Measure the rings of the current geometry. With --x and --y the ring
passing closest to that detector position is reported with its fitted radius.
The rings lying mostly on sensor modules are listed afterwards.`,
	Args: cobra.NoArgs,
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().Float64Var(&measureX, "x", 0.0, "horizontal detector position in mm")
	measureCmd.Flags().Float64Var(&measureY, "y", 0.0, "vertical detector position in mm")
	measureCmd.Flags().Float64Var(&minCoverage, "min-coverage", 0.5, "fraction of a ring that must fall on modules")
	measureCmd.Flags().IntVar(&largestCount, "largest", 0, "also list the n rings with the largest fitted radius")

	measureCmd.MarkFlagsRequiredTogether("x", "y")
}

func runMeasure(cmd *cobra.Command, _ []string) error {
	st, err := newState()
	if err != nil {
		return err
	}
	f, err := st.Frame(cmd.Context())
	if err != nil {
		return err
	}
	result := analysis.AnalyzeFrame(f)

	printf(cmd, "Ring Measurement\n")
	printf(cmd, "================\n")
	printf(cmd, "Detector: %s, %d of %d rings visible, %d closed\n",
		result.Detector, result.VisibleCount, len(result.Rings), result.ClosedCount)

	if cmd.Flags().Changed("x") {
		p := geometry.Point2D{X: measureX, Y: measureY}
		printf(cmd, "\nPoint: %s, 2θ = %.3f°\n", analysis.FormatPoint(p), cone.ScatteringAngle(p, f.Params.Placement()))
		ring, dist, ok := analysis.FindNearestRing(result, p)
		if !ok {
			printf(cmd, "  no ring visible\n")
		} else {
			printRing(cmd, "  Nearest", ring, f.Contours[ring.Index].LabelValue)
			printf(cmd, "  Distance: %s\n", analysis.FormatMeasurement(dist, "mm"))
		}
	}

	on := analysis.FindRingsOnDetector(result, minCoverage)
	printf(cmd, "\nRings with at least %.0f%% on modules: %d\n", minCoverage*100, len(on))
	for _, r := range on {
		printRing(cmd, "  ", r, f.Contours[r.Index].LabelValue)
	}

	if largestCount > 0 {
		printf(cmd, "\nLargest rings:\n")
		for _, r := range analysis.FindLargestRings(result, largestCount) {
			printRing(cmd, "  ", r, f.Contours[r.Index].LabelValue)
		}
	}
	return nil
}

func printRing(cmd *cobra.Command, prefix string, r analysis.RingInfo, label float64) {
	printf(cmd, "%s 2θ = %.3f° (%.4f), length %s, coverage %.0f%%", prefix, r.TwoTheta, label,
		analysis.FormatMeasurement(r.Length, "mm"), r.Coverage*100)
	if r.Fit != nil {
		printf(cmd, ", radius %s at %s", analysis.FormatMeasurement(r.Fit.Radius, "mm"), analysis.FormatPoint(r.Fit.Center))
	} else if r.Vertices > 0 {
		printf(cmd, ", centroid %s", analysis.FormatPoint(r.Centroid))
	}
	printf(cmd, "\n")
}
