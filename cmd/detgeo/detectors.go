package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detectorsCmd = &cobra.Command{
	Use:   "detectors",
	Short: "List the known detector types and sizes",
	Args:  cobra.NoArgs,
	RunE:  runDetectors,
}

func init() {
	rootCmd.AddCommand(detectorsCmd)
}

func runDetectors(cmd *cobra.Command, _ []string) error {
	printf(cmd, "%-10s %-6s %8s %12s %10s\n", "type", "size", "modules", "area [mm]", "pixel [µm]")
	for _, t := range detectors.Types() {
		sizes, err := detectors.Sizes(t)
		if err != nil {
			return err
		}
		for _, size := range sizes {
			g, err := detectors.Lookup(t, size)
			if err != nil {
				return err
			}
			w, h := g.Extent()
			printf(cmd, "%-10s %-6s %8s %12s %10.0f\n", t, size,
				fmt.Sprintf("%dx%d", g.ModulesH, g.ModulesV), fmt.Sprintf("%.1fx%.1f", 2*w, 2*h), g.PixelSizeMM*1000)
		}
	}
	return nil
}
