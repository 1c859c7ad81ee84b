package main

import (
	"github.com/spf13/cobra"

	"github.com/fgjorup/detgeo/pkg/viewer"
)

var (
	renderOutput   string
	renderSize     int
	renderNoLabels bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draw the detector, contours and reference lines to a PNG",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "detgeo.png", "output PNG file")
	renderCmd.Flags().IntVar(&renderSize, "size", 0, "image height in pixels (default plo.plot_size)")
	renderCmd.Flags().BoolVar(&renderNoLabels, "no-labels", false, "omit contour labels")
}

func renderOptions() viewer.Options {
	opts := viewer.DefaultOptions()
	opts.Size = settings.Plot.PlotSize
	if renderSize > 0 {
		opts.Size = renderSize
	}
	opts.Labels = !renderNoLabels
	return opts
}

func runRender(cmd *cobra.Command, _ []string) error {
	st, err := newState()
	if err != nil {
		return err
	}
	f, err := st.Frame(cmd.Context())
	if err != nil {
		return err
	}
	if err := viewer.SavePNG(renderOutput, f, renderOptions()); err != nil {
		return err
	}
	printf(cmd, "%s written\n", renderOutput)
	return nil
}
