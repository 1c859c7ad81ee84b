package main

import (
	"github.com/spf13/cobra"

	"github.com/fgjorup/detgeo/internal/app"
	"github.com/fgjorup/detgeo/internal/config"
	"github.com/fgjorup/detgeo/internal/logging"
	"github.com/fgjorup/detgeo/pkg/detector"
	"github.com/fgjorup/detgeo/version"
)

var (
	detectorsFile string
	logLevel      string
)

var rootCmd = &cobra.Command{
	Use:   "detgeo-gui [settings file]",
	Short: "Interactive detector geometry viewer",
	Long: `Show the Debye-Scherrer rings on a detector and move it with sliders.
Settings are read from the given file, when it exists, and written back on exit.
Drop CIF files on the window to add them as reference patterns.`,
	Version:       version.GetFullVersion(),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&detectorsFile, "detectors", "", "JSON detector library replacing the built-in one")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (panic, fatal, error, warn, info, debug)")
}

func run(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	}

	v := config.New()
	if err := v.BindPFlag(config.CfgLogLevel, cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	s, err := config.Load(v, path)
	if err != nil {
		return err
	}
	if err := logging.SetLevel(s.LogLevel); err != nil {
		return err
	}

	detectors := detector.Default()
	if detectorsFile != "" {
		if detectors, err = detector.LoadLibrary(detectorsFile); err != nil {
			return err
		}
	}

	st, err := app.New(v, s, detectors)
	if err != nil {
		return err
	}
	newWindow(st, path).ShowAndRun()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.NamedLogger("detgeo-gui").Fatal(err)
	}
}
