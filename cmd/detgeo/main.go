package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fgjorup/detgeo/internal/app"
	"github.com/fgjorup/detgeo/internal/config"
	"github.com/fgjorup/detgeo/internal/logging"
	"github.com/fgjorup/detgeo/pkg/detector"
	"github.com/fgjorup/detgeo/pkg/units"
	"github.com/fgjorup/detgeo/version"
)

var (
	cfgFile       string
	detectorsFile string
	unitFlag      string

	v         *viper.Viper
	settings  *config.Settings
	detectors detector.Library
)

// flags overriding settings keys
var settingFlags = []struct {
	name  string
	key   string
	usage string
	text  bool
}{
	{name: "det-type", key: config.CfgDetType, usage: "detector type, e.g. EIGER2", text: true},
	{name: "det-size", key: config.CfgDetSize, usage: "detector size, e.g. 4M", text: true},
	{name: "reference", key: config.CfgReference, usage: "reference pattern name", text: true},
	{name: "energy", key: config.CfgEnergy, usage: "beam energy in keV"},
	{name: "distance", key: config.CfgDistance, usage: "sample to detector distance in mm"},
	{name: "xoff", key: config.CfgXOffset, usage: "horizontal detector offset in mm"},
	{name: "yoff", key: config.CfgYOffset, usage: "vertical detector offset in mm"},
	{name: "rotation", key: config.CfgRotation, usage: "detector rotation in degrees"},
	{name: "tilt", key: config.CfgTilt, usage: "detector tilt in degrees"},
	{name: "log-level", key: config.CfgLogLevel, usage: "log level (panic, fatal, error, warn, info, debug)", text: true},
}

var rootCmd = &cobra.Command{
	Use:   "detgeo",
	Short: "Project diffraction cones onto area detectors",
	Long: `detgeo computes where Debye-Scherrer rings of constant scattering angle
intersect a flat area detector that can be shifted, rotated and tilted.
Rings can be labelled in 2θ, d, q or sin(θ)/λ, and reference patterns from
built-in standards or CIF files can be overlaid.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "settings file (yaml, json or toml)")
	flags.StringVar(&detectorsFile, "detectors", "", "JSON detector library replacing the built-in one")
	flags.StringVarP(&unitFlag, "unit", "u", "", "label unit: tth, d, q or stl")

	for _, f := range settingFlags {
		if f.text {
			flags.String(f.name, "", f.usage)
		} else {
			flags.Float64(f.name, 0, f.usage)
		}
	}
}

// loadSettings resolves defaults, the settings file, environment and flags
func loadSettings(cmd *cobra.Command, _ []string) error {
	v = config.New()
	for _, f := range settingFlags {
		if err := v.BindPFlag(f.key, cmd.Flags().Lookup(f.name)); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("unit") {
		u, err := units.ParseUnit(unitFlag)
		if err != nil {
			return err
		}
		v.Set(config.CfgUnit, int(u))
	}

	s, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	if err := logging.SetLevel(s.LogLevel); err != nil {
		return err
	}
	settings = s

	detectors = detector.Default()
	if detectorsFile != "" {
		lib, err := detector.LoadLibrary(detectorsFile)
		if err != nil {
			return err
		}
		detectors = lib
	}
	return nil
}

func newState() (*app.State, error) {
	return app.New(v, settings, detectors)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logging.NamedLogger("detgeo").Fatal(err)
	}
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
