// Package config loads and stores session settings through viper. Settings
// are grouped into the geo (geometry and detector), plo (plot) and lmt
// (slider limits) sections.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/fgjorup/detgeo/pkg/engine"
	"github.com/fgjorup/detgeo/pkg/reference"
	"github.com/fgjorup/detgeo/pkg/units"
)

// EnvPrefix is prepended to environment variables overriding keys,
// e.g. DETGEO_GEO_DIST.
const EnvPrefix = "DETGEO"

// Keys
const (
	CfgDetType   = "geo.det_type"
	CfgDetSize   = "geo.det_size"
	CfgEnergy    = "geo.ener"
	CfgDistance  = "geo.dist"
	CfgYOffset   = "geo.yoff"
	CfgXOffset   = "geo.xoff"
	CfgRotation  = "geo.rota"
	CfgTilt      = "geo.tilt"
	CfgUnit      = "geo.unit"
	CfgReference = "geo.reference"

	CfgTwoThetaMin    = "plo.cont_tth_min"
	CfgTwoThetaMax    = "plo.cont_tth_max"
	CfgTwoThetaNum    = "plo.cont_tth_num"
	CfgRefNum         = "plo.cont_ref_num"
	CfgResoMin        = "plo.cont_reso_min"
	CfgResoMax        = "plo.cont_reso_max"
	CfgGridMultiplier = "plo.cont_grid_multiplier"
	CfgPlotSize       = "plo.plot_size"

	CfgLogLevel = "log_level"
)

// ErrInvalidConfig is returned for settings that fail validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Geo holds the detector selection and geometry
type Geo struct {
	DetType   string  `mapstructure:"det_type"`
	DetSize   string  `mapstructure:"det_size"`
	Energy    float64 `mapstructure:"ener"`
	Distance  float64 `mapstructure:"dist"`
	YOffset   float64 `mapstructure:"yoff"`
	XOffset   float64 `mapstructure:"xoff"`
	Rotation  float64 `mapstructure:"rota"`
	Tilt      float64 `mapstructure:"tilt"`
	Unit      int     `mapstructure:"unit"`
	Reference string  `mapstructure:"reference"`
}

// Plot holds the contour and rendering settings
type Plot struct {
	TwoThetaMin    float64 `mapstructure:"cont_tth_min"`
	TwoThetaMax    float64 `mapstructure:"cont_tth_max"`
	TwoThetaNum    int     `mapstructure:"cont_tth_num"`
	RefNum         int     `mapstructure:"cont_ref_num"`
	ResoMin        int     `mapstructure:"cont_reso_min"`
	ResoMax        int     `mapstructure:"cont_reso_max"`
	GridMultiplier float64 `mapstructure:"cont_grid_multiplier"`
	PlotSize       int     `mapstructure:"plot_size"`
}

// Settings is the whole parameter dump
type Settings struct {
	Geo      Geo    `mapstructure:"geo"`
	Plot     Plot   `mapstructure:"plo"`
	Limits   Limits `mapstructure:"lmt"`
	LogLevel string `mapstructure:"log_level"`
}

var defaults = map[string]any{
	CfgDetType:   "EIGER2",
	CfgDetSize:   "4M",
	CfgEnergy:    21.0,
	CfgDistance:  75.0,
	CfgYOffset:   0.0,
	CfgXOffset:   0.0,
	CfgRotation:  25.0,
	CfgTilt:      0.0,
	CfgUnit:      int(units.DSpacing),
	CfgReference: reference.NoneName,

	CfgTwoThetaMin:    5.0,
	CfgTwoThetaMax:    120.0,
	CfgTwoThetaNum:    24,
	CfgRefNum:         48,
	CfgResoMin:        48,
	CfgResoMax:        256,
	CfgGridMultiplier: 1.5,
	CfgPlotSize:       768,

	CfgLogLevel: "warn",
}

// New returns a viper instance with every default registered and environment
// overrides enabled.
func New() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for token, lim := range defaultLimits {
		v.SetDefault("lmt."+token+"_min", lim.Min)
		v.SetDefault("lmt."+token+"_max", lim.Max)
		v.SetDefault("lmt."+token+"_stp", lim.Step)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path into v, when it exists, and returns the validated settings.
// A missing file leaves the defaults in place.
func Load(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return Decode(v)
}

// Decode unmarshals and validates the settings held by v
func Decode(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes every setting held by v, defaults included, to path.
// The format follows the file extension.
func Save(v *viper.Viper, path string) error {
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings. An out of range unit is reported as
// units.ErrInvalidUnit.
func (s *Settings) Validate() error {
	if err := units.Unit(s.Geo.Unit).Validate(); err != nil {
		return err
	}
	if s.Geo.DetType == "" || s.Geo.DetSize == "" {
		return fmt.Errorf("%w: detector type and size are required", ErrInvalidConfig)
	}
	if _, err := s.PlotConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := s.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return s.Limits.Validate()
}

// Params returns the geometry section as engine parameters
func (s *Settings) Params() engine.Params {
	return engine.Params{
		EnergyKeV:   s.Geo.Energy,
		DistanceMM:  s.Geo.Distance,
		XOffsetMM:   s.Geo.XOffset,
		YOffsetMM:   s.Geo.YOffset,
		RotationDeg: s.Geo.Rotation,
		TiltDeg:     s.Geo.Tilt,
	}
}

// PlotConfig returns the plot section as an engine configuration
func (s *Settings) PlotConfig() (engine.PlotConfig, error) {
	pc := engine.PlotConfig{
		TwoThetaMin:    s.Plot.TwoThetaMin,
		TwoThetaMax:    s.Plot.TwoThetaMax,
		Levels:         s.Plot.TwoThetaNum,
		ReferenceCount: s.Plot.RefNum,
		ResoMin:        s.Plot.ResoMin,
		ResoMax:        s.Plot.ResoMax,
		GridMultiplier: s.Plot.GridMultiplier,
		Unit:           units.Unit(s.Geo.Unit),
	}
	return pc, pc.Validate()
}

// Store copies the live session values back into v so Save persists them
func Store(v *viper.Viper, s *Settings) {
	v.Set(CfgDetType, s.Geo.DetType)
	v.Set(CfgDetSize, s.Geo.DetSize)
	v.Set(CfgEnergy, s.Geo.Energy)
	v.Set(CfgDistance, s.Geo.Distance)
	v.Set(CfgYOffset, s.Geo.YOffset)
	v.Set(CfgXOffset, s.Geo.XOffset)
	v.Set(CfgRotation, s.Geo.Rotation)
	v.Set(CfgTilt, s.Geo.Tilt)
	v.Set(CfgUnit, s.Geo.Unit)
	v.Set(CfgReference, s.Geo.Reference)
}
