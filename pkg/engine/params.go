package engine

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/fgjorup/detgeo/pkg/cone"
	"github.com/fgjorup/detgeo/pkg/sampler"
	"github.com/fgjorup/detgeo/pkg/units"
)

var (
	// ErrInvalidParams is returned before any computation for unusable parameters
	ErrInvalidParams = errors.New("invalid geometry parameters")
	// ErrInvalidPlot is returned by New for an unusable plot configuration
	ErrInvalidPlot = errors.New("invalid plot configuration")
)

// Params is the complete set of user-controlled geometry values
type Params struct {
	EnergyKeV   float64 `json:"ener"`
	DistanceMM  float64 `json:"dist"`
	XOffsetMM   float64 `json:"xoff"`
	YOffsetMM   float64 `json:"yoff"`
	RotationDeg float64 `json:"rota"`
	TiltDeg     float64 `json:"tilt"`
}

// DefaultParams returns the start-up geometry
func DefaultParams() Params {
	return Params{EnergyKeV: 21, DistanceMM: 75, RotationDeg: 25}
}

// Validate rejects parameters the projection cannot handle
func (p Params) Validate() error {
	for _, v := range []float64{p.EnergyKeV, p.DistanceMM, p.XOffsetMM, p.YOffsetMM, p.RotationDeg, p.TiltDeg} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value in %+v", ErrInvalidParams, p)
		}
	}
	if p.EnergyKeV <= 0 {
		return fmt.Errorf("%w: energy must be positive, got %g keV", ErrInvalidParams, p.EnergyKeV)
	}
	if p.DistanceMM <= 0 {
		return fmt.Errorf("%w: distance must be positive, got %g mm", ErrInvalidParams, p.DistanceMM)
	}
	return nil
}

// Placement returns the detector placement part of the parameters
func (p Params) Placement() cone.Placement {
	return cone.Placement{
		DistanceMM:  p.DistanceMM,
		XOffsetMM:   p.XOffsetMM,
		YOffsetMM:   p.YOffsetMM,
		RotationDeg: p.RotationDeg,
		TiltDeg:     p.TiltDeg,
	}
}

// PlotConfig fixes the contour levels and sampling limits
type PlotConfig struct {
	TwoThetaMin    float64    `json:"cont_tth_min"`
	TwoThetaMax    float64    `json:"cont_tth_max"`
	Levels         int        `json:"cont_tth_num"`
	ReferenceCount int        `json:"cont_ref_num"`
	ResoMin        int        `json:"cont_reso_min"`
	ResoMax        int        `json:"cont_reso_max"`
	GridMultiplier float64    `json:"cont_grid_multiplier"`
	Unit           units.Unit `json:"unit"`
}

// DefaultPlotConfig returns 24 levels from 5° to 120° labelled in d-spacing
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		TwoThetaMin:    5,
		TwoThetaMax:    120,
		Levels:         24,
		ReferenceCount: 48,
		ResoMin:        sampler.DefaultResoMin,
		ResoMax:        sampler.DefaultResoMax,
		GridMultiplier: sampler.DefaultGridMultiplier,
		Unit:           units.DSpacing,
	}
}

// Sampler returns the grid limits of the configuration
func (c PlotConfig) Sampler() sampler.Config {
	return sampler.Config{
		ResoMin:        c.ResoMin,
		ResoMax:        c.ResoMax,
		GridMultiplier: c.GridMultiplier,
	}
}

// Validate checks the configuration
func (c PlotConfig) Validate() error {
	if c.Levels < 1 {
		return fmt.Errorf("%w: need at least one level, got %d", ErrInvalidPlot, c.Levels)
	}
	if c.ReferenceCount < 0 {
		return fmt.Errorf("%w: negative reference count %d", ErrInvalidPlot, c.ReferenceCount)
	}
	if !(c.TwoThetaMin > 0) || !(c.TwoThetaMax < 180) || c.TwoThetaMax < c.TwoThetaMin {
		return fmt.Errorf("%w: 2θ range [%g, %g] must lie within (0, 180)", ErrInvalidPlot, c.TwoThetaMin, c.TwoThetaMax)
	}
	if err := c.Sampler().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPlot, err)
	}
	if err := c.Unit.Validate(); err != nil {
		return err
	}
	return nil
}

// Level is one experimental contour angle
type Level struct {
	Index    int     `json:"index"`
	TwoTheta float64 `json:"two_theta"`
}

// LevelSet returns the evenly spaced contour angles of the configuration
func (c PlotConfig) LevelSet() []Level {
	tth := []float64{c.TwoThetaMin}
	if c.Levels > 1 {
		tth = floats.Span(make([]float64, c.Levels), c.TwoThetaMin, c.TwoThetaMax)
	}
	levels := make([]Level, len(tth))
	for i, v := range tth {
		levels[i] = Level{Index: i, TwoTheta: v}
	}
	return levels
}
