// Package sampler chooses the sampling grid a cone is evaluated on: its
// resolution adapts to the opening angle and its extent follows the detector
// placement so every visible ring falls inside it.
package sampler

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/fgjorup/detgeo/pkg/cone"
)

// Default sampling limits
const (
	DefaultResoMin        = 48
	DefaultResoMax        = 256
	DefaultGridMultiplier = 1.5
)

// ErrInvalidConfig is returned by Config.Validate
var ErrInvalidConfig = errors.New("invalid sampler configuration")

// Config bounds the grid resolution and scales its half-extent
type Config struct {
	ResoMin        int
	ResoMax        int
	GridMultiplier float64
}

// DefaultConfig returns the limits used when nothing is configured
func DefaultConfig() Config {
	return Config{
		ResoMin:        DefaultResoMin,
		ResoMax:        DefaultResoMax,
		GridMultiplier: DefaultGridMultiplier,
	}
}

// Validate checks that the limits describe a usable grid
func (c Config) Validate() error {
	switch {
	case c.ResoMin < 2:
		return fmt.Errorf("%w: minimum resolution %d is below 2", ErrInvalidConfig, c.ResoMin)
	case c.ResoMax < c.ResoMin:
		return fmt.Errorf("%w: maximum resolution %d is below minimum %d", ErrInvalidConfig, c.ResoMax, c.ResoMin)
	case !(c.GridMultiplier > 0):
		return fmt.Errorf("%w: grid multiplier must be positive, got %g", ErrInvalidConfig, c.GridMultiplier)
	}
	return nil
}

// Resolution returns the number of samples per axis for a cone of opening
// angle twoThetaDeg. Flat cones (small 2θ) need denser sampling.
func (c Config) Resolution(twoThetaDeg float64) int {
	ratio := 1 / math.Tan(twoThetaDeg*math.Pi/180)
	// clamp before converting so near-zero angles cannot overflow int
	res := math.Floor(float64(c.ResoMin) * ratio)
	res = math.Min(res, float64(c.ResoMax))
	res = math.Max(res, float64(c.ResoMin))
	if math.IsNaN(res) {
		return c.ResoMin
	}
	return int(res)
}

// GridMax returns the half-extent of the sampling grid for a detector with
// the given half width and height.
func (c Config) GridMax(halfWidth, halfHeight float64) float64 {
	return math.Ceil(math.Max(halfWidth, halfHeight) * c.GridMultiplier)
}

// Shift returns the vertical grid shift that follows the beam centre
func Shift(p cone.Placement) float64 {
	return -(p.YOffsetMM + math.Tan(p.RotationDeg*math.Pi/180)*p.DistanceMM)
}

// TiltExtra returns how far the grid is extended to cover a tilted detector
func TiltExtra(p cone.Placement) float64 {
	return math.Tan(p.TiltDeg*math.Pi/180) * p.DistanceMM
}

// Grid is a rows×cols meshgrid in the sample frame, stored row-major.
// Rows follow Y0 and columns follow X0.
type Grid struct {
	Rows, Cols int
	XRange     []float64
	YRange     []float64
	X0, Y0     []float64
}

// Sample builds the grid for one cone
func (c Config) Sample(twoThetaDeg, gridMax float64, p cone.Placement) *Grid {
	res := c.Resolution(twoThetaDeg)
	shift := Shift(p)
	extra := TiltExtra(p)

	xr := floats.Span(make([]float64, res), -gridMax+shift, gridMax-shift+extra)
	yr := floats.Span(make([]float64, res), -gridMax-p.XOffsetMM, gridMax-p.XOffsetMM)

	g := &Grid{
		Rows:   len(yr),
		Cols:   len(xr),
		XRange: xr,
		YRange: yr,
		X0:     make([]float64, len(xr)*len(yr)),
		Y0:     make([]float64, len(xr)*len(yr)),
	}
	for i, y := range yr {
		row := i * g.Cols
		copy(g.X0[row:row+g.Cols], xr)
		for j := range xr {
			g.Y0[row+j] = y
		}
	}
	return g
}

// Surface evaluates the cone of opening angle twoThetaDeg on the grid
func (g *Grid) Surface(twoThetaDeg float64, p cone.Placement) *cone.Surface {
	return cone.Project(g.X0, g.Y0, g.Rows, g.Cols, twoThetaDeg, p)
}

// InFrame reports whether the cone reaches the detector plane anywhere on the
// sampled surface.
func InFrame(s *cone.Surface, distanceMM float64) bool {
	return s.MaxZ() >= distanceMM
}
