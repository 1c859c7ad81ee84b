package viewer

import (
	"math"

	"github.com/fgjorup/detgeo/pkg/engine"
	"github.com/fgjorup/detgeo/pkg/geometry"
)

// Camera maps detector millimetres onto screen pixels.
// The detector y axis points up, the screen y axis points down.
type Camera struct {
	Center geometry.Point2D // detector position shown at the screen centre
	Scale  float64          // pixels per millimetre
	Width  float64
	Height float64
}

// NewCamera fits the detector extent into a width x height viewport
func NewCamera(extent engine.Extent, width, height float64) *Camera {
	c := &Camera{}
	c.Fit(extent, width, height)
	return c
}

// Fit resets the camera so the whole extent is visible and centred
func (c *Camera) Fit(extent engine.Extent, width, height float64) {
	c.Width = width
	c.Height = height
	c.Center = geometry.Point2D{}

	sx := width / (2 * extent.HalfWidthMM)
	sy := height / (2 * extent.HalfHeightMM)
	c.Scale = math.Min(sx, sy)
	if math.IsInf(c.Scale, 0) || math.IsNaN(c.Scale) || c.Scale <= 0 {
		c.Scale = 1
	}
}

// Project converts a detector point to screen coordinates
func (c *Camera) Project(p geometry.Point2D) (x, y float64) {
	d := p.Sub(c.Center)
	return c.Width/2 + d.X*c.Scale, c.Height/2 - d.Y*c.Scale
}

// Unproject converts screen coordinates back to a detector point
func (c *Camera) Unproject(x, y float64) geometry.Point2D {
	return geometry.Point2D{
		X: c.Center.X + (x-c.Width/2)/c.Scale,
		Y: c.Center.Y - (y-c.Height/2)/c.Scale,
	}
}

// Zoom scales the view by (1+delta), keeping the screen centre fixed
func (c *Camera) Zoom(delta float64) {
	c.Scale *= 1 + delta
	if c.Scale < 0.01 {
		c.Scale = 0.01
	}
}

// Pan moves the view by a screen-space offset
func (c *Camera) Pan(dx, dy float64) {
	c.Center.X -= dx / c.Scale
	c.Center.Y += dy / c.Scale
}
