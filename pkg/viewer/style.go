package viewer

import (
	"fmt"
	"image/color"

	"github.com/fgjorup/detgeo/pkg/units"
)

var (
	backgroundColor = color.RGBA{255, 255, 255, 255}
	// gray at 20% opacity
	moduleColor     = color.NRGBA{128, 128, 128, 51}
	referenceColor  = color.RGBA{223, 223, 223, 255}
	unitLabelColor  = color.RGBA{128, 128, 128, 255}
	labelFillColor  = color.RGBA{255, 255, 255, 255}
)

// viridis control points, evenly spaced from 0 to 1
var viridis = []color.RGBA{
	{68, 1, 84, 255},
	{59, 82, 139, 255},
	{33, 145, 140, 255},
	{94, 201, 98, 255},
	{253, 231, 37, 255},
}

// ColorAt samples the contour colour map at f in [0, 1]
func ColorAt(f float64) color.RGBA {
	if f <= 0 {
		return viridis[0]
	}
	if f >= 1 {
		return viridis[len(viridis)-1]
	}
	pos := f * float64(len(viridis)-1)
	i := int(pos)
	t := pos - float64(i)
	a, b := viridis[i], viridis[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + t*(float64(y)-float64(x)) + 0.5)
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}

// LevelColor is the colour of contour n out of count
func LevelColor(n, count int) color.RGBA {
	if count <= 0 {
		return ColorAt(0)
	}
	return ColorAt(float64(n) / float64(count))
}

// LabelText formats a contour label value
func LabelText(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// UnitText names a unit using only glyphs the bitmap font can draw
func UnitText(u units.Unit) string {
	switch u {
	case units.TwoTheta:
		return "2-theta [°]"
	case units.DSpacing:
		return "d [Å]"
	case units.Q:
		return "q [1/Å]"
	case units.SinThetaOverLambda:
		return "sin(t)/l [1/Å]"
	default:
		return u.String()
	}
}
