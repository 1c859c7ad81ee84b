package detector

import "github.com/fgjorup/detgeo/pkg/geometry"

// Geometry is one resolved detector model
type Geometry struct {
	Name           string  `json:"name"`
	ModuleWidthMM  float64 `json:"hms"`
	ModuleHeightMM float64 `json:"vms"`
	PixelSizeMM    float64 `json:"pxs"`
	HGapPx         float64 `json:"hgp"`
	VGapPx         float64 `json:"vgp"`
	CentralHoleMM  float64 `json:"cbh"`
	ModulesH       int     `json:"hmn"`
	ModulesV       int     `json:"vmn"`
}

// Module is a sensor module rectangle; Origin is its lower left corner
type Module struct {
	Origin   geometry.Point2D `json:"origin"`
	WidthMM  float64          `json:"width"`
	HeightMM float64          `json:"height"`
}

// Bounds returns the rectangle covered by the module
func (m Module) Bounds() geometry.Bounds {
	return geometry.Bounds{
		Min: m.Origin,
		Max: geometry.Point2D{X: m.Origin.X + m.WidthMM, Y: m.Origin.Y + m.HeightMM},
	}
}

// Extent returns the half width and half height of the sensitive area
// including gaps and the central hole.
func (g Geometry) Extent() (halfWidth, halfHeight float64) {
	n, m := float64(g.ModulesH), float64(g.ModulesV)
	halfWidth = (g.ModuleWidthMM*n + g.PixelSizeMM*g.HGapPx*n + g.CentralHoleMM) / 2
	halfHeight = (g.ModuleHeightMM*m + g.PixelSizeMM*g.VGapPx*m + g.CentralHoleMM) / 2
	return halfWidth, halfHeight
}

// Modules lays out the sensor modules around the beam. With an even module
// count the beam passes between modules, with an odd count it hits the centre
// module. A central hole moves the quadrants apart.
func (g Geometry) Modules() []Module {
	hmn, vmn := g.ModulesH, g.ModulesV
	if hmn < 1 || vmn < 1 {
		return nil
	}

	hgap := g.HGapPx * g.PixelSizeMM
	vgap := g.VGapPx * g.PixelSizeMM
	hpitch := g.ModuleWidthMM + hgap
	vpitch := g.ModuleHeightMM + vgap
	hole := g.CentralHoleMM / 2

	modules := make([]Module, 0, hmn*vmn)
	for i := floorDiv(-hmn, 2) + hmn%2; i < hmn-floorDiv(hmn, 2); i++ {
		for j := floorDiv(-vmn, 2) + vmn%2; j < vmn-floorDiv(vmn, 2); j++ {
			x := float64(i)*hpitch - hpitch/2*float64(hmn%2) + hgap/2 +
				hole*float64(2*(j&vmn)/vmn-1)
			y := float64(j)*vpitch - vpitch/2*float64(vmn%2) + vgap/2 +
				hole*float64(1-2*(i&hmn)/hmn)
			modules = append(modules, Module{
				Origin:   geometry.Point2D{X: x, Y: y},
				WidthMM:  g.ModuleWidthMM,
				HeightMM: g.ModuleHeightMM,
			})
		}
	}
	return modules
}

// floorDiv divides rounding towards negative infinity
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
