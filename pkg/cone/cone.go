// Package cone projects a diffraction cone of a given opening angle onto the
// plane of a rotated and tilted detector.
package cone

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/fgjorup/detgeo/pkg/geometry"
)

// Placement describes where the detector sits relative to the sample.
// Distances are in millimetres, angles in degrees.
type Placement struct {
	DistanceMM  float64
	XOffsetMM   float64
	YOffsetMM   float64
	RotationDeg float64
	TiltDeg     float64
}

// Angle returns the combined rotation about the vertical axis in radians
func (p Placement) Angle() float64 {
	return deg2rad(p.TiltDeg) + deg2rad(p.RotationDeg)
}

// TiltCompensation returns the vertical shift applied after rotation so that
// tilting keeps the beam centre in place.
func (p Placement) TiltCompensation() float64 {
	return deg2rad(p.TiltDeg) * p.DistanceMM
}

// Surface is the projected cone sampled on a rows×cols grid, stored row-major.
type Surface struct {
	Rows, Cols int
	X, Y, Z    []float64
}

// At returns the projected coordinates of grid node (i, j)
func (s *Surface) At(i, j int) (x, y, z float64) {
	k := i*s.Cols + j
	return s.X[k], s.Y[k], s.Z[k]
}

// MaxZ returns the largest height on the surface, or -Inf when it is empty
func (s *Surface) MaxZ() float64 {
	m := math.Inf(-1)
	for _, z := range s.Z {
		if z > m {
			m = z
		}
	}
	return m
}

// Height returns the cone height above a point at radius r from the axis,
// r·cot(2θ).
func Height(r, twoThetaDeg float64) float64 {
	return r / math.Tan(deg2rad(twoThetaDeg))
}

// Project maps every grid node (x0[k], y0[k]) onto the detector frame for a cone
// of opening angle twoThetaDeg. x0 and y0 are row-major with rows*cols entries.
func Project(x0, y0 []float64, rows, cols int, twoThetaDeg float64, p Placement) *Surface {
	n := rows * cols
	if n == 0 {
		return &Surface{Rows: rows, Cols: cols}
	}

	pts := mat.NewDense(n, 3, nil)
	for k := 0; k < n; k++ {
		pts.Set(k, 0, x0[k])
		pts.Set(k, 1, y0[k])
		pts.Set(k, 2, Height(math.Hypot(x0[k], y0[k]), twoThetaDeg))
	}

	r := geometry.RotationY(p.Angle())
	var rotated mat.Dense
	rotated.Mul(pts, mat.NewDense(3, 3, r[:]))

	comp := p.TiltCompensation()
	s := &Surface{
		Rows: rows,
		Cols: cols,
		X:    make([]float64, n),
		Y:    make([]float64, n),
		Z:    make([]float64, n),
	}
	for k := 0; k < n; k++ {
		// detector x follows the lab Y axis, detector y the rotated X axis
		s.X[k] = rotated.At(k, 1) + p.XOffsetMM
		s.Y[k] = rotated.At(k, 0) + comp - p.YOffsetMM
		s.Z[k] = rotated.At(k, 2)
	}
	return s
}

// ScatteringAngle returns the 2θ in degrees of the ray from the sample that
// meets the detector plane at pt. It inverts Project for points lying on the
// detector plane.
func ScatteringAngle(pt geometry.Point2D, p Placement) float64 {
	origin := geometry.NewVector3(p.TiltCompensation()-p.YOffsetMM, p.XOffsetMM, 0)
	rotated := geometry.NewVector3(pt.Y, pt.X, p.DistanceMM).Sub(origin)
	ray := rotated.RotateY(-p.Angle())
	n := ray.Length()
	if n == 0 {
		return 0
	}
	cos := ray.Dot(geometry.NewVector3(0, 0, 1)) / n
	return math.Acos(math.Max(-1, math.Min(1, cos))) * 180 / math.Pi
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
