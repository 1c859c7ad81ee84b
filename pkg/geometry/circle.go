package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateFit is returned when the points do not determine a circle
var ErrDegenerateFit = errors.New("points do not determine a circle")

// CircleFit represents the result of fitting a circle to points
type CircleFit struct {
	Center Point2D // Circle center on the detector plane
	Radius float64 // Circle radius
	StdDev float64 // Standard deviation of fit (quality measure)
}

// FitCircleThreePoints returns the circle through three points.
//
// Uses the determinant formula:
//
//	D = 2(x₁(y₂-y₃) + x₂(y₃-y₁) + x₃(y₁-y₂))
//	cx = ((x₁²+y₁²)(y₂-y₃) + (x₂²+y₂²)(y₃-y₁) + (x₃²+y₃²)(y₁-y₂)) / D
//	cy = ((x₁²+y₁²)(x₃-x₂) + (x₂²+y₂²)(x₁-x₃) + (x₃²+y₃²)(x₂-x₁)) / D
func FitCircleThreePoints(p1, p2, p3 Point2D) (*CircleFit, error) {
	x1, y1 := p1.X, p1.Y
	x2, y2 := p2.X, p2.Y
	x3, y3 := p3.X, p3.Y

	d := 2.0 * (x1*(y2-y3) + x2*(y3-y1) + x3*(y1-y2))
	if math.Abs(d) < 1e-10 {
		return nil, fmt.Errorf("%w: points are collinear", ErrDegenerateFit)
	}

	s1 := x1*x1 + y1*y1
	s2 := x2*x2 + y2*y2
	s3 := x3*x3 + y3*y3

	center := Point2D{
		X: (s1*(y2-y3) + s2*(y3-y1) + s3*(y1-y2)) / d,
		Y: (s1*(x3-x2) + s2*(x1-x3) + s3*(x2-x1)) / d,
	}
	return &CircleFit{Center: center, Radius: center.Distance(p1)}, nil
}

// FitCircle fits a circle to the points in the algebraic least-squares sense,
// solving x² + y² + D·x + E·y + F = 0 for D, E and F.
// The repeated closing vertex of a closed polyline is ignored.
func FitCircle(points Polyline) (*CircleFit, error) {
	if points.Closed() {
		points = points[:len(points)-1]
	}
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 points, got %d", ErrDegenerateFit, len(points))
	}
	if len(points) == 3 {
		fit, err := FitCircleThreePoints(points[0], points[1], points[2])
		if err != nil {
			return nil, err
		}
		return fit, nil
	}

	n := len(points)
	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i, p := range points {
		a.Set(i, 0, p.X)
		a.Set(i, 1, p.Y)
		a.Set(i, 2, 1)
		b.SetVec(i, -(p.X*p.X + p.Y*p.Y))
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
	}

	center := Point2D{X: -x.AtVec(0) / 2, Y: -x.AtVec(1) / 2}
	r2 := center.X*center.X + center.Y*center.Y - x.AtVec(2)
	if !(r2 > 0) || math.IsInf(r2, 0) {
		return nil, fmt.Errorf("%w: non-positive squared radius %g", ErrDegenerateFit, r2)
	}
	radius := math.Sqrt(r2)

	// Calculate fit quality (standard deviation of distances for all points)
	var sumError float64
	for _, p := range points {
		e := p.Distance(center) - radius
		sumError += e * e
	}

	return &CircleFit{
		Center: center,
		Radius: radius,
		StdDev: math.Sqrt(sumError / float64(n)),
	}, nil
}
