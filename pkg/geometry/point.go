package geometry

import "math"

// Point2D is a position on the detector plane in millimetres
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the sum of two points
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference between two points
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Distance returns the Euclidean distance between two points
func (p Point2D) Distance(other Point2D) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Bounds is an axis-aligned rectangle on the detector plane
type Bounds struct {
	Min Point2D `json:"min"`
	Max Point2D `json:"max"`
}

// Size returns the width and height of the bounds
func (b Bounds) Size() (float64, float64) {
	return b.Max.X - b.Min.X, b.Max.Y - b.Min.Y
}

// Contains reports whether p lies inside b, edges included
func (b Bounds) Contains(p Point2D) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Polyline is an ordered list of vertices. A closed polyline repeats its
// first vertex at the end.
type Polyline []Point2D

// Closed reports whether the polyline ends where it starts
func (pl Polyline) Closed() bool {
	return len(pl) > 2 && pl[0] == pl[len(pl)-1]
}

// Bounds calculates the bounding rectangle of the polyline
func (pl Polyline) Bounds() Bounds {
	if len(pl) == 0 {
		return Bounds{}
	}

	minP := pl[0]
	maxP := pl[0]
	for _, p := range pl[1:] {
		minP.X = math.Min(minP.X, p.X)
		minP.Y = math.Min(minP.Y, p.Y)
		maxP.X = math.Max(maxP.X, p.X)
		maxP.Y = math.Max(maxP.Y, p.Y)
	}
	return Bounds{Min: minP, Max: maxP}
}

// MaxY returns the largest y coordinate, or NaN for an empty polyline
func (pl Polyline) MaxY() float64 {
	if len(pl) == 0 {
		return math.NaN()
	}
	return pl.Bounds().Max.Y
}

// MinY returns the smallest y coordinate, or NaN for an empty polyline
func (pl Polyline) MinY() float64 {
	if len(pl) == 0 {
		return math.NaN()
	}
	return pl.Bounds().Min.Y
}

// Length returns the summed segment lengths
func (pl Polyline) Length() float64 {
	var total float64
	for i := 1; i < len(pl); i++ {
		total += pl[i].Distance(pl[i-1])
	}
	return total
}

// Centroid returns the mean vertex, ignoring the repeated closing vertex
func (pl Polyline) Centroid() Point2D {
	pts := pl
	if pl.Closed() {
		pts = pl[:len(pl)-1]
	}
	if len(pts) == 0 {
		return Point2D{}
	}

	var sum Point2D
	for _, p := range pts {
		sum = sum.Add(p)
	}
	n := float64(len(pts))
	return Point2D{X: sum.X / n, Y: sum.Y / n}
}
