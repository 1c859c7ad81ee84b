package geometry

import (
	"errors"
	"math"
	"testing"
)

func ring(cx, cy, r float64, n int) Polyline {
	pl := make(Polyline, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pl = append(pl, Point2D{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	return append(pl, pl[0])
}

func TestPolylineBounds(t *testing.T) {
	pl := Polyline{{1, 2}, {-3, 5}, {4, -1}}
	b := pl.Bounds()

	if b.Min != (Point2D{-3, -1}) || b.Max != (Point2D{4, 5}) {
		t.Errorf("Bounds failed: got %+v", b)
	}
	if pl.MaxY() != 5 || pl.MinY() != -1 {
		t.Errorf("MaxY/MinY failed: got %v/%v", pl.MaxY(), pl.MinY())
	}
	if !math.IsNaN(Polyline(nil).MaxY()) {
		t.Errorf("MaxY of empty polyline should be NaN")
	}
}

func TestPolylineClosedCentroid(t *testing.T) {
	pl := ring(5, -2, 10, 64)
	if !pl.Closed() {
		t.Fatal("ring should be closed")
	}
	c := pl.Centroid()
	if c.Distance(Point2D{5, -2}) > 1e-9 {
		t.Errorf("Centroid failed: got %v", c)
	}

	open := Polyline{{0, 0}, {1, 0}, {2, 0}}
	if open.Closed() {
		t.Error("open polyline reported closed")
	}
	if math.Abs(open.Length()-2) > 1e-12 {
		t.Errorf("Length failed: got %v", open.Length())
	}
}

func TestPointSubDistance(t *testing.T) {
	d := Point2D{X: 7, Y: 1}.Sub(Point2D{X: 4, Y: 5})
	if d != (Point2D{3, -4}) {
		t.Errorf("Sub failed: got %v", d)
	}
	if math.Abs(Point2D{X: 7, Y: 1}.Distance(Point2D{X: 4, Y: 5})-5) > 1e-12 {
		t.Errorf("Distance failed")
	}
}

func TestFitCircle(t *testing.T) {
	pl := ring(3, 4, 43.3, 180)
	fit, err := FitCircle(pl)
	if err != nil {
		t.Fatalf("FitCircle failed: %v", err)
	}
	if math.Abs(fit.Radius-43.3) > 1e-6 {
		t.Errorf("Radius: expected 43.3, got %v", fit.Radius)
	}
	if fit.Center.Distance(Point2D{3, 4}) > 1e-6 {
		t.Errorf("Center: expected (3,4), got %v", fit.Center)
	}
	if fit.StdDev > 1e-6 {
		t.Errorf("StdDev too large: %v", fit.StdDev)
	}
}

func TestFitCircleThreePoints(t *testing.T) {
	fit, err := FitCircleThreePoints(Point2D{1, 0}, Point2D{0, 1}, Point2D{-1, 0})
	if err != nil {
		t.Fatalf("FitCircleThreePoints failed: %v", err)
	}
	if math.Abs(fit.Radius-1) > 1e-12 || fit.Center.Distance(Point2D{}) > 1e-12 {
		t.Errorf("unexpected fit %+v", fit)
	}

	_, err = FitCircleThreePoints(Point2D{0, 0}, Point2D{1, 1}, Point2D{2, 2})
	if !errors.Is(err, ErrDegenerateFit) {
		t.Errorf("expected ErrDegenerateFit for collinear points, got %v", err)
	}
}

func TestFitCircleTooFewPoints(t *testing.T) {
	_, err := FitCircle(Polyline{{0, 0}, {1, 1}})
	if !errors.Is(err, ErrDegenerateFit) {
		t.Errorf("expected ErrDegenerateFit, got %v", err)
	}
}
