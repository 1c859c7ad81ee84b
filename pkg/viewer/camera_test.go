package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fgjorup/detgeo/pkg/engine"
	"github.com/fgjorup/detgeo/pkg/geometry"
)

func TestCameraFit(t *testing.T) {
	cam := NewCamera(engine.Extent{HalfWidthMM: 100, HalfHeightMM: 50}, 400, 400)

	// width is the limiting side
	assert.InDelta(t, 2.0, cam.Scale, 1e-12)

	x, y := cam.Project(geometry.Point2D{})
	assert.InDelta(t, 200.0, x, 1e-12)
	assert.InDelta(t, 200.0, y, 1e-12)

	x, y = cam.Project(geometry.Point2D{X: 100, Y: 50})
	assert.InDelta(t, 400.0, x, 1e-12)
	assert.InDelta(t, 100.0, y, 1e-12, "detector y points up")
}

func TestCameraUnprojectRoundTrip(t *testing.T) {
	cam := NewCamera(engine.Extent{HalfWidthMM: 80, HalfHeightMM: 80}, 640, 480)
	cam.Zoom(0.5)
	cam.Pan(12, -7)

	p := geometry.Point2D{X: 13.5, Y: -21.25}
	x, y := cam.Project(p)
	back := cam.Unproject(x, y)
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestCameraPanFollowsPointer(t *testing.T) {
	cam := NewCamera(engine.Extent{HalfWidthMM: 50, HalfHeightMM: 50}, 100, 100)
	before := cam.Unproject(50, 50)
	cam.Pan(10, 10)

	// the point that was under the pointer moved with it
	after := cam.Unproject(60, 60)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestCameraDegenerateExtent(t *testing.T) {
	cam := NewCamera(engine.Extent{}, 100, 100)
	assert.Equal(t, 1.0, cam.Scale)

	cam.Zoom(-5)
	assert.Equal(t, 0.01, cam.Scale)
}
