package viewer

import (
	"testing"

	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fgjorup/detgeo/pkg/geometry"
	"github.com/fgjorup/detgeo/pkg/reference"
)

func TestDetectorViewRender(t *testing.T) {
	test.NewApp()

	v := NewDetectorView()
	v.Render(800, 800)
	assert.Empty(t, v.objects, "nothing to draw without a frame")

	f := testFrame(t, reference.Pattern{})
	v.SetFrame(f)
	v.Render(800, 800)
	require.NotEmpty(t, v.objects)
	assert.Same(t, f, v.Frame())

	lines := 0
	for _, o := range v.objects {
		if _, ok := o.(*canvas.Line); ok {
			lines++
		}
	}
	assert.Positive(t, lines)
}

func TestDetectorViewSelect(t *testing.T) {
	test.NewApp()

	v := NewDetectorView()
	v.SetFrame(testFrame(t, reference.Pattern{}))
	v.Render(800, 800)

	var got Selection
	v.SetOnSelect(func(s Selection) { got = s })

	x, y := v.camera.Project(geometry.Point2D{X: 43.30})
	sel := v.Select(x, y)
	require.True(t, sel.Found)
	assert.InDelta(t, 30.0, sel.Ring.TwoTheta, 1e-9)
	assert.Less(t, sel.DistanceMM, 3.0)
	assert.InDelta(t, 43.30, sel.Point.X, 1e-6)
	assert.InDelta(t, 30.0, sel.TwoTheta, 0.01)

	v.DoubleTapped(nil)
	assert.InDelta(t, 0.0, v.camera.Center.X, 1e-12)
	assert.False(t, got.Found, "Select does not fire the callback")
}
