package viewer

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/fgjorup/detgeo/pkg/analysis"
	"github.com/fgjorup/detgeo/pkg/cone"
	"github.com/fgjorup/detgeo/pkg/engine"
	"github.com/fgjorup/detgeo/pkg/geometry"
)

// Selection describes a tap on the detector view
type Selection struct {
	Point      geometry.Point2D
	TwoTheta   float64 // scattering angle at Point in degrees
	Ring       analysis.RingInfo
	DistanceMM float64
	Found      bool
}

// DetectorView draws frames as fyne canvas objects
type DetectorView struct {
	widget.BaseWidget
	frame      *engine.Frame
	analysis   *analysis.MeasurementResult
	camera     *Camera
	fitted     bool
	objects    []fyne.CanvasObject
	dragStart  *fyne.Position
	isDragging bool
	width      float64
	height     float64
	lineWidth  float32
	onSelect   func(Selection)
}

// NewDetectorView creates an empty view; call SetFrame to populate it
func NewDetectorView() *DetectorView {
	v := &DetectorView{
		camera:    &Camera{Scale: 1},
		lineWidth: 2,
	}
	v.ExtendBaseWidget(v)
	return v
}

// SetOnSelect sets the callback for taps on the view
func (v *DetectorView) SetOnSelect(callback func(Selection)) {
	v.onSelect = callback
}

// SetFrame replaces the displayed frame. Must be called on the fyne goroutine.
func (v *DetectorView) SetFrame(f *engine.Frame) {
	refit := v.frame == nil || v.frame.Extent != f.Extent
	v.frame = f
	v.analysis = analysis.AnalyzeFrame(f)
	if refit {
		v.fitted = false
	}
	v.Render(v.width, v.height)
}

// Frame returns the frame currently displayed
func (v *DetectorView) Frame() *engine.Frame {
	return v.frame
}

// CreateRenderer creates the renderer for the widget
func (v *DetectorView) CreateRenderer() fyne.WidgetRenderer {
	return &detectorWidgetRenderer{view: v}
}

// Render rebuilds the canvas objects for the given size
func (v *DetectorView) Render(width, height float64) {
	v.width = width
	v.height = height
	v.objects = make([]fyne.CanvasObject, 0, len(v.objects))

	if v.frame == nil || width <= 0 || height <= 0 {
		v.Refresh()
		return
	}
	if !v.fitted {
		v.camera.Fit(v.frame.Extent, width, height)
		v.fitted = true
	}
	v.camera.Width = width
	v.camera.Height = height

	bg := canvas.NewRectangle(backgroundColor)
	bg.Resize(fyne.NewSize(float32(width), float32(height)))
	v.objects = append(v.objects, bg)

	for _, m := range v.frame.Modules {
		b := m.Bounds()
		x0, y0 := v.camera.Project(geometry.Point2D{X: b.Min.X, Y: b.Max.Y})
		x1, y1 := v.camera.Project(geometry.Point2D{X: b.Max.X, Y: b.Min.Y})
		rect := canvas.NewRectangle(moduleColor)
		rect.Move(fyne.NewPos(float32(x0), float32(y0)))
		rect.Resize(fyne.NewSize(float32(x1-x0), float32(y1-y0)))
		v.objects = append(v.objects, rect)
	}

	for _, r := range v.frame.Reference {
		if r.Visible {
			v.addPolyline(r.Polyline, referenceColor, 2.5*v.lineWidth)
		}
	}

	count := len(v.frame.Contours)
	for n, c := range v.frame.Contours {
		if c.Visible {
			v.addPolyline(c.Polyline, LevelColor(n, count), v.lineWidth)
		}
	}

	bx, by := v.camera.Project(v.frame.BeamCenter)
	marker := canvas.NewCircle(LevelColor(0, 1))
	size := float32(6)
	marker.Resize(fyne.NewSize(size, size))
	marker.Move(fyne.NewPos(float32(bx)-size/2, float32(by)-size/2))
	v.objects = append(v.objects, marker)

	for n, c := range v.frame.Contours {
		if !c.Visible {
			continue
		}
		x, y := v.camera.Project(c.LabelPosition)
		v.addLabel(LabelText(c.LabelValue), LevelColor(n, count), x, y)
	}

	unit := canvas.NewText(UnitText(v.frame.Unit), unitLabelColor)
	unit.Move(fyne.NewPos(6, 4))
	v.objects = append(v.objects, unit)

	v.Refresh()
}

func (v *DetectorView) addPolyline(pl geometry.Polyline, col color.Color, width float32) {
	for i := 1; i < len(pl); i++ {
		x1, y1 := v.camera.Project(pl[i-1])
		x2, y2 := v.camera.Project(pl[i])
		line := canvas.NewLine(col)
		line.StrokeWidth = width
		line.Position1 = fyne.NewPos(float32(x1), float32(y1))
		line.Position2 = fyne.NewPos(float32(x2), float32(y2))
		v.objects = append(v.objects, line)
	}
}

func (v *DetectorView) addLabel(text string, col color.Color, x, y float64) {
	label := canvas.NewText(text, col)
	label.Alignment = fyne.TextAlignCenter
	size := label.MinSize()
	pos := fyne.NewPos(float32(x)-size.Width/2, float32(y)-size.Height/2)

	fill := canvas.NewRectangle(labelFillColor)
	fill.Move(pos)
	fill.Resize(size)
	label.Move(pos)
	label.Resize(size)
	v.objects = append(v.objects, fill, label)
}

// Dragged pans the view
func (v *DetectorView) Dragged(event *fyne.DragEvent) {
	if v.dragStart != nil {
		v.camera.Pan(float64(event.Position.X-v.dragStart.X), float64(event.Position.Y-v.dragStart.Y))
		v.Render(v.width, v.height)
	}
	pos := event.Position
	v.dragStart = &pos
	v.isDragging = true
}

// DragEnd handles the end of a drag event
func (v *DetectorView) DragEnd() {
	v.dragStart = nil
	v.isDragging = false
}

// Scrolled zooms the view
func (v *DetectorView) Scrolled(event *fyne.ScrollEvent) {
	v.camera.Zoom(float64(event.Scrolled.DY) * 0.001)
	v.Render(v.width, v.height)
}

// DoubleTapped resets zoom and pan
func (v *DetectorView) DoubleTapped(_ *fyne.PointEvent) {
	v.fitted = false
	v.Render(v.width, v.height)
}

// Tapped reports the detector position and the nearest visible ring
func (v *DetectorView) Tapped(event *fyne.PointEvent) {
	if v.isDragging {
		return
	}
	sel := v.Select(float64(event.Position.X), float64(event.Position.Y))
	if v.onSelect != nil {
		v.onSelect(sel)
	}
}

// Select resolves a screen position to a Selection
func (v *DetectorView) Select(x, y float64) Selection {
	sel := Selection{Point: v.camera.Unproject(x, y)}
	if v.frame != nil {
		sel.TwoTheta = cone.ScatteringAngle(sel.Point, v.frame.Params.Placement())
	}
	if v.analysis != nil {
		sel.Ring, sel.DistanceMM, sel.Found = analysis.FindNearestRing(v.analysis, sel.Point)
	}
	return sel
}

// detectorWidgetRenderer implements fyne.WidgetRenderer
type detectorWidgetRenderer struct {
	view *DetectorView
}

func (r *detectorWidgetRenderer) Layout(size fyne.Size) {
	if float64(size.Width) != r.view.width || float64(size.Height) != r.view.height {
		r.view.Render(float64(size.Width), float64(size.Height))
	}
}

func (r *detectorWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (r *detectorWidgetRenderer) Refresh() {
	canvas.Refresh(r.view)
}

func (r *detectorWidgetRenderer) Objects() []fyne.CanvasObject {
	return r.view.objects
}

func (r *detectorWidgetRenderer) Destroy() {}
