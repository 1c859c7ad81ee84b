package viewer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/fgjorup/detgeo/pkg/engine"
	"github.com/fgjorup/detgeo/pkg/geometry"
)

// Options controls how a frame is rasterised
type Options struct {
	// Size is the image height in pixels; the width follows the detector aspect ratio.
	Size           int
	LineWidth      int
	ReferenceWidth int
	Labels         bool
}

// DefaultOptions matches the interactive view
func DefaultOptions() Options {
	return Options{
		Size:           768,
		LineWidth:      3,
		ReferenceWidth: 5,
		Labels:         true,
	}
}

// Rasterize draws a frame into a new image
func Rasterize(f *engine.Frame, opts Options) *image.RGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 1
	}
	if opts.ReferenceWidth <= 0 {
		opts.ReferenceWidth = 1
	}

	height := opts.Size
	width := height
	if f.Extent.HalfHeightMM > 0 {
		width = int(math.Round(float64(height) * f.Extent.HalfWidthMM / f.Extent.HalfHeightMM))
	}
	if width < 1 {
		width = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	cam := NewCamera(f.Extent, float64(width), float64(height))

	for _, m := range f.Modules {
		b := m.Bounds()
		x0, y0 := cam.Project(geometry.Point2D{X: b.Min.X, Y: b.Max.Y})
		x1, y1 := cam.Project(geometry.Point2D{X: b.Max.X, Y: b.Min.Y})
		fillRect(img, x0, y0, x1, y1, moduleColor)
	}

	for _, r := range f.Reference {
		if r.Visible {
			drawPolyline(img, cam, r.Polyline, opts.ReferenceWidth, referenceColor)
		}
	}

	for n, c := range f.Contours {
		if c.Visible {
			drawPolyline(img, cam, c.Polyline, opts.LineWidth, LevelColor(n, len(f.Contours)))
		}
	}

	bx, by := cam.Project(f.BeamCenter)
	fillCircle(img, bx, by, 3, LevelColor(0, 1))

	if opts.Labels {
		for n, c := range f.Contours {
			if !c.Visible {
				continue
			}
			x, y := cam.Project(c.LabelPosition)
			drawLabel(img, x, y, LabelText(c.LabelValue), LevelColor(n, len(f.Contours)), true)
		}
		drawText(img, 6, 6+basicfont.Face7x13.Ascent, UnitText(f.Unit), unitLabelColor)
		if f.ReferenceName != "" {
			drawText(img, 6, height-6-basicfont.Face7x13.Descent, f.ReferenceName, unitLabelColor)
		}
	}

	return img
}

// WritePNG encodes img as PNG
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG rasterises a frame and writes it to path
func SavePNG(path string, f *engine.Frame, opts Options) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WritePNG(file, Rasterize(f, opts)); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func drawPolyline(img *image.RGBA, cam *Camera, pl geometry.Polyline, width int, col color.RGBA) {
	for i := 1; i < len(pl); i++ {
		x1, y1 := cam.Project(pl[i-1])
		x2, y2 := cam.Project(pl[i])
		drawThickLine(img, round(x1), round(y1), round(x2), round(y2), width, col)
	}
}

// fillRect blends col over the rectangle spanned by two corners
func fillRect(img *image.RGBA, x0, y0, x1, y1 float64, col color.NRGBA) {
	r := image.Rect(round(x0), round(y0), round(x1), round(y1)).Canon()
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

func fillCircle(img *image.RGBA, cx, cy, radius float64, col color.RGBA) {
	bounds := img.Bounds()
	r2 := radius * radius
	for y := int(math.Floor(cy - radius)); y <= int(math.Ceil(cy+radius)); y++ {
		for x := int(math.Floor(cx - radius)); x <= int(math.Ceil(cx+radius)); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r2 && image.Pt(x, y).In(bounds) {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawThickLine stamps a width x width square along a Bresenham line
func drawThickLine(img *image.RGBA, x1, y1, x2, y2, width int, col color.RGBA) {
	if width <= 1 {
		drawLine(img, x1, y1, x2, y2, col)
		return
	}
	lo := -(width - 1) / 2
	hi := width / 2
	for oy := lo; oy <= hi; oy++ {
		for ox := lo; ox <= hi; ox++ {
			drawLine(img, x1+ox, y1+oy, x2+ox, y2+oy, col)
		}
	}
}

// drawLine draws a line on an image using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	var sx, sy int
	if x1 < x2 {
		sx = 1
	} else {
		sx = -1
	}
	if y1 < y2 {
		sy = 1
	} else {
		sy = -1
	}

	err := dx - dy

	for {
		if x1 >= bounds.Min.X && x1 < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, col)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawLabel centres text on (x, y), optionally on a filled box
func drawLabel(img *image.RGBA, x, y float64, text string, col color.RGBA, fill bool) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	h := face.Height
	left := round(x) - w/2
	top := round(y) - h/2
	if fill {
		box := image.Rect(left-2, top-1, left+w+2, top+h+1)
		draw.Draw(img, box.Intersect(img.Bounds()), image.NewUniform(labelFillColor), image.Point{}, draw.Src)
	}
	drawText(img, left, top+face.Ascent, text, col)
}

// drawText draws text with its baseline at y
func drawText(img *image.RGBA, x, y int, text string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func round(v float64) int {
	return int(math.Round(v))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
