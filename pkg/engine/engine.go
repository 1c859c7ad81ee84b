// Package engine turns a detector, a plot configuration and a set of geometry
// parameters into a complete frame of contour and reference polylines.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fgjorup/detgeo/internal/logging"
	"github.com/fgjorup/detgeo/pkg/contour"
	"github.com/fgjorup/detgeo/pkg/detector"
	"github.com/fgjorup/detgeo/pkg/geometry"
	"github.com/fgjorup/detgeo/pkg/reference"
	"github.com/fgjorup/detgeo/pkg/sampler"
	"github.com/fgjorup/detgeo/pkg/units"
)

// ContourResult is the outcome for one experimental level
type ContourResult struct {
	Index         int               `json:"index"`
	TwoTheta      float64           `json:"two_theta"`
	Polyline      geometry.Polyline `json:"polyline"`
	Values        units.Values      `json:"values"`
	LabelValue    float64           `json:"label_value"`
	LabelPosition geometry.Point2D  `json:"label_position"`
	Visible       bool              `json:"visible"`
}

// ReferenceContourResult is the outcome for one observable reference line
type ReferenceContourResult struct {
	Index    int               `json:"index"`
	DSpacing float64           `json:"d_spacing"`
	TwoTheta float64           `json:"two_theta"`
	Polyline geometry.Polyline `json:"polyline"`
	Visible  bool              `json:"visible"`
}

// Extent is the half size of the detector's sensitive area
type Extent struct {
	HalfWidthMM  float64 `json:"half_width"`
	HalfHeightMM float64 `json:"half_height"`
}

// Frame is everything the rendering layer needs for one parameter snapshot
type Frame struct {
	Params        Params                   `json:"params"`
	Detector      string                   `json:"detector"`
	Unit          units.Unit               `json:"unit"`
	Extent        Extent                   `json:"extent"`
	Modules       []detector.Module        `json:"modules"`
	BeamCenter    geometry.Point2D         `json:"beam_center"`
	Contours      []ContourResult          `json:"contours"`
	Reference     []ReferenceContourResult `json:"reference"`
	ReferenceName string                   `json:"reference_name"`
}

// Engine computes frames for a fixed detector and plot configuration.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	det     detector.Geometry
	plot    PlotConfig
	grid    sampler.Config
	levels  []Level
	extent  Extent
	gridMax float64
	modules []detector.Module
	log     *logrus.Entry
}

// New prepares an engine, precomputing the contour levels and grid extent
func New(det detector.Geometry, plot PlotConfig) (*Engine, error) {
	if err := plot.Validate(); err != nil {
		return nil, err
	}
	if det.ModulesH < 1 || det.ModulesV < 1 {
		return nil, fmt.Errorf("detector %q has no modules", det.Name)
	}

	w, h := det.Extent()
	grid := plot.Sampler()
	return &Engine{
		det:     det,
		plot:    plot,
		grid:    grid,
		levels:  plot.LevelSet(),
		extent:  Extent{HalfWidthMM: w, HalfHeightMM: h},
		gridMax: grid.GridMax(w, h),
		modules: det.Modules(),
		log:     logging.NamedLogger("engine").WithField("detector", det.Name),
	}, nil
}

// Detector returns the detector the engine was built for
func (e *Engine) Detector() detector.Geometry { return e.det }

// Plot returns the plot configuration
func (e *Engine) Plot() PlotConfig { return e.plot }

// Levels returns the experimental contour levels
func (e *Engine) Levels() []Level {
	return append([]Level(nil), e.levels...)
}

// Extent returns the detector half size
func (e *Engine) Extent() Extent { return e.extent }

// GridMax returns the half extent of the sampling grid
func (e *Engine) GridMax() float64 { return e.gridMax }

// BeamCenter returns where the direct beam meets the detector
func BeamCenter(p Params) geometry.Point2D {
	return geometry.Point2D{X: p.XOffsetMM, Y: sampler.Shift(p.Placement())}
}

// Recompute returns one result per level, in level order. Levels that do not
// reach the detector are returned with Visible false and no polyline.
func (e *Engine) Recompute(ctx context.Context, p Params) ([]ContourResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]ContourResult, len(e.levels))
	err := e.parallel(ctx, len(e.levels), func(i int) {
		results[i] = e.contour(e.levels[i], p)
	})
	if err != nil {
		return nil, err
	}
	e.log.WithField("levels", len(results)).Debugf("contours recomputed in %s", time.Since(start))
	return results, nil
}

// RecomputeReference returns one result per reference line that can diffract
// at the current energy, in pattern order.
func (e *Engine) RecomputeReference(ctx context.Context, p Params, pattern reference.Pattern) ([]ReferenceContourResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	lines := reference.Lines(pattern, p.EnergyKeV)
	if skipped := len(pattern.DSpacings) - len(lines); skipped > 0 && !pattern.IsSentinel() {
		e.log.Debugf("%s: %d lines beyond the Bragg limit at %g keV", pattern.Name, skipped, p.EnergyKeV)
	}

	results := make([]ReferenceContourResult, len(lines))
	err := e.parallel(ctx, len(lines), func(i int) {
		results[i] = e.referenceContour(lines[i], p)
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Frame computes contours and reference lines for one parameter snapshot
func (e *Engine) Frame(ctx context.Context, p Params, pattern reference.Pattern) (*Frame, error) {
	contours, err := e.Recompute(ctx, p)
	if err != nil {
		return nil, err
	}
	ref, err := e.RecomputeReference(ctx, p, pattern)
	if err != nil {
		return nil, err
	}
	return &Frame{
		Params:        p,
		Detector:      e.det.Name,
		Unit:          e.plot.Unit,
		Extent:        e.extent,
		Modules:       e.modules,
		BeamCenter:    BeamCenter(p),
		Contours:      contours,
		Reference:     ref,
		ReferenceName: pattern.Name,
	}, nil
}

func (e *Engine) parallel(ctx context.Context, n int, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	return g.Wait()
}

// trace samples, projects and contours the cone of opening angle tth
func (e *Engine) trace(tth float64, p Params) geometry.Polyline {
	pl := p.Placement()
	grid := e.grid.Sample(tth, e.gridMax, pl)
	surface := grid.Surface(tth, pl)
	if !sampler.InFrame(surface, p.DistanceMM) {
		return nil
	}
	return contour.Extract(surface, p.DistanceMM)
}

func (e *Engine) contour(lvl Level, p Params) ContourResult {
	values := units.FromTwoTheta(lvl.TwoTheta, p.EnergyKeV)
	res := ContourResult{
		Index:      lvl.Index,
		TwoTheta:   lvl.TwoTheta,
		Values:     values,
		LabelValue: values.In(e.plot.Unit),
	}

	line := e.trace(lvl.TwoTheta, p)
	if len(line) == 0 {
		return res
	}
	res.Polyline = line
	res.LabelPosition = contour.LabelAnchor(line, lvl.TwoTheta, p.XOffsetMM)
	res.Visible = true
	return res
}

func (e *Engine) referenceContour(l reference.Line, p Params) ReferenceContourResult {
	res := ReferenceContourResult{
		Index:    l.Index,
		DSpacing: l.DSpacing,
		TwoTheta: l.TwoTheta,
	}
	line := e.trace(l.TwoTheta, p)
	if len(line) == 0 {
		return res
	}
	res.Polyline = line
	res.Visible = true
	return res
}
