// Package analysis measures the rings of a computed frame: their extent,
// fitted radius and how much of each ring falls on sensor modules.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/fgjorup/detgeo/pkg/detector"
	"github.com/fgjorup/detgeo/pkg/engine"
	"github.com/fgjorup/detgeo/pkg/geometry"
)

// RingInfo contains measurements of one ring on the detector plane
type RingInfo struct {
	Index     int                 `json:"index"`
	TwoTheta  float64             `json:"two_theta"`
	Reference bool                `json:"reference"`
	Visible   bool                `json:"visible"`
	Closed    bool                `json:"closed"`
	Vertices  int                 `json:"vertices"`
	Bounds    geometry.Bounds     `json:"bounds"`
	Length    float64             `json:"length"`
	Fit       *geometry.CircleFit `json:"fit,omitempty"`
	Centroid  geometry.Point2D    `json:"centroid"`
	Coverage  float64             `json:"coverage"`

	polyline geometry.Polyline
}

// MeasurementResult contains the ring measurements of a frame
type MeasurementResult struct {
	Detector     string     `json:"detector"`
	Rings        []RingInfo `json:"rings"`
	Reference    []RingInfo `json:"reference"`
	VisibleCount int        `json:"visible_count"`
	ClosedCount  int        `json:"closed_count"`
}

// AnalyzeFrame measures every contour and reference ring of a frame
func AnalyzeFrame(f *engine.Frame) *MeasurementResult {
	result := &MeasurementResult{
		Detector:  f.Detector,
		Rings:     make([]RingInfo, 0, len(f.Contours)),
		Reference: make([]RingInfo, 0, len(f.Reference)),
	}

	for _, c := range f.Contours {
		info := measure(c.Index, c.TwoTheta, c.Visible, c.Polyline, f.Modules)
		if info.Visible {
			result.VisibleCount++
		}
		if info.Closed {
			result.ClosedCount++
		}
		result.Rings = append(result.Rings, info)
	}
	for _, r := range f.Reference {
		info := measure(r.Index, r.TwoTheta, r.Visible, r.Polyline, f.Modules)
		info.Reference = true
		result.Reference = append(result.Reference, info)
	}
	return result
}

func measure(index int, tth float64, visible bool, pl geometry.Polyline, modules []detector.Module) RingInfo {
	info := RingInfo{
		Index:    index,
		TwoTheta: tth,
		Visible:  visible && len(pl) > 0,
		Closed:   pl.Closed(),
		Vertices: len(pl),
		Bounds:   pl.Bounds(),
		Length:   pl.Length(),
		Coverage: Coverage(pl, modules),
		Centroid: pl.Centroid(),
		polyline: pl,
	}
	if fit, err := geometry.FitCircle(pl); err == nil {
		info.Fit = fit
	}
	return info
}

// Coverage returns the fraction of the ring's vertices that land on a module
func Coverage(pl geometry.Polyline, modules []detector.Module) float64 {
	if pl.Closed() {
		pl = pl[:len(pl)-1]
	}
	if len(pl) == 0 {
		return 0
	}

	hits := 0
	for _, p := range pl {
		for _, m := range modules {
			if m.Bounds().Contains(p) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(pl))
}

// FindRingsOnDetector returns the visible rings with at least minCoverage of
// their length on sensor modules.
func FindRingsOnDetector(result *MeasurementResult, minCoverage float64) []RingInfo {
	var rings []RingInfo
	for _, r := range result.Rings {
		if r.Visible && r.Coverage >= minCoverage && r.Coverage > 0 {
			rings = append(rings, r)
		}
	}
	return rings
}

// FindLargestRings returns the count rings with the largest fitted radius
func FindLargestRings(result *MeasurementResult, count int) []RingInfo {
	var rings []RingInfo
	for _, r := range result.Rings {
		if r.Fit != nil {
			rings = append(rings, r)
		}
	}

	sort.Slice(rings, func(i, j int) bool {
		return rings[i].Fit.Radius > rings[j].Fit.Radius
	})

	if count > len(rings) {
		count = len(rings)
	}
	return rings[:count]
}

// FindNearestRing returns the visible ring passing closest to a point on the
// detector and the distance to its nearest vertex. ok is false when no ring
// is visible.
func FindNearestRing(result *MeasurementResult, point geometry.Point2D) (ring RingInfo, distance float64, ok bool) {
	distance = math.MaxFloat64
	for _, r := range result.Rings {
		if !r.Visible {
			continue
		}
		for _, v := range r.polyline {
			if d := point.Distance(v); d < distance {
				distance = d
				ring = r
				ok = true
			}
		}
	}
	return ring, distance, ok
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "mm"
	}
	return fmt.Sprintf("%.3f %s", value, unit)
}

// FormatPoint formats a detector plane position
func FormatPoint(p geometry.Point2D) string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}
