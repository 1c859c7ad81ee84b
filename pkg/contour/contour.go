// Package contour extracts iso-lines from a projected cone surface with
// marching squares on its curvilinear quad grid.
package contour

import (
	"github.com/fgjorup/detgeo/pkg/cone"
	"github.com/fgjorup/detgeo/pkg/geometry"
)

// cell edges
const (
	bottom = iota
	right
	top
	left
)

// segments lists the edge pairs crossed for each corner case. The saddle cases
// 5 and 10 are resolved separately.
var segments = [16][][2]int{
	0:  nil,
	1:  {{bottom, left}},
	2:  {{bottom, right}},
	3:  {{left, right}},
	4:  {{right, top}},
	6:  {{bottom, top}},
	7:  {{left, top}},
	8:  {{left, top}},
	9:  {{bottom, top}},
	11: {{right, top}},
	12: {{left, right}},
	13: {{bottom, right}},
	14: {{bottom, left}},
	15: nil,
}

type tracer struct {
	s     *cone.Surface
	level float64

	points map[int]geometry.Point2D
	adj    map[int][]int
	order  []int
}

// Lines returns every polyline along which the surface height equals level.
// Open lines come first, in row-major order of their first crossing, followed
// by closed loops, which repeat their first vertex.
func Lines(s *cone.Surface, level float64) []geometry.Polyline {
	if s == nil || s.Rows < 2 || s.Cols < 2 {
		return nil
	}

	t := &tracer{
		s:      s,
		level:  level,
		points: make(map[int]geometry.Point2D),
		adj:    make(map[int][]int),
	}
	for i := 0; i < s.Rows-1; i++ {
		for j := 0; j < s.Cols-1; j++ {
			t.march(i, j)
		}
	}
	return t.trace()
}

func (t *tracer) above(i, j int) bool {
	return t.s.Z[i*t.s.Cols+j] > t.level
}

func (t *tracer) march(i, j int) {
	idx := 0
	if t.above(i, j) {
		idx |= 1
	}
	if t.above(i, j+1) {
		idx |= 2
	}
	if t.above(i+1, j+1) {
		idx |= 4
	}
	if t.above(i+1, j) {
		idx |= 8
	}

	pairs := segments[idx]
	switch idx {
	case 5:
		if t.centreAbove(i, j) {
			pairs = [][2]int{{bottom, right}, {left, top}}
		} else {
			pairs = [][2]int{{bottom, left}, {right, top}}
		}
	case 10:
		if t.centreAbove(i, j) {
			pairs = [][2]int{{bottom, left}, {right, top}}
		} else {
			pairs = [][2]int{{bottom, right}, {left, top}}
		}
	}

	for _, p := range pairs {
		a := t.crossing(i, j, p[0])
		b := t.crossing(i, j, p[1])
		t.adj[a] = append(t.adj[a], b)
		t.adj[b] = append(t.adj[b], a)
	}
}

func (t *tracer) centreAbove(i, j int) bool {
	c := t.s.Cols
	z := t.s.Z
	avg := (z[i*c+j] + z[i*c+j+1] + z[(i+1)*c+j+1] + z[(i+1)*c+j]) / 4
	return avg > t.level
}

// crossing interpolates the level crossing on one edge of cell (i, j) and
// returns the key shared by both cells adjacent to that edge.
func (t *tracer) crossing(i, j, edge int) int {
	var i0, j0, i1, j1 int
	switch edge {
	case bottom:
		i0, j0, i1, j1 = i, j, i, j+1
	case right:
		i0, j0, i1, j1 = i, j+1, i+1, j+1
	case top:
		i0, j0, i1, j1 = i+1, j, i+1, j+1
	default:
		i0, j0, i1, j1 = i, j, i+1, j
	}

	key := (i0*t.s.Cols + j0) * 2
	if j1 == j0 {
		key++
	}
	if _, ok := t.points[key]; ok {
		return key
	}

	xa, ya, za := t.s.At(i0, j0)
	xb, yb, zb := t.s.At(i1, j1)
	f := (t.level - za) / (zb - za)
	t.points[key] = geometry.Point2D{X: xa + f*(xb-xa), Y: ya + f*(yb-ya)}
	t.order = append(t.order, key)
	return key
}

func (t *tracer) trace() []geometry.Polyline {
	var lines []geometry.Polyline
	visited := make(map[int]bool, len(t.order))

	for _, k := range t.order {
		if !visited[k] && len(t.adj[k]) == 1 {
			lines = append(lines, t.walk(k, visited))
		}
	}
	for _, k := range t.order {
		if !visited[k] {
			line := t.walk(k, visited)
			lines = append(lines, append(line, line[0]))
		}
	}
	return lines
}

func (t *tracer) walk(start int, visited map[int]bool) geometry.Polyline {
	var line geometry.Polyline
	cur := start
	for {
		visited[cur] = true
		line = append(line, t.points[cur])

		next := -1
		for _, n := range t.adj[cur] {
			if !visited[n] {
				next = n
				break
			}
		}
		if next < 0 {
			return line
		}
		cur = next
	}
}

// Representative picks the polyline drawn for a level. When the grid splits a
// ring into several pieces only the last piece is kept, so a ring can appear
// truncated on an undersized grid; raising the grid multiplier avoids this.
// "Last" follows the order of Lines: open lines in grid scan order, then
// closed loops. Other contouring tools order pieces differently and may keep
// a different piece for the same fragmented level.
func Representative(lines []geometry.Polyline) geometry.Polyline {
	if len(lines) == 0 {
		return nil
	}
	return lines[len(lines)-1]
}

// Extract returns the representative polyline of surface s at level, or nil
// when the level does not cross the surface.
func Extract(s *cone.Surface, level float64) geometry.Polyline {
	return Representative(Lines(s, level))
}

// LabelAnchor places a ring label at the beam's horizontal position. Below 90°
// the ring opens upwards and the label sits at its highest point, beyond 90°
// it bends the other way and the lowest point is used.
func LabelAnchor(pl geometry.Polyline, twoThetaDeg, xOffsetMM float64) geometry.Point2D {
	y := pl.MaxY()
	if twoThetaDeg > 90 {
		y = pl.MinY()
	}
	return geometry.Point2D{X: xOffsetMM, Y: y}
}
