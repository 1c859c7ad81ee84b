// Package reference turns the d-spacings of a calibration standard into the
// scattering angles at which its rings appear.
package reference

import (
	"math"
	"slices"
	"sync"

	"github.com/fgjorup/detgeo/pkg/units"
)

// NoneName selects no reference pattern
const NoneName = "None"

// Pattern is a named, ordered list of d-spacings in Å
type Pattern struct {
	Name      string    `json:"name"`
	DSpacings []float64 `json:"d_spacings"`
}

// Truncate returns a copy holding at most count d-spacings
func (p Pattern) Truncate(count int) Pattern {
	n := min(max(count, 0), len(p.DSpacings))
	return Pattern{Name: p.Name, DSpacings: slices.Clone(p.DSpacings[:n])}
}

// Sentinel returns the placeholder pattern used when no reference is selected:
// count entries of -1, none of which produce a line.
func Sentinel(count int) Pattern {
	d := make([]float64, max(count, 0))
	for i := range d {
		d[i] = -1
	}
	return Pattern{Name: NoneName, DSpacings: d}
}

// IsSentinel reports whether p carries no physical d-spacing
func (p Pattern) IsSentinel() bool {
	for _, d := range p.DSpacings {
		if d > 0 {
			return false
		}
	}
	return true
}

// Line is one reference ring that can be observed at the current energy
type Line struct {
	Index    int     `json:"index"`
	DSpacing float64 `json:"d_spacing"`
	TwoTheta float64 `json:"two_theta"`
}

// TwoTheta returns the Bragg angle 2θ in degrees for spacing d.
// ok is false when d is not positive or λ/(2d) exceeds 1.
func TwoTheta(d, energyKeV float64) (float64, bool) {
	if !(d > 0) {
		return 0, false
	}
	x := units.Wavelength(energyKeV) / (2 * d)
	if x > 1 {
		return 0, false
	}
	return 2 * math.Asin(x) * 180 / math.Pi, true
}

// Lines converts every usable d-spacing of p. Entries that cannot diffract at
// this energy are dropped; Index keeps the position within the pattern.
func Lines(p Pattern, energyKeV float64) []Line {
	lines := make([]Line, 0, len(p.DSpacings))
	for i, d := range p.DSpacings {
		tth, ok := TwoTheta(d, energyKeV)
		if !ok {
			continue
		}
		lines = append(lines, Line{Index: i, DSpacing: d, TwoTheta: tth})
	}
	return lines
}

// Library holds the built-in standards and any custom patterns added during a
// session. Custom names keep their insertion order for menus.
type Library struct {
	mu          sync.RWMutex
	builtin     map[string]Pattern
	builtinName []string
	custom      map[string]Pattern
	customName  []string
}

// NewLibrary creates a library with the given built-in patterns
func NewLibrary(builtin ...Pattern) *Library {
	l := &Library{
		builtin: make(map[string]Pattern, len(builtin)),
		custom:  make(map[string]Pattern),
	}
	for _, p := range builtin {
		if _, ok := l.builtin[p.Name]; !ok {
			l.builtinName = append(l.builtinName, p.Name)
		}
		l.builtin[p.Name] = p
	}
	return l
}

// Names returns the built-in pattern names
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.builtinName)
}

// CustomNames returns the custom pattern names in insertion order
func (l *Library) CustomNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.customName)
}

// Add stores a custom pattern. Re-adding a name replaces the pattern but keeps
// its menu position.
func (l *Library) Add(p Pattern) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.custom[p.Name]; !ok {
		l.customName = append(l.customName, p.Name)
	}
	l.custom[p.Name] = Pattern{Name: p.Name, DSpacings: slices.Clone(p.DSpacings)}
}

// Has reports whether name resolves to a stored pattern
func (l *Library) Has(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.builtin[name]
	if !ok {
		_, ok = l.custom[name]
	}
	return ok
}

// Lookup returns the pattern stored under name. Built-in standards are
// truncated to count lines; custom patterns are returned as stored. Unknown
// names, including NoneName, yield Sentinel(count).
func (l *Library) Lookup(name string, count int) Pattern {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if p, ok := l.builtin[name]; ok {
		return p.Truncate(count)
	}
	if p, ok := l.custom[name]; ok {
		return p.Truncate(len(p.DSpacings))
	}
	return Sentinel(count)
}
