// Package crystal derives powder diffraction d-spacings from a unit cell and
// reads cells from CIF files.
package crystal

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/fgjorup/detgeo/pkg/reference"
)

// DefaultDMin is the smallest d-spacing enumerated for a pattern, in Å
const DefaultDMin = 0.4

var (
	// ErrInvalidCell is returned for non-physical cell parameters
	ErrInvalidCell = errors.New("invalid unit cell")
	// ErrUnknownCentring is returned for a lattice centring letter outside P, I, F, A, B, C, R
	ErrUnknownCentring = errors.New("unknown lattice centring")
)

// Centring is the lattice centring type, the first letter of a Hermann-Mauguin symbol
type Centring byte

const (
	Primitive    Centring = 'P'
	BodyCentred  Centring = 'I'
	FaceCentred  Centring = 'F'
	ACentred     Centring = 'A'
	BCentred     Centring = 'B'
	CCentred     Centring = 'C'
	Rhombohedral Centring = 'R'
)

// ParseCentring accepts a centring letter or a full space group symbol
func ParseCentring(s string) (Centring, error) {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `'"`))
	if s == "" {
		return 0, fmt.Errorf("%w: empty symbol", ErrUnknownCentring)
	}
	c := Centring(strings.ToUpper(s[:1])[0])
	switch c {
	case Primitive, BodyCentred, FaceCentred, ACentred, BCentred, CCentred, Rhombohedral:
		return c, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCentring, s)
}

func (c Centring) String() string {
	return string(rune(c))
}

// Allowed reports whether reflection hkl survives the centring extinction rules
func (c Centring) Allowed(h, k, l int) bool {
	switch c {
	case BodyCentred:
		return even(h + k + l)
	case FaceCentred:
		return (even(h) && even(k) && even(l)) || (!even(h) && !even(k) && !even(l))
	case ACentred:
		return even(k + l)
	case BCentred:
		return even(h + l)
	case CCentred:
		return even(h + k)
	case Rhombohedral:
		return mod(-h+k+l, 3) == 0
	default:
		return true
	}
}

// Cell is a unit cell with lengths in Å and angles in degrees
type Cell struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
	Centring           Centring
	// Diamond additionally removes all-even reflections with h+k+l = 4n+2
	Diamond bool
}

// Cubic returns a cubic cell with edge a
func Cubic(a float64, c Centring) Cell {
	return Cell{A: a, B: a, C: a, Alpha: 90, Beta: 90, Gamma: 90, Centring: c}
}

// Validate checks the cell lengths and angles
func (c Cell) Validate() error {
	if !(c.A > 0 && c.B > 0 && c.C > 0) {
		return fmt.Errorf("%w: lengths must be positive, got %g %g %g", ErrInvalidCell, c.A, c.B, c.C)
	}
	for _, ang := range []float64{c.Alpha, c.Beta, c.Gamma} {
		if !(ang > 0 && ang < 180) {
			return fmt.Errorf("%w: angle %g outside (0, 180)", ErrInvalidCell, ang)
		}
	}
	if c.Centring == 0 {
		return nil
	}
	if _, err := ParseCentring(c.Centring.String()); err != nil {
		return err
	}
	return nil
}

// Metric returns the direct metric tensor G
func (c Cell) Metric() *mat.SymDense {
	ca := math.Cos(c.Alpha * math.Pi / 180)
	cb := math.Cos(c.Beta * math.Pi / 180)
	cg := math.Cos(c.Gamma * math.Pi / 180)
	return mat.NewSymDense(3, []float64{
		c.A * c.A, c.A * c.B * cg, c.A * c.C * cb,
		c.A * c.B * cg, c.B * c.B, c.B * c.C * ca,
		c.A * c.C * cb, c.B * c.C * ca, c.C * c.C,
	})
}

// Reciprocal returns the reciprocal metric tensor G*, the inverse of G
func (c Cell) Reciprocal() (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(c.Metric()); err != nil {
		return nil, fmt.Errorf("%w: singular metric tensor: %v", ErrInvalidCell, err)
	}
	return &inv, nil
}

// DSpacings enumerates the allowed reflections with d ≥ dmin and returns their
// distinct spacings, largest first.
func (c Cell) DSpacings(dmin float64) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !(dmin > 0) {
		return nil, fmt.Errorf("%w: dmin must be positive, got %g", ErrInvalidCell, dmin)
	}
	gs, err := c.Reciprocal()
	if err != nil {
		return nil, err
	}
	var g [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			g[i][j] = gs.At(i, j)
		}
	}

	hmax := int(math.Floor(c.A / dmin))
	kmax := int(math.Floor(c.B / dmin))
	lmax := int(math.Floor(c.C / dmin))
	limit := 1 / (dmin * dmin)

	var ds []float64
	for h := -hmax; h <= hmax; h++ {
		for k := -kmax; k <= kmax; k++ {
			for l := -lmax; l <= lmax; l++ {
				if h == 0 && k == 0 && l == 0 {
					continue
				}
				if !c.Centring.Allowed(h, k, l) || (c.Diamond && !diamondAllowed(h, k, l)) {
					continue
				}
				v := [3]float64{float64(h), float64(k), float64(l)}
				var inv2 float64
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						inv2 += v[i] * g[i][j] * v[j]
					}
				}
				if inv2 <= 0 || inv2 > limit*(1+1e-12) {
					continue
				}
				ds = append(ds, 1/math.Sqrt(inv2))
			}
		}
	}

	slices.SortFunc(ds, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})
	return dedupe(ds, 1e-6), nil
}

// Pattern builds a named reference pattern from the cell holding at most
// count spacings.
func (c Cell) Pattern(name string, dmin float64, count int) (reference.Pattern, error) {
	ds, err := c.DSpacings(dmin)
	if err != nil {
		return reference.Pattern{}, fmt.Errorf("pattern %s: %w", name, err)
	}
	return reference.Pattern{Name: name, DSpacings: ds}.Truncate(count), nil
}

// Lamellar returns the first n orders of a layered structure with period d0
func Lamellar(d0 float64, n int) []float64 {
	ds := make([]float64, n)
	for i := range ds {
		ds[i] = d0 / float64(i+1)
	}
	return ds
}

func diamondAllowed(h, k, l int) bool {
	if even(h) && even(k) && even(l) {
		return mod(h+k+l, 4) != 2
	}
	return true
}

func dedupe(sorted []float64, tol float64) []float64 {
	out := sorted[:0]
	for _, d := range sorted {
		if len(out) > 0 && math.Abs(out[len(out)-1]-d) <= tol {
			continue
		}
		out = append(out, d)
	}
	return out
}

func even(n int) bool { return n%2 == 0 }

func mod(n, m int) int {
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}
