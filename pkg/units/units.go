// Package units converts between the four ways a diffraction ring is labelled:
// scattering angle 2θ, lattice spacing d, scattering vector q and sin(θ)/λ.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// KeVAngstrom is the photon energy-wavelength product hc in keV·Å.
const KeVAngstrom = 12.398

var (
	// ErrInvalidEnergy is returned for a beam energy that is not strictly positive.
	ErrInvalidEnergy = errors.New("beam energy must be positive")
	// ErrInvalidUnit is returned for a unit index outside the defined range.
	ErrInvalidUnit = errors.New("invalid unit")
)

// Unit selects which representation is used for contour labels
type Unit int

const (
	TwoTheta Unit = iota
	DSpacing
	Q
	SinThetaOverLambda
)

var unitNames = [...]string{
	TwoTheta:           "2θ [°]",
	DSpacing:           "d [Å]",
	Q:                  "q [Å⁻¹]",
	SinThetaOverLambda: "sin(θ)/λ [Å⁻¹]",
}

var unitAliases = map[string]Unit{
	"tth":      TwoTheta,
	"2theta":   TwoTheta,
	"twotheta": TwoTheta,
	"d":        DSpacing,
	"dsp":      DSpacing,
	"q":        Q,
	"stl":      SinThetaOverLambda,
	"s":        SinThetaOverLambda,
}

// Units lists every defined unit in index order.
func Units() []Unit {
	return []Unit{TwoTheta, DSpacing, Q, SinThetaOverLambda}
}

// Valid reports whether u is one of the defined units.
func (u Unit) Valid() bool {
	return u >= TwoTheta && u <= SinThetaOverLambda
}

// Validate returns ErrInvalidUnit when u is out of range.
func (u Unit) Validate() error {
	if !u.Valid() {
		return fmt.Errorf("%w: valid range is 0 to %d, got %d", ErrInvalidUnit, len(unitNames)-1, int(u))
	}
	return nil
}

func (u Unit) String() string {
	if !u.Valid() {
		return "Unit(" + strconv.Itoa(int(u)) + ")"
	}
	return unitNames[u]
}

// ParseUnit accepts a numeric index or one of the aliases tth, d, q, stl.
func ParseUnit(s string) (Unit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		u := Unit(n)
		return u, u.Validate()
	}
	if u, ok := unitAliases[s]; ok {
		return u, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, s)
}

// Wavelength returns λ in Å for a beam energy in keV. The energy must be positive.
func Wavelength(energyKeV float64) float64 {
	return KeVAngstrom / energyKeV
}

// CheckedWavelength is Wavelength with the energy validated first.
func CheckedWavelength(energyKeV float64) (float64, error) {
	if !(energyKeV > 0) {
		return 0, fmt.Errorf("%w: %g keV", ErrInvalidEnergy, energyKeV)
	}
	return Wavelength(energyKeV), nil
}

// Energy returns the beam energy in keV for a wavelength in Å.
func Energy(wavelength float64) float64 {
	return KeVAngstrom / wavelength
}

// SinThetaOverLambdaFromTwoTheta converts 2θ in degrees into sin(θ)/λ.
func SinThetaOverLambdaFromTwoTheta(twoThetaDeg, energyKeV float64) float64 {
	theta := deg2rad(twoThetaDeg) / 2
	return math.Sin(theta) / Wavelength(energyKeV)
}

// TwoThetaFromSinThetaOverLambda is the inverse of SinThetaOverLambdaFromTwoTheta.
// ok is false when the Bragg condition cannot be met at this energy.
func TwoThetaFromSinThetaOverLambda(s, energyKeV float64) (twoThetaDeg float64, ok bool) {
	x := s * Wavelength(energyKeV)
	if x < 0 || x > 1 {
		return 0, false
	}
	return rad2deg(2 * math.Asin(x)), true
}

// DSpacingFromSinThetaOverLambda returns d = 1/(2s).
func DSpacingFromSinThetaOverLambda(s float64) float64 {
	return 1 / (2 * s)
}

// SinThetaOverLambdaFromDSpacing returns s = 1/(2d).
func SinThetaOverLambdaFromDSpacing(d float64) float64 {
	return 1 / (2 * d)
}

// QFromSinThetaOverLambda returns q = 4π·s.
func QFromSinThetaOverLambda(s float64) float64 {
	return 4 * math.Pi * s
}

// SinThetaOverLambdaFromQ returns s = q/(4π).
func SinThetaOverLambdaFromQ(q float64) float64 {
	return q / (4 * math.Pi)
}

// Values holds one ring position expressed in all four units.
type Values struct {
	TwoTheta           float64 `json:"two_theta"`
	DSpacing           float64 `json:"d_spacing"`
	Q                  float64 `json:"q"`
	SinThetaOverLambda float64 `json:"sin_theta_over_lambda"`
}

// FromTwoTheta derives all representations of a 2θ angle in degrees.
func FromTwoTheta(twoThetaDeg, energyKeV float64) Values {
	s := SinThetaOverLambdaFromTwoTheta(twoThetaDeg, energyKeV)
	return Values{
		TwoTheta:           twoThetaDeg,
		DSpacing:           DSpacingFromSinThetaOverLambda(s),
		Q:                  QFromSinThetaOverLambda(s),
		SinThetaOverLambda: s,
	}
}

// In returns the value expressed in unit u.
func (v Values) In(u Unit) float64 {
	switch u {
	case DSpacing:
		return v.DSpacing
	case Q:
		return v.Q
	case SinThetaOverLambda:
		return v.SinThetaOverLambda
	default:
		return v.TwoTheta
	}
}

// Convert re-expresses value from one unit into another at the given energy.
// ok is false when the value has no physical 2θ at this energy.
func Convert(value float64, from, to Unit, energyKeV float64) (float64, bool) {
	var s float64
	switch from {
	case TwoTheta:
		s = SinThetaOverLambdaFromTwoTheta(value, energyKeV)
	case DSpacing:
		if value <= 0 {
			return 0, false
		}
		s = SinThetaOverLambdaFromDSpacing(value)
	case Q:
		s = SinThetaOverLambdaFromQ(value)
	case SinThetaOverLambda:
		s = value
	default:
		return 0, false
	}

	tth, ok := TwoThetaFromSinThetaOverLambda(s, energyKeV)
	if !ok {
		return 0, false
	}
	v := Values{
		TwoTheta:           tth,
		DSpacing:           DSpacingFromSinThetaOverLambda(s),
		Q:                  QFromSinThetaOverLambda(s),
		SinThetaOverLambda: s,
	}
	return v.In(to), true
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }
