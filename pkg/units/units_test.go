package units

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWavelength(t *testing.T) {
	assert.InDelta(t, 12.398/21.0, Wavelength(21), 1e-12)
	assert.InDelta(t, 21.0, Energy(Wavelength(21)), 1e-12)

	_, err := CheckedWavelength(0)
	assert.ErrorIs(t, err, ErrInvalidEnergy)
	_, err = CheckedWavelength(-3)
	assert.ErrorIs(t, err, ErrInvalidEnergy)
	_, err = CheckedWavelength(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidEnergy)
}

func TestFromTwoTheta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tth    float64
		energy float64
	}{
		{name: "low angle", tth: 5, energy: 21},
		{name: "thirty degrees", tth: 30, energy: 21},
		{name: "backscatter", tth: 120, energy: 8.04},
		{name: "high energy", tth: 12, energy: 100},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := FromTwoTheta(tc.tth, tc.energy)
			lambda := Wavelength(tc.energy)
			theta := tc.tth * math.Pi / 360

			assert.InDelta(t, math.Sin(theta)/lambda, v.SinThetaOverLambda, 1e-12)
			// Bragg: λ = 2 d sin θ
			assert.InDelta(t, lambda, 2*v.DSpacing*math.Sin(theta), 1e-9)
			assert.InDelta(t, 4*math.Pi*v.SinThetaOverLambda, v.Q, 1e-12)
			assert.Equal(t, tc.tth, v.In(TwoTheta))
			assert.Equal(t, v.DSpacing, v.In(DSpacing))
			assert.Equal(t, v.Q, v.In(Q))
			assert.Equal(t, v.SinThetaOverLambda, v.In(SinThetaOverLambda))
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	for _, from := range Units() {
		for _, to := range Units() {
			start := FromTwoTheta(42, 17.5).In(from)
			mid, ok := Convert(start, from, to, 17.5)
			require.True(t, ok, "%v -> %v", from, to)
			back, ok := Convert(mid, to, from, 17.5)
			require.True(t, ok, "%v -> %v", to, from)
			assert.InEpsilon(t, start, back, 1e-10, "%v -> %v -> %v", from, to, from)
		}
	}
}

func TestConvertNonPhysical(t *testing.T) {
	lambda := Wavelength(10)

	// d below λ/2 cannot satisfy the Bragg condition
	_, ok := Convert(lambda/2*0.99, DSpacing, TwoTheta, 10)
	assert.False(t, ok)

	tth, ok := Convert(lambda/2*1.0000001, DSpacing, TwoTheta, 10)
	require.True(t, ok)
	assert.InDelta(t, 180.0, tth, 0.1)

	_, ok = Convert(-1, DSpacing, TwoTheta, 10)
	assert.False(t, ok)
}

func TestParseUnit(t *testing.T) {
	tests := map[string]Unit{
		"0":   TwoTheta,
		"1":   DSpacing,
		"tth": TwoTheta,
		"D":   DSpacing,
		" q ": Q,
		"stl": SinThetaOverLambda,
		"3":   SinThetaOverLambda,
	}
	for in, want := range tests {
		got, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"4", "-1", "degrees"} {
		_, err := ParseUnit(in)
		assert.True(t, errors.Is(err, ErrInvalidUnit), in)
	}
}

func TestUnitValidate(t *testing.T) {
	for _, u := range Units() {
		assert.NoError(t, u.Validate())
		assert.NotContains(t, u.String(), "Unit(")
	}
	assert.ErrorIs(t, Unit(4).Validate(), ErrInvalidUnit)
	assert.Equal(t, "Unit(7)", Unit(7).String())
}
