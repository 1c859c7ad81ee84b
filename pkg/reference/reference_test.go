package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fgjorup/detgeo/pkg/units"
)

func TestTwoThetaRoundTrip(t *testing.T) {
	t.Parallel()

	for _, energy := range []float64{8.04, 21, 60} {
		for _, d := range []float64{4.156826, 2.0, 1.1, 0.45} {
			tth, ok := TwoTheta(d, energy)
			if !ok {
				continue
			}
			back, ok := units.Convert(tth, units.TwoTheta, units.DSpacing, energy)
			require.True(t, ok)
			assert.InEpsilon(t, d, back, 1e-9, "d=%v at %v keV", d, energy)
		}
	}
}

func TestTwoThetaFilteringBoundary(t *testing.T) {
	energy := 10.0
	half := units.Wavelength(energy) / 2

	_, ok := TwoTheta(half*0.999, energy)
	assert.False(t, ok, "d just below λ/2 must be dropped")

	tth, ok := TwoTheta(half*1.0000001, energy)
	require.True(t, ok)
	assert.InDelta(t, 180.0, tth, 0.1)

	_, ok = TwoTheta(-1, energy)
	assert.False(t, ok)
	_, ok = TwoTheta(0, energy)
	assert.False(t, ok)
}

func TestLines(t *testing.T) {
	energy := 10.0
	half := units.Wavelength(energy) / 2
	p := Pattern{Name: "mixed", DSpacings: []float64{3, -1, half * 0.5, 1.5}}

	lines := Lines(p, energy)
	require.Len(t, lines, 2)
	assert.Equal(t, 0, lines[0].Index)
	assert.Equal(t, 3, lines[1].Index)
	assert.Less(t, lines[0].TwoTheta, lines[1].TwoTheta)

	assert.Empty(t, Lines(Sentinel(48), energy))
}

func TestSentinel(t *testing.T) {
	s := Sentinel(3)
	assert.Equal(t, NoneName, s.Name)
	assert.Equal(t, []float64{-1, -1, -1}, s.DSpacings)
	assert.True(t, s.IsSentinel())
	assert.False(t, Pattern{DSpacings: []float64{-1, 2}}.IsSentinel())
	assert.Empty(t, Sentinel(-2).DSpacings)
}

func TestLibraryLookup(t *testing.T) {
	lib := NewLibrary(
		Pattern{Name: "A", DSpacings: []float64{5, 4, 3, 2, 1}},
		Pattern{Name: "B", DSpacings: []float64{2}},
	)
	assert.Equal(t, []string{"A", "B"}, lib.Names())

	assert.Equal(t, []float64{5, 4, 3}, lib.Lookup("A", 3).DSpacings)
	assert.Equal(t, []float64{2}, lib.Lookup("B", 48).DSpacings)

	miss := lib.Lookup("missing", 4)
	assert.Equal(t, Sentinel(4), miss)
	assert.Equal(t, Sentinel(4), lib.Lookup(NoneName, 4))
	assert.False(t, lib.Has(NoneName))
}

func TestLibraryCustomOrder(t *testing.T) {
	lib := NewLibrary()
	lib.Add(Pattern{Name: "z.cif", DSpacings: []float64{3}})
	lib.Add(Pattern{Name: "a.cif", DSpacings: []float64{2, 1}})
	lib.Add(Pattern{Name: "z.cif", DSpacings: []float64{4, 3}})

	assert.Equal(t, []string{"z.cif", "a.cif"}, lib.CustomNames())
	assert.True(t, lib.Has("a.cif"))
	// custom patterns are stored already truncated and returned whole
	assert.Equal(t, []float64{4, 3}, lib.Lookup("z.cif", 1).DSpacings)

	got := lib.Lookup("a.cif", 48)
	got.DSpacings[0] = 99
	assert.Equal(t, 2.0, lib.Lookup("a.cif", 48).DSpacings[0], "lookups must not alias storage")
}
