package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fgjorup/detgeo/pkg/cone"
)

func TestResolution(t *testing.T) {
	t.Parallel()

	c := DefaultConfig()
	tests := []struct {
		name string
		tth  float64
		want int
	}{
		{name: "flat cone clamps to maximum", tth: 5, want: 256},
		{name: "twenty degrees", tth: 20, want: int(48 / math.Tan(20*math.Pi/180))},
		{name: "forty five degrees", tth: 45, want: 48},
		{name: "backscatter clamps to minimum", tth: 120, want: 48},
		{name: "near zero does not overflow", tth: 1e-12, want: 256},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, c.Resolution(tc.tth))
		})
	}
}

func TestGridMax(t *testing.T) {
	c := DefaultConfig()
	// EIGER2 4M half extents
	assert.Equal(t, 120.0, c.GridMax(79.95, 78.6))

	c.GridMultiplier = 2
	assert.Equal(t, 160.0, c.GridMax(79.95, 78.6))
}

func TestSample(t *testing.T) {
	c := DefaultConfig()
	p := cone.Placement{DistanceMM: 100, XOffsetMM: 4, YOffsetMM: 10, RotationDeg: 20, TiltDeg: 5}
	g := c.Sample(30, 120, p)

	res := c.Resolution(30)
	require.Equal(t, res, g.Rows)
	require.Equal(t, res, g.Cols)
	require.Len(t, g.X0, res*res)

	shift := -(10 + math.Tan(20*math.Pi/180)*100)
	extra := math.Tan(5*math.Pi/180) * 100
	assert.InDelta(t, -120+shift, g.XRange[0], 1e-9)
	assert.InDelta(t, 120-shift+extra, g.XRange[res-1], 1e-9)
	assert.InDelta(t, -124.0, g.YRange[0], 1e-9)
	assert.InDelta(t, 116.0, g.YRange[res-1], 1e-9)

	// rows follow Y, columns follow X
	i, j := 3, 7
	assert.Equal(t, g.XRange[j], g.X0[i*g.Cols+j])
	assert.Equal(t, g.YRange[i], g.Y0[i*g.Cols+j])
}

func TestInFrame(t *testing.T) {
	c := DefaultConfig()
	p := cone.Placement{DistanceMM: 75}

	g := c.Sample(30, 120, p)
	assert.True(t, InFrame(g.Surface(30, p), p.DistanceMM))

	// at normal incidence a cone wider than 90° never reaches the plane
	g = c.Sample(100, 120, p)
	assert.False(t, InFrame(g.Surface(100, p), p.DistanceMM))

	// a flat cone whose ring is larger than the grid
	far := cone.Placement{DistanceMM: 1000}
	g = c.Sample(30, 120, far)
	assert.False(t, InFrame(g.Surface(30, far), far.DistanceMM))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.ErrorIs(t, Config{ResoMin: 1, ResoMax: 10, GridMultiplier: 1}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, Config{ResoMin: 48, ResoMax: 10, GridMultiplier: 1}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, Config{ResoMin: 48, ResoMax: 256}.Validate(), ErrInvalidConfig)
}
