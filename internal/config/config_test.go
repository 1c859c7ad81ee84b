package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fgjorup/detgeo/pkg/units"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load(New(), filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	assert.Equal(t, "EIGER2", s.Geo.DetType)
	assert.Equal(t, "4M", s.Geo.DetSize)
	assert.Equal(t, 21.0, s.Geo.Energy)
	assert.Equal(t, 75.0, s.Geo.Distance)
	assert.Equal(t, 25.0, s.Geo.Rotation)
	assert.Equal(t, 1, s.Geo.Unit)
	assert.Equal(t, "None", s.Geo.Reference)
	assert.Equal(t, 24, s.Plot.TwoThetaNum)
	assert.Equal(t, 1.5, s.Plot.GridMultiplier)
	assert.Equal(t, 768, s.Plot.PlotSize)

	dist, err := s.Limits.Range("dist")
	require.NoError(t, err)
	assert.Equal(t, Limit{Min: 40, Max: 150, Step: 1}, dist)

	pc, err := s.PlotConfig()
	require.NoError(t, err)
	assert.Equal(t, units.DSpacing, pc.Unit)
	assert.Equal(t, 48, pc.ReferenceCount)
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	doc := `{"geo": {"det_type": "PILATUS3", "det_size": "2M", "dist": 120, "unit": 0},
	         "plo": {"cont_tth_num": 12},
	         "lmt": {"tilt_max": 30}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "PILATUS3", s.Geo.DetType)
	assert.Equal(t, 120.0, s.Geo.Distance)
	assert.Equal(t, 21.0, s.Geo.Energy, "keys missing from the file keep their default")
	assert.Equal(t, 0, s.Geo.Unit)
	assert.Equal(t, 12, s.Plot.TwoThetaNum)
	assert.Equal(t, 30.0, s.Limits.TiltMax)
	assert.Equal(t, 0.0, s.Limits.TiltMin)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("DETGEO_GEO_ENER", "12.5")
	s, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, 12.5, s.Geo.Energy)
}

func TestInvalidUnitIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"geo": {"unit": 7}}`), 0o644))

	_, err := Load(New(), path)
	assert.ErrorIs(t, err, units.ErrInvalidUnit)
}

func TestInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"geo": {"dist": -4}}`), 0o644))
	_, err := Load(New(), path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	require.NoError(t, os.WriteFile(path, []byte(`{"lmt": {"rota_min": 80}}`), 0o644))
	_, err = Load(New(), path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	require.NoError(t, os.WriteFile(path, []byte(`{"geo": `), 0o644))
	_, err = Load(New(), path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	v := New()
	s, err := Load(v, path)
	require.NoError(t, err)
	s.Geo.Distance = 101
	s.Geo.Reference = "LaB6"
	Store(v, s)
	require.NoError(t, Save(v, path))

	loaded, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 101.0, loaded.Geo.Distance)
	assert.Equal(t, "LaB6", loaded.Geo.Reference)
	assert.Equal(t, s.Limits, loaded.Limits)
}

func TestLimitClamp(t *testing.T) {
	l := Limit{Min: 0, Max: 45, Step: 1}
	assert.Equal(t, 0.0, l.Clamp(-3))
	assert.Equal(t, 45.0, l.Clamp(60))
	assert.Equal(t, 12.0, l.Clamp(12))

	_, err := Limits{}.Range("zoom")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.True(t, IsToken("tilt"))
	assert.False(t, IsToken("zoom"))
}
