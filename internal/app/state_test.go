package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fgjorup/detgeo/internal/config"
	"github.com/fgjorup/detgeo/pkg/detector"
	"github.com/fgjorup/detgeo/pkg/reference"
	"github.com/fgjorup/detgeo/pkg/units"
)

func newState(t *testing.T) *State {
	t.Helper()
	v := config.New()
	s, err := config.Load(v, "")
	require.NoError(t, err)
	st, err := New(v, s, nil)
	require.NoError(t, err)
	return st
}

func TestNewUnknownDetectorIsFatal(t *testing.T) {
	v := config.New()
	s, err := config.Load(v, "")
	require.NoError(t, err)

	s.Geo.DetType = "MAR345"
	_, err = New(v, s, nil)
	assert.ErrorIs(t, err, detector.ErrUnknownType)

	s.Geo.DetType, s.Geo.DetSize = "EIGER2", "2M"
	_, err = New(v, s, nil)
	assert.ErrorIs(t, err, detector.ErrUnknownSize)
}

func TestSetParamClamps(t *testing.T) {
	st := newState(t)

	got, err := st.SetParam("dist", 500)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got)
	assert.Equal(t, 150.0, st.Params().DistanceMM)

	got, err = st.SetParam("xoff", -7)
	require.NoError(t, err)
	assert.Equal(t, -7.0, got)

	got, err = st.SetParam("tilt", -5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	for _, token := range config.Tokens {
		_, err := st.Param(token)
		assert.NoError(t, err, token)
	}

	_, err = st.SetParam("zoom", 1)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestChangeDetector(t *testing.T) {
	st := newState(t)
	assert.Equal(t, "EIGER2 4M", st.Title())

	require.NoError(t, st.ChangeDetector("pilatus3", "2m"))
	assert.Equal(t, "PILATUS3 2M", st.Title())
	assert.Equal(t, 3, st.Engine().Detector().ModulesH)

	err := st.ChangeDetector("PILATUS3", "9M")
	assert.ErrorIs(t, err, detector.ErrUnknownSize)
	assert.Equal(t, "PILATUS3 2M", st.Title(), "failed change keeps the previous detector")
}

func TestChangeUnit(t *testing.T) {
	st := newState(t)
	require.NoError(t, st.ChangeUnit(units.Q))
	assert.Equal(t, units.Q, st.Unit())

	f, err := st.Frame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, units.Q, f.Unit)
	assert.Equal(t, f.Contours[0].Values.Q, f.Contours[0].LabelValue)

	assert.ErrorIs(t, st.ChangeUnit(units.Unit(5)), units.ErrInvalidUnit)
	assert.Equal(t, units.Q, st.Unit())
}

func TestReferenceSelection(t *testing.T) {
	st := newState(t)

	assert.Equal(t, reference.Sentinel(48), st.Reference())

	st.ChangeReference("LaB6")
	assert.Equal(t, "EIGER2 4M - LaB6", st.Title())
	p := st.Reference()
	assert.Len(t, p.DSpacings, 48)

	f, err := st.Frame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LaB6", f.ReferenceName)
	assert.NotEmpty(t, f.Reference)

	st.ChangeReference("unobtainium")
	assert.True(t, st.Reference().IsSentinel())

	st.ChangeReference(reference.NoneName)
	assert.Equal(t, "EIGER2 4M", st.Title())
}

func TestImportCIF(t *testing.T) {
	st := newState(t)
	path := filepath.Join(t.TempDir(), "ceria.cif")
	cif := "data_CeO2\n" +
		"_cell_length_a 5.4116(1)\n_cell_length_b 5.4116(1)\n_cell_length_c 5.4116(1)\n" +
		"_cell_angle_alpha 90\n_cell_angle_beta 90\n_cell_angle_gamma 90\n" +
		"_space_group_name_H-M_alt 'F m -3 m'\n"
	require.NoError(t, os.WriteFile(path, []byte(cif), 0o644))

	p, err := st.ImportCIF(path)
	require.NoError(t, err)
	assert.Equal(t, "ceria.cif", p.Name)
	assert.Equal(t, "ceria.cif", st.ReferenceName())
	assert.Equal(t, []string{"ceria.cif"}, st.Library().CustomNames())
	assert.Equal(t, p, st.Reference())

	_, err = st.ImportCIF(filepath.Join(t.TempDir(), "missing.cif"))
	assert.Error(t, err)
	assert.Equal(t, "ceria.cif", st.ReferenceName())
}

func TestSaveAndReload(t *testing.T) {
	st := newState(t)
	_, err := st.SetParam("dist", 99)
	require.NoError(t, err)
	st.ChangeReference("Si")

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, st.Save(path))

	s, err := config.Load(config.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 99.0, s.Geo.Distance)
	assert.Equal(t, "Si", s.Geo.Reference)

	other := newState(t)
	require.NoError(t, other.Reload(s))
	assert.Equal(t, 99.0, other.Params().DistanceMM)
	assert.Equal(t, "Si", other.ReferenceName())
}
