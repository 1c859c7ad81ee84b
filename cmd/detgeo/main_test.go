package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fgjorup/detgeo/internal/config"
	"github.com/fgjorup/detgeo/pkg/detector"
	"github.com/fgjorup/detgeo/pkg/engine"
	"github.com/fgjorup/detgeo/pkg/units"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestConvertCommand(t *testing.T) {
	out, err := execute(t, "convert", "30", "--from", "tth", "--to", "d", "--energy", "21")
	require.NoError(t, err)

	d, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, err)
	assert.InDelta(t, 1.140528, d, 1e-6)
}

func TestConvertCommandInvalidUnit(t *testing.T) {
	t.Cleanup(func() { convertTo = "d" })

	_, err := execute(t, "convert", "30", "--to", "degrees")
	assert.ErrorIs(t, err, units.ErrInvalidUnit)
}

func TestUnknownDetector(t *testing.T) {
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("det-type", "EIGER2") })

	_, err := execute(t, "contours", "--det-type", "NOPE")
	assert.ErrorIs(t, err, detector.ErrUnknownType)
}

func TestContoursJSON(t *testing.T) {
	t.Cleanup(func() { contoursJSON = false })

	out, err := execute(t, "contours", "--json", "--rotation", "0", "--reference", "LaB6")
	require.NoError(t, err)

	var f engine.Frame
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Len(t, f.Contours, 24)
	assert.Equal(t, "LaB6", f.ReferenceName)
	assert.NotEmpty(t, f.Reference)
	assert.Equal(t, 0.0, f.Params.RotationDeg)
}

func TestContoursTable(t *testing.T) {
	out, err := execute(t, "contours", "--unit", "tth")
	require.NoError(t, err)
	assert.Contains(t, out, "EIGER2 4M")
	assert.Contains(t, out, "2θ [°]")
}

func TestReferenceCommand(t *testing.T) {
	out, err := execute(t, "reference")
	require.NoError(t, err)
	assert.Contains(t, out, "None\n")
	assert.Contains(t, out, "LaB6\n")

	out, err = execute(t, "reference", "CeO2")
	require.NoError(t, err)
	assert.Contains(t, out, "CeO2 at 21 keV")
}

func TestDetectorsCommand(t *testing.T) {
	out, err := execute(t, "detectors")
	require.NoError(t, err)
	assert.Contains(t, out, "EIGER2")
	assert.Contains(t, out, "4M")
}

func TestRenderCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	_, err := execute(t, "render", "-o", path, "--size", "64")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestMeasureCommand(t *testing.T) {
	out, err := execute(t, "measure", "--x", "43.3", "--y", "0", "--rotation", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Point: (43.300, 0.000), 2θ = 30.000°")
	assert.Contains(t, out, "Nearest 2θ = 30.000°")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	_, err := execute(t, "config", "init", path, "--distance", "120")
	require.NoError(t, err)

	s, err := config.Load(config.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 120.0, s.Geo.Distance)
	assert.Equal(t, "EIGER2", s.Geo.DetType)
}
