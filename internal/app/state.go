// Package app holds the live session: the detector, the geometry values the
// sliders move, the label unit and the selected reference pattern.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/fgjorup/detgeo/internal/config"
	"github.com/fgjorup/detgeo/internal/logging"
	"github.com/fgjorup/detgeo/pkg/crystal"
	"github.com/fgjorup/detgeo/pkg/detector"
	"github.com/fgjorup/detgeo/pkg/engine"
	"github.com/fgjorup/detgeo/pkg/reference"
	"github.com/fgjorup/detgeo/pkg/units"
)

// State is safe for concurrent use by the UI, the watcher and the scheduler
type State struct {
	mu        sync.RWMutex
	v         *viper.Viper
	settings  config.Settings
	detectors detector.Library
	engine    *engine.Engine
	params    engine.Params
	refs      *reference.Library
	log       *logrus.Entry
}

// New builds the session from loaded settings. An unknown detector or unit
// is returned as an error and should end the program.
func New(v *viper.Viper, s *config.Settings, detectors detector.Library) (*State, error) {
	if detectors == nil {
		detectors = detector.Default()
	}
	if v == nil {
		v = config.New()
	}
	st := &State{
		v:         v,
		settings:  *s,
		detectors: detectors,
		params:    s.Params(),
		refs:      crystal.StandardLibrary(),
		log:       logging.NamedLogger("app"),
	}
	if err := st.rebuild(); err != nil {
		return nil, err
	}
	return st, nil
}

// rebuild recreates the engine after a detector or plot change.
// The caller holds the write lock or has exclusive access.
func (st *State) rebuild() error {
	det, err := st.detectors.Lookup(st.settings.Geo.DetType, st.settings.Geo.DetSize)
	if err != nil {
		return err
	}
	plot, err := st.settings.PlotConfig()
	if err != nil {
		return err
	}
	eng, err := engine.New(det, plot)
	if err != nil {
		return fmt.Errorf("failed to prepare %s: %w", det.Name, err)
	}
	st.engine = eng
	return nil
}

// Reload replaces the whole session with freshly loaded settings. Custom
// references imported earlier are kept.
func (st *State) Reload(s *config.Settings) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	prev, prevParams := st.settings, st.params
	st.settings, st.params = *s, s.Params()
	if err := st.rebuild(); err != nil {
		st.settings, st.params = prev, prevParams
		return err
	}
	return nil
}

// Engine returns the engine for the current detector and unit
func (st *State) Engine() *engine.Engine {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.engine
}

// Params returns the current geometry values
func (st *State) Params() engine.Params {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.params
}

// Settings returns a copy of the settings reflecting the live session
func (st *State) Settings() config.Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s := st.settings
	s.Geo.Energy = st.params.EnergyKeV
	s.Geo.Distance = st.params.DistanceMM
	s.Geo.XOffset = st.params.XOffsetMM
	s.Geo.YOffset = st.params.YOffsetMM
	s.Geo.Rotation = st.params.RotationDeg
	s.Geo.Tilt = st.params.TiltDeg
	return s
}

// Limit returns the slider range of a token
func (st *State) Limit(token string) (config.Limit, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings.Limits.Range(token)
}

// SetParam sets one geometry value by token (ener, dist, rota, tilt, yoff,
// xoff), clamped to its limits, and returns the value applied.
func (st *State) SetParam(token string, value float64) (float64, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	lim, err := st.settings.Limits.Range(token)
	if err != nil {
		return 0, err
	}
	v := lim.Clamp(value)
	if v != value {
		st.log.Debugf("%s clamped from %g to %g", token, value, v)
	}

	switch token {
	case "ener":
		st.params.EnergyKeV = v
	case "dist":
		st.params.DistanceMM = v
	case "rota":
		st.params.RotationDeg = v
	case "tilt":
		st.params.TiltDeg = v
	case "yoff":
		st.params.YOffsetMM = v
	case "xoff":
		st.params.XOffsetMM = v
	}
	return v, nil
}

// Param returns the current value of a token
func (st *State) Param(token string) (float64, error) {
	p := st.Params()
	switch token {
	case "ener":
		return p.EnergyKeV, nil
	case "dist":
		return p.DistanceMM, nil
	case "rota":
		return p.RotationDeg, nil
	case "tilt":
		return p.TiltDeg, nil
	case "yoff":
		return p.YOffsetMM, nil
	case "xoff":
		return p.XOffsetMM, nil
	}
	return 0, fmt.Errorf("%w: unknown parameter %q", config.ErrInvalidConfig, token)
}

// Detectors returns the detector table in use
func (st *State) Detectors() detector.Library {
	return st.detectors
}

// ChangeDetector switches to another detector model. On error the current
// detector stays selected.
func (st *State) ChangeDetector(detType, detSize string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	prevType, prevSize := st.settings.Geo.DetType, st.settings.Geo.DetSize
	st.settings.Geo.DetType, st.settings.Geo.DetSize = detType, detSize
	if err := st.rebuild(); err != nil {
		st.settings.Geo.DetType, st.settings.Geo.DetSize = prevType, prevSize
		return err
	}
	st.log.Infof("detector changed to %s", st.engine.Detector().Name)
	return nil
}

// Unit returns the label unit
func (st *State) Unit() units.Unit {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return units.Unit(st.settings.Geo.Unit)
}

// ChangeUnit switches the unit contour labels are given in
func (st *State) ChangeUnit(u units.Unit) error {
	if err := u.Validate(); err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	prev := st.settings.Geo.Unit
	st.settings.Geo.Unit = int(u)
	if err := st.rebuild(); err != nil {
		st.settings.Geo.Unit = prev
		return err
	}
	return nil
}

// Library returns the reference library, built-in and custom
func (st *State) Library() *reference.Library {
	return st.refs
}

// ReferenceName returns the selected reference, reference.NoneName if none
func (st *State) ReferenceName() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings.Geo.Reference
}

// ChangeReference selects a reference by name. Names the library does not
// know select no lines.
func (st *State) ChangeReference(name string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if name != reference.NoneName && !st.refs.Has(name) {
		st.log.Warnf("unknown reference %q, no lines will be drawn", name)
	}
	st.settings.Geo.Reference = name
}

// Reference returns the d-spacings of the selected reference
func (st *State) Reference() reference.Pattern {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.refs.Lookup(st.settings.Geo.Reference, st.settings.Plot.RefNum)
}

// ImportCIF derives a reference from a CIF file, stores it under the file's
// base name and selects it.
func (st *State) ImportCIF(path string) (reference.Pattern, error) {
	st.mu.RLock()
	count := st.settings.Plot.RefNum
	st.mu.RUnlock()

	p, err := crystal.LoadCIF(path, count)
	if err != nil {
		return reference.Pattern{}, err
	}
	st.refs.Add(p)
	st.ChangeReference(p.Name)
	st.log.Infof("imported %s with %d lines", p.Name, len(p.DSpacings))
	return p, nil
}

// Title names the window after the detector and selected reference
func (st *State) Title() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	name := st.engine.Detector().Name
	if ref := st.settings.Geo.Reference; ref != reference.NoneName && ref != "" {
		return name + " - " + ref
	}
	return name
}

// Request snapshots the current values for the scheduler
func (st *State) Request() engine.Request {
	return engine.Request{Params: st.Params(), Pattern: st.Reference()}
}

// Compute renders a request with the engine current at call time
func (st *State) Compute(ctx context.Context, r engine.Request) (*engine.Frame, error) {
	return st.Engine().Frame(ctx, r.Params, r.Pattern)
}

// Frame computes the frame for the current values
func (st *State) Frame(ctx context.Context) (*engine.Frame, error) {
	return st.Compute(ctx, st.Request())
}

// Save writes the live session to path through viper
func (st *State) Save(path string) error {
	s := st.Settings()
	config.Store(st.v, &s)
	return config.Save(st.v, path)
}
