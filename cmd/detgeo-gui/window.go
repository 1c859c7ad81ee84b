package main

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/fgjorup/detgeo/internal/app"
	"github.com/fgjorup/detgeo/internal/config"
	"github.com/fgjorup/detgeo/internal/logging"
	"github.com/fgjorup/detgeo/pkg/analysis"
	"github.com/fgjorup/detgeo/pkg/engine"
	"github.com/fgjorup/detgeo/pkg/reference"
	"github.com/fgjorup/detgeo/pkg/units"
	"github.com/fgjorup/detgeo/pkg/viewer"
)

var tokenNames = map[string]string{
	"ener": "Energy [keV]",
	"dist": "Distance [mm]",
	"yoff": "Y offset [mm]",
	"xoff": "X offset [mm]",
	"tilt": "Tilt [°]",
	"rota": "Rotation [°]",
}

// Window wires the session state, the scheduler and the detector view
type Window struct {
	window       fyne.Window
	state        *app.State
	view         *viewer.DetectorView
	sched        *engine.Scheduler
	settingsPath string
	info         *widget.Label
	log          *logrus.Entry
}

func newWindow(st *app.State, settingsPath string) fyne.Window {
	a := fyneapp.New()
	w := &Window{
		window:       a.NewWindow(st.Title()),
		state:        st,
		view:         viewer.NewDetectorView(),
		settingsPath: settingsPath,
		info:         widget.NewLabel("Click the detector to measure"),
		log:          logging.NamedLogger("gui"),
	}
	w.sched = engine.NewScheduler(st.Compute, w.deliver)
	w.view.SetOnSelect(w.showSelection)

	w.setupUI()
	w.window.SetOnDropped(w.dropped)
	w.window.SetCloseIntercept(w.close)

	size := float32(st.Settings().Plot.PlotSize)
	ext := st.Engine().Extent()
	w.window.Resize(fyne.NewSize(size*float32(ext.HalfWidthMM/ext.HalfHeightMM)+280, size))

	w.submit()
	return w.window
}

func (w *Window) setupUI() {
	w.info.Wrapping = fyne.TextWrapWord

	sliders := container.NewVBox()
	for _, token := range config.Tokens {
		sliders.Add(w.slider(token))
	}

	panel := container.NewVBox(
		widget.NewLabel("Geometry:"),
		widget.NewSeparator(),
		sliders,
		widget.NewSeparator(),
		widget.NewLabel("Measurement:"),
		w.info,
	)
	scroll := container.NewVScroll(panel)
	scroll.SetMinSize(fyne.NewSize(260, 0))

	w.window.SetMainMenu(w.menu())
	w.window.SetContent(container.NewBorder(nil, nil, nil, scroll, w.view))
}

func (w *Window) slider(token string) fyne.CanvasObject {
	lim, err := w.state.Limit(token)
	if err != nil {
		w.log.Error(err)
		return widget.NewLabel(token)
	}
	value, _ := w.state.Param(token)

	label := widget.NewLabel("")
	setLabel := func(v float64) {
		label.SetText(fmt.Sprintf("%s: %g", tokenNames[token], v))
	}
	setLabel(value)

	s := widget.NewSlider(lim.Min, lim.Max)
	s.Step = lim.Step
	s.Value = lim.Clamp(value)
	s.OnChanged = func(v float64) {
		applied, err := w.state.SetParam(token, v)
		if err != nil {
			w.log.Error(err)
			return
		}
		setLabel(applied)
		w.submit()
	}
	return container.NewVBox(label, s)
}

func (w *Window) menu() *fyne.MainMenu {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("Import CIF...", w.importDialog),
		fyne.NewMenuItem("Export PNG...", w.exportDialog),
		fyne.NewMenuItem("Save settings", func() { w.save(true) }),
	)
	return fyne.NewMainMenu(file, w.detectorMenu(), w.unitMenu(), w.referenceMenu())
}

func (w *Window) detectorMenu() *fyne.Menu {
	lib := w.state.Detectors()
	var items []*fyne.MenuItem
	for _, t := range lib.Types() {
		sizes, err := lib.Sizes(t)
		if err != nil {
			continue
		}
		sub := make([]*fyne.MenuItem, 0, len(sizes))
		for _, size := range sizes {
			sub = append(sub, fyne.NewMenuItem(size, func() {
				if err := w.state.ChangeDetector(t, size); err != nil {
					dialog.ShowError(err, w.window)
					return
				}
				w.submit()
			}))
		}
		item := fyne.NewMenuItem(t, nil)
		item.ChildMenu = fyne.NewMenu("", sub...)
		items = append(items, item)
	}
	return fyne.NewMenu("Detector", items...)
}

func (w *Window) unitMenu() *fyne.Menu {
	var items []*fyne.MenuItem
	for _, u := range units.Units() {
		items = append(items, fyne.NewMenuItem(u.String(), func() {
			if err := w.state.ChangeUnit(u); err != nil {
				dialog.ShowError(err, w.window)
				return
			}
			w.submit()
		}))
	}
	return fyne.NewMenu("Unit", items...)
}

func (w *Window) referenceMenu() *fyne.Menu {
	pick := func(name string) *fyne.MenuItem {
		return fyne.NewMenuItem(name, func() {
			w.state.ChangeReference(name)
			w.submit()
		})
	}

	items := []*fyne.MenuItem{pick(reference.NoneName)}
	for _, name := range w.state.Library().Names() {
		items = append(items, pick(name))
	}
	if custom := w.state.Library().CustomNames(); len(custom) > 0 {
		items = append(items, fyne.NewMenuItemSeparator())
		for _, name := range custom {
			items = append(items, pick(name))
		}
	}
	return fyne.NewMenu("Reference", items...)
}

func (w *Window) submit() {
	if err := w.sched.Submit(w.state.Request()); err != nil {
		w.log.Debug(err)
	}
}

// deliver runs on the scheduler goroutine
func (w *Window) deliver(_ engine.Request, f *engine.Frame, err error) {
	if err != nil {
		w.log.Errorf("recompute failed: %v", err)
		return
	}
	title := w.state.Title()
	fyne.Do(func() {
		w.view.SetFrame(f)
		w.window.SetTitle(title)
	})
}

func (w *Window) showSelection(sel viewer.Selection) {
	text := fmt.Sprintf("Position: %s\n2θ here: %.2f°", analysis.FormatPoint(sel.Point), sel.TwoTheta)
	if sel.Found {
		f := w.view.Frame()
		text += fmt.Sprintf("\nNearest ring: 2θ = %.2f°, %s = %s\nDistance: %s",
			sel.Ring.TwoTheta,
			f.Unit.String(),
			viewer.LabelText(f.Contours[sel.Ring.Index].LabelValue),
			analysis.FormatMeasurement(sel.DistanceMM, "mm"))
		if sel.Ring.Fit != nil {
			text += "\nFitted radius: " + analysis.FormatMeasurement(sel.Ring.Fit.Radius, "mm")
		}
		text += fmt.Sprintf("\nOn modules: %.0f%%", sel.Ring.Coverage*100)
	}
	w.info.SetText(text)
}

func (w *Window) importCIF(path string) {
	p, err := w.state.ImportCIF(path)
	if err != nil {
		dialog.ShowError(err, w.window)
		return
	}
	w.log.Infof("reference %s selected", p.Name)
	w.window.SetMainMenu(w.menu())
	w.submit()
}

func (w *Window) dropped(_ fyne.Position, uris []fyne.URI) {
	for _, u := range uris {
		if strings.EqualFold(u.Extension(), ".cif") {
			w.importCIF(u.Path())
		}
	}
}

func (w *Window) importDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		w.importCIF(reader.URI().Path())
	}, w.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".cif"}))
	d.Show()
}

func (w *Window) exportDialog() {
	f := w.view.Frame()
	if f == nil {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		opts := viewer.DefaultOptions()
		opts.Size = w.state.Settings().Plot.PlotSize
		if err := viewer.WritePNG(writer, viewer.Rasterize(f, opts)); err != nil {
			dialog.ShowError(err, w.window)
		}
	}, w.window)
	d.SetFileName(strings.ReplaceAll(w.state.Title(), " ", "_") + ".png")
	d.Show()
}

// save writes the session back to the settings file. Without one, a save
// requested from the menu goes to detgeo.yaml in the working directory.
func (w *Window) save(explicit bool) {
	path := w.settingsPath
	if path == "" {
		if !explicit {
			return
		}
		path = "detgeo.yaml"
		w.settingsPath = path
	}
	if err := w.state.Save(path); err != nil {
		w.log.Errorf("failed to save settings: %v", err)
		if explicit {
			dialog.ShowError(err, w.window)
		}
		return
	}
	w.log.Infof("settings saved to %s", path)
}

func (w *Window) close() {
	w.sched.Close()
	w.save(false)
	w.window.Close()
}
