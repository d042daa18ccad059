package app

import (
	"errors"
	"fmt"

	"github.com/PixPMusic/gopher-tiles/internal/config"
	"github.com/PixPMusic/gopher-tiles/internal/grid"
	"github.com/PixPMusic/gopher-tiles/internal/midi"
	"go.uber.org/zap"
)

// ErrMidiDisabled is returned by Send while MIDI output is switched off
var ErrMidiDisabled = errors.New("MIDI is disabled")

// Ports is the device transport the app talks to
type Ports interface {
	midi.PortLister
	SendBinding(outPortName string, channel int, b midi.Binding) error
}

// App is the application context: it owns the grid store and the MIDI
// device state for one session and keeps the layout file in sync.
type App struct {
	Settings config.Settings
	Grid     *grid.Store
	Devices  *midi.DeviceState

	dir         string
	ports       Ports
	log         *zap.Logger
	editing     bool
	unsubscribe func()
	saveErr     error
}

// Open loads settings and layout from dir and wires auto-save
func Open(dir string, ports Ports, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	settings, err := config.LoadFrom(config.SettingsPath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	store, err := grid.NewStore(settings.Geometry(), log.Named("grid"))
	if err != nil {
		return nil, fmt.Errorf("invalid grid settings: %w", err)
	}

	layout, err := config.LoadLayout(config.LayoutPath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to load layout: %w", err)
	}
	store.SetWidgets(layout.WidgetData)
	for i, w := range layout.WidgetData {
		if w == nil {
			continue
		}
		if err := w.Position.Fits(settings.Geometry()); err != nil {
			log.Warn("stored widget exceeds grid", zap.Int("index", i), zap.String("title", w.WidgetTitle))
		}
		if _, err := grid.ParseWidgetType(string(w.WidgetType)); err != nil {
			log.Warn("stored widget has unknown type", zap.Int("index", i), zap.Error(err))
		}
		if err := w.Midi.Validate(); err != nil {
			log.Warn("stored widget has invalid binding", zap.Int("index", i), zap.Error(err))
		}
	}

	a := &App{
		Settings: settings,
		Grid:     store,
		Devices: &midi.DeviceState{
			Enabled:        settings.Midi.Enabled,
			SelectedInput:  settings.Midi.Input,
			SelectedOutput: settings.Midi.Output,
		},
		dir:   dir,
		ports: ports,
		log:   log,
	}
	a.unsubscribe = store.Subscribe(a.persist)

	log.Info("layout loaded", zap.String("dir", dir), zap.Int("widgets", store.Len()))
	return a, nil
}

// Close stops auto-saving and reports the last save failure, if any
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	return a.saveErr
}

func (a *App) persist(widgets []*grid.Widget) {
	err := config.SaveLayout(config.LayoutPath(a.dir), config.Layout{WidgetData: widgets})
	if err != nil {
		a.log.Error("failed to save layout", zap.Error(err))
		a.saveErr = err
		return
	}
	a.saveErr = nil
}

// Editing reports whether the grid is in edit mode
func (a *App) Editing() bool {
	return a.editing
}

// SetEditing toggles edit mode
func (a *App) SetEditing(editing bool) {
	a.editing = editing
}

// RefreshDevices reloads the port lists from the transport
func (a *App) RefreshDevices() {
	if a.ports == nil {
		return
	}
	a.Devices.Refresh(a.ports)
	a.log.Debug("devices refreshed",
		zap.Strings("inputs", a.Devices.InputDevices),
		zap.Strings("outputs", a.Devices.OutputDevices))
}

// SaveSettings copies the current geometry and device selection into the
// settings and writes them
func (a *App) SaveSettings() error {
	a.Settings.SetGeometry(a.Grid.Geometry())
	a.Settings.Midi.Enabled = a.Devices.Enabled
	a.Settings.Midi.Input = a.Devices.SelectedInput
	a.Settings.Midi.Output = a.Devices.SelectedOutput
	return a.Settings.SaveTo(config.SettingsPath(a.dir))
}

// Send emits the binding of the widget at index on the selected output
func (a *App) Send(index int) error {
	w, err := a.Grid.Widget(index)
	if err != nil {
		return err
	}
	if !a.Devices.Enabled {
		return ErrMidiDisabled
	}
	if a.ports == nil {
		return fmt.Errorf("%w: no transport", midi.ErrPortNotFound)
	}
	if err := a.ports.SendBinding(a.Devices.SelectedOutput, a.Settings.Midi.Channel, w.Midi); err != nil {
		a.log.Warn("send failed", zap.Int("index", index), zap.Error(err))
		return err
	}
	a.log.Info("sent", zap.Int("index", index), zap.Stringer("midi", w.Midi))
	return nil
}
