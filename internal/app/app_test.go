package app

import (
	"errors"
	"testing"

	"github.com/PixPMusic/gopher-tiles/internal/config"
	"github.com/PixPMusic/gopher-tiles/internal/grid"
	"github.com/PixPMusic/gopher-tiles/internal/midi"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type sent struct {
	port    string
	channel int
	binding midi.Binding
}

type fakePorts struct {
	ins, outs []string
	sent      []sent
	err       error
}

func (f *fakePorts) ListInPorts() []string  { return f.ins }
func (f *fakePorts) ListOutPorts() []string { return f.outs }

func (f *fakePorts) SendBinding(port string, channel int, b midi.Binding) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{port, channel, b})
	return nil
}

func openApp(t *testing.T, dir string, ports Ports) *App {
	t.Helper()
	a, err := Open(dir, ports, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func knobAt(col, row int) grid.NewWidgetData {
	return grid.NewWidgetData{
		WidgetType: grid.WidgetTypeKnob,
		Position:   grid.WidgetPosition{ColumnStart: col, RowStart: row, ColumnLength: 2, RowLength: 2},
	}
}

func TestOpenEmptyDir(t *testing.T) {
	a := openApp(t, t.TempDir(), nil)
	if a.Grid.Len() != 0 {
		t.Errorf("Len: got %d, want 0", a.Grid.Len())
	}
	if a.Grid.Geometry() != grid.DefaultGeometry() {
		t.Errorf("Geometry: got %+v", a.Grid.Geometry())
	}
	if a.Editing() {
		t.Error("edit mode should start off")
	}
	a.SetEditing(true)
	if !a.Editing() {
		t.Error("SetEditing(true) not applied")
	}
}

func TestMutationsPersistLayout(t *testing.T) {
	dir := t.TempDir()
	a := openApp(t, dir, nil)

	data := knobAt(1, 1)
	data.PositionIndex = a.Grid.NewPositionIndex()
	created, err := a.Grid.Create(data)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := a.Grid.UpdateMidi(0, midi.Binding{MessageType: midi.MessageTypeCC, MessageNumber: 74, MessageValue: 64}); err != nil {
		t.Fatalf("UpdateMidi failed: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close reported save failure: %v", err)
	}

	layout, err := config.LoadLayout(config.LayoutPath(dir))
	if err != nil {
		t.Fatalf("LoadLayout failed: %v", err)
	}
	if len(layout.WidgetData) != 1 {
		t.Fatalf("persisted widgets: got %d, want 1", len(layout.WidgetData))
	}
	if layout.WidgetData[0].ID != created.ID || layout.WidgetData[0].Midi.MessageNumber != 74 {
		t.Errorf("persisted widget: got %+v", layout.WidgetData[0])
	}

	reopened := openApp(t, dir, nil)
	w, err := reopened.Grid.Widget(0)
	if err != nil {
		t.Fatalf("Widget(0) after reopen failed: %v", err)
	}
	if w.ID != created.ID || w.Midi.MessageValue != 64 {
		t.Errorf("rehydrated widget: got %+v", w)
	}
}

func TestSettingsDriveGeometry(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultSettings()
	cfg.Grid.Columns = 8
	cfg.Grid.Rows = 4
	if err := cfg.SaveTo(config.SettingsPath(dir)); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	a := openApp(t, dir, nil)
	if _, err := a.Grid.Create(knobAt(8, 1)); !errors.Is(err, grid.ErrInvalidGeometry) {
		t.Errorf("knob past column 8: got %v, want ErrInvalidGeometry", err)
	}

	if err := a.Grid.SetVerticalGridCount(6); err != nil {
		t.Fatalf("SetVerticalGridCount failed: %v", err)
	}
	if err := a.SaveSettings(); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	got, err := config.LoadFrom(config.SettingsPath(dir))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if got.Grid.Rows != 6 || got.Grid.Columns != 8 {
		t.Errorf("saved grid: got %+v", got.Grid)
	}
}

func TestSend(t *testing.T) {
	ports := &fakePorts{outs: []string{"Synth"}}
	a := openApp(t, t.TempDir(), ports)
	if _, err := a.Grid.Create(knobAt(1, 1)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := a.Send(0); !errors.Is(err, ErrMidiDisabled) {
		t.Errorf("disabled: got %v, want ErrMidiDisabled", err)
	}

	a.RefreshDevices()
	a.Devices.SetEnabled(true)
	a.Devices.SetSelectedOutput("Synth")
	if err := a.Send(0); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(ports.sent) != 1 {
		t.Fatalf("sent: got %d messages, want 1", len(ports.sent))
	}
	want := sent{"Synth", 1, midi.DefaultBinding()}
	if ports.sent[0] != want {
		t.Errorf("sent: got %+v, want %+v", ports.sent[0], want)
	}

	if err := a.Send(3); !errors.Is(err, grid.ErrIndexOutOfRange) {
		t.Errorf("missing widget: got %v, want ErrIndexOutOfRange", err)
	}

	ports.err = midi.ErrPortNotFound
	if err := a.Send(0); !errors.Is(err, midi.ErrPortNotFound) {
		t.Errorf("transport failure: got %v, want ErrPortNotFound", err)
	}
}

func TestRefreshDevicesAndSaveSelection(t *testing.T) {
	dir := t.TempDir()
	ports := &fakePorts{ins: []string{"Keys"}, outs: []string{"Synth", "IAC"}}
	a := openApp(t, dir, ports)

	a.RefreshDevices()
	if len(a.Devices.OutputDevices) != 2 || a.Devices.InputDevices[0] != "Keys" {
		t.Errorf("devices: got %+v", a.Devices)
	}
	a.Devices.SetEnabled(true)
	a.Devices.SetSelectedOutput("IAC")
	if err := a.SaveSettings(); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	reopened := openApp(t, dir, ports)
	if !reopened.Devices.Enabled || reopened.Devices.SelectedOutput != "IAC" {
		t.Errorf("device selection not restored: %+v", reopened.Devices)
	}
}

func TestOpenWarnsAboutBadStoredWidgets(t *testing.T) {
	dir := t.TempDir()
	pos := grid.WidgetPosition{ColumnStart: 1, RowStart: 1, ColumnLength: 2, RowLength: 2}

	fader := grid.NewWidget("fader", "fader", pos)
	badMidi := grid.NewWidget(grid.WidgetTypeKnob, "bad midi", pos)
	badMidi.Midi = midi.Binding{MessageType: midi.MessageTypeCC, MessageNumber: 200}
	good := grid.NewWidget(grid.WidgetTypeSlider, "good", pos)

	layout := config.Layout{WidgetData: []*grid.Widget{&fader, &badMidi, &good}}
	if err := config.SaveLayout(config.LayoutPath(dir), layout); err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}

	core, logs := observer.New(zapcore.WarnLevel)
	a, err := Open(dir, nil, zap.New(core))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	if a.Grid.Len() != 3 {
		t.Errorf("Len: got %d, want 3", a.Grid.Len())
	}

	tests := []struct {
		message string
		index   int64
	}{
		{"stored widget has unknown type", 0},
		{"stored widget has invalid binding", 1},
	}
	for _, tt := range tests {
		entries := logs.FilterMessage(tt.message).All()
		if len(entries) != 1 {
			t.Errorf("%q: got %d entries, want 1", tt.message, len(entries))
			continue
		}
		if got := entries[0].ContextMap()["index"]; got != tt.index {
			t.Errorf("%q: index got %v, want %d", tt.message, got, tt.index)
		}
	}
	if logs.Len() != 2 {
		t.Errorf("warnings: got %d, want 2", logs.Len())
	}
}
