package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/PixPMusic/gopher-tiles/internal/grid"
	"github.com/PixPMusic/gopher-tiles/internal/midi"
)

func TestLoadLayoutMissing(t *testing.T) {
	layout, err := LoadLayout(filepath.Join(t.TempDir(), "layout.json"))
	if err != nil {
		t.Fatalf("LoadLayout failed: %v", err)
	}
	if layout.WidgetData == nil || len(layout.WidgetData) != 0 {
		t.Errorf("want empty non-nil widget data, got %#v", layout.WidgetData)
	}
}

func TestSaveLayoutRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	in := Layout{WidgetData: []*grid.Widget{
		{
			ID:          "a",
			WidgetType:  grid.WidgetTypeKnob,
			WidgetTitle: "Cutoff",
			Position:    grid.WidgetPosition{ColumnStart: 1, RowStart: 2, ColumnLength: 2, RowLength: 2},
			Midi:        midi.DefaultBinding(),
		},
		nil,
		{
			ID:          "b",
			WidgetType:  grid.WidgetTypeSlider,
			WidgetTitle: "New 2",
			Position:    grid.WidgetPosition{ColumnStart: 5, RowStart: 1, ColumnLength: 1, RowLength: 4},
			Midi:        midi.Binding{MessageType: midi.MessageTypeNRPN, MessageNumber: 300, MessageValue: 42, MessageMax: 16383},
		},
	}}

	if err := SaveLayout(path, in); err != nil {
		t.Fatalf("SaveLayout failed: %v", err)
	}
	out, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout failed: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}

	data, _ := os.ReadFile(path)
	for _, key := range []string{`"widgetData"`, `"positionData"`, `"midiData"`, `"messageType": "NRPN"`, `null`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("layout file missing %s:\n%s", key, data)
		}
	}
}

func TestSaveLayoutReleasesLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	for i := 0; i < 2; i++ {
		if err := SaveLayout(path, Layout{}); err != nil {
			t.Fatalf("SaveLayout #%d failed: %v", i, err)
		}
	}
	out, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout failed: %v", err)
	}
	if len(out.WidgetData) != 0 {
		t.Errorf("want empty layout, got %d widgets", len(out.WidgetData))
	}
}

func TestLoadLayoutInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := os.WriteFile(path, []byte(`{"widgetData": {`), 0644); err != nil {
		t.Fatalf("Failed to write layout: %v", err)
	}
	if _, err := LoadLayout(path); err == nil {
		t.Error("expected parse error")
	}
}
