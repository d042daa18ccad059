package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PixPMusic/gopher-tiles/internal/grid"
	"github.com/gofrs/flock"
)

// Layout is the persisted part of the grid: the widget slots only.
// Holes are stored as null.
type Layout struct {
	WidgetData []*grid.Widget `json:"widgetData"`
}

// LoadLayout reads the layout at path, returning an empty layout if the
// file does not exist
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Layout{WidgetData: []*grid.Widget{}}, nil
	}
	if err != nil {
		return Layout{}, err
	}

	var layout Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("invalid layout file %s: %w", path, err)
	}
	if layout.WidgetData == nil {
		layout.WidgetData = []*grid.Widget{}
	}
	return layout, nil
}

// SaveLayout writes the layout to path while holding an exclusive lock on
// path + ".lock". The file is replaced atomically.
func SaveLayout(path string, layout Layout) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if layout.WidgetData == nil {
		layout.WidgetData = []*grid.Widget{}
	}

	fl := flock.New(path + ".lock")
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("failed to lock layout: %w", err)
	}
	defer fl.Unlock()

	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, layoutFileName+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
