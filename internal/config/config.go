package config

import (
	"os"
	"path/filepath"

	"github.com/PixPMusic/gopher-tiles/internal/grid"
	"github.com/PixPMusic/gopher-tiles/internal/logging"
	"gopkg.in/yaml.v3"
)

const (
	settingsFileName = "settings.yaml"
	layoutFileName   = "layout.json"
	logFileName      = "gopher-tiles.log"
)

// GridConfig is the tile grid geometry
type GridConfig struct {
	Columns    int `yaml:"columns"`
	Rows       int `yaml:"rows"`
	TileWidth  int `yaml:"tile_width"`
	TileHeight int `yaml:"tile_height"`
}

// MidiConfig stores the device selection
type MidiConfig struct {
	Enabled bool   `yaml:"enabled"`
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Channel int    `yaml:"channel"` // 1-16
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // Empty means <config dir>/gopher-tiles.log
}

// Settings holds process-wide configuration
type Settings struct {
	Grid GridConfig `yaml:"grid"`
	Midi MidiConfig `yaml:"midi"`
	Log  LogConfig  `yaml:"log"`
}

// DefaultSettings returns a 32x12 grid of 80px tiles with MIDI off
func DefaultSettings() Settings {
	g := grid.DefaultGeometry()
	return Settings{
		Grid: GridConfig{
			Columns:    g.HorizontalTiles,
			Rows:       g.VerticalTiles,
			TileWidth:  g.TileWidth,
			TileHeight: g.TileHeight,
		},
		Midi: MidiConfig{Channel: 1},
		Log:  LogConfig{Level: "info"},
	}
}

// Geometry converts the grid section for the store
func (s Settings) Geometry() grid.Geometry {
	return grid.Geometry{
		VerticalTiles:   s.Grid.Rows,
		HorizontalTiles: s.Grid.Columns,
		TileWidth:       s.Grid.TileWidth,
		TileHeight:      s.Grid.TileHeight,
	}
}

// SetGeometry copies g into the grid section
func (s *Settings) SetGeometry(g grid.Geometry) {
	s.Grid = GridConfig{
		Columns:    g.HorizontalTiles,
		Rows:       g.VerticalTiles,
		TileWidth:  g.TileWidth,
		TileHeight: g.TileHeight,
	}
}

// Logging returns the log manager configuration, resolving the default
// file path inside dir
func (s Settings) Logging(dir string) logging.Config {
	path := s.Log.File
	if path == "" {
		path = filepath.Join(dir, logFileName)
	}
	return logging.Config{FilePath: path, Level: s.Log.Level}
}

// Dir returns the platform-appropriate config directory
func Dir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "gopher-tiles"), nil
}

// SettingsPath returns the settings file inside dir
func SettingsPath(dir string) string {
	return filepath.Join(dir, settingsFileName)
}

// LayoutPath returns the layout file inside dir
func LayoutPath(dir string) string {
	return filepath.Join(dir, layoutFileName)
}

// Load reads the settings from the default config directory
func Load() (Settings, error) {
	dir, err := Dir()
	if err != nil {
		return DefaultSettings(), err
	}
	return LoadFrom(SettingsPath(dir))
}

// LoadFrom reads settings from path, returning defaults if it does not exist.
// Zero values in the file fall back to their defaults.
func LoadFrom(path string) (Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultSettings(), err
	}

	cfg.fillDefaults()
	return cfg, nil
}

func (s *Settings) fillDefaults() {
	def := DefaultSettings()
	if s.Grid.Columns == 0 {
		s.Grid.Columns = def.Grid.Columns
	}
	if s.Grid.Rows == 0 {
		s.Grid.Rows = def.Grid.Rows
	}
	if s.Grid.TileWidth == 0 {
		s.Grid.TileWidth = def.Grid.TileWidth
	}
	if s.Grid.TileHeight == 0 {
		s.Grid.TileHeight = def.Grid.TileHeight
	}
	if s.Midi.Channel == 0 {
		s.Midi.Channel = def.Midi.Channel
	}
	if s.Log.Level == "" {
		s.Log.Level = def.Log.Level
	}
}

// SaveTo writes the settings to path
func (s Settings) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
