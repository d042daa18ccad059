package grid

import (
	"fmt"

	"github.com/PixPMusic/gopher-tiles/internal/midi"
	"github.com/google/uuid"
)

// WidgetType identifies the kind of control a widget renders as
type WidgetType string

const (
	WidgetTypeSlider WidgetType = "slider"
	WidgetTypeKnob   WidgetType = "knob"
	WidgetTypeButton WidgetType = "button"
	WidgetTypeXYPad  WidgetType = "xy-pad"
)

// WidgetTypes lists every known widget type in palette order
var WidgetTypes = []WidgetType{
	WidgetTypeSlider,
	WidgetTypeKnob,
	WidgetTypeButton,
	WidgetTypeXYPad,
}

// ParseWidgetType converts a tag into a WidgetType
func ParseWidgetType(s string) (WidgetType, error) {
	for _, t := range WidgetTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWidgetType, s)
}

// DefaultSize returns the tile footprint a new widget of this type gets
// when the palette does not specify one
func (t WidgetType) DefaultSize() (columns, rows int) {
	switch t {
	case WidgetTypeSlider:
		return 1, 4
	case WidgetTypeKnob:
		return 2, 2
	case WidgetTypeXYPad:
		return 4, 4
	default:
		return 1, 1
	}
}

// Widget is a placed, MIDI-bound rectangle on the grid
type Widget struct {
	ID          string         `json:"id"`
	WidgetType  WidgetType     `json:"widgetType"`
	WidgetTitle string         `json:"widgetTitle"`
	Position    WidgetPosition `json:"positionData"`
	Midi        midi.Binding   `json:"midiData"`
}

// NewWidget creates a widget with a generated ID and the default CC binding
func NewWidget(widgetType WidgetType, title string, pos WidgetPosition) Widget {
	return Widget{
		ID:          uuid.New().String(),
		WidgetType:  widgetType,
		WidgetTitle: title,
		Position:    pos,
		Midi:        midi.DefaultBinding(),
	}
}
