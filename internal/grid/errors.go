package grid

import "errors"

var (
	// ErrIndexOutOfRange is returned when an operation targets a positional
	// index that holds no widget
	ErrIndexOutOfRange = errors.New("positional index out of range")

	// ErrInvalidGeometry is returned for a rectangle that does not fit the grid
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrCoordinateDomain is returned when a linear tile index is below 1
	ErrCoordinateDomain = errors.New("tile index outside coordinate domain")

	// ErrUnknownWidgetType is returned for a widget type tag outside WidgetTypes
	ErrUnknownWidgetType = errors.New("unknown widget type")

	// ErrWidgetNotFound is returned when no slot holds the requested widget ID
	ErrWidgetNotFound = errors.New("widget not found")
)
