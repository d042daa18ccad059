package grid

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// WidgetConfig is the footprint the palette requests for a dragged widget
type WidgetConfig struct {
	TileColumnCount int `json:"tileColumnCount"`
	TileRowCount    int `json:"tileRowCount"`
}

// DragData is the tile inside the widget that the pointer grabbed, 1-based.
// Zero means the widget was grabbed by its top-left tile.
type DragData struct {
	ColumnTile int `json:"columnTile"`
	RowTile    int `json:"rowTile"`
}

// DragTransfer is the payload carried from drag start to drop
type DragTransfer struct {
	WidgetType     WidgetType   `json:"widgetType"`
	PositionIndex  int          `json:"positionIndex"`
	WidgetSettings WidgetConfig `json:"widgetSettings"`
	WidgetDragData DragData     `json:"widgetDragData"`
}

// DecodeDragTransfer parses the JSON form of a DragTransfer
func DecodeDragTransfer(data []byte) (DragTransfer, error) {
	var t DragTransfer
	if err := json.Unmarshal(data, &t); err != nil {
		return DragTransfer{}, fmt.Errorf("invalid drag transfer: %w", err)
	}
	if err := t.Validate(); err != nil {
		return DragTransfer{}, err
	}
	return t, nil
}

// Validate checks the transfer before it is turned into a placement
func (t DragTransfer) Validate() error {
	if _, err := ParseWidgetType(string(t.WidgetType)); err != nil {
		return err
	}
	err := validation.ValidateStruct(&t,
		validation.Field(&t.PositionIndex, validation.Min(0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexOutOfRange, err)
	}
	if t.WidgetSettings.TileColumnCount < 0 || t.WidgetSettings.TileRowCount < 0 ||
		t.WidgetDragData.ColumnTile < 0 || t.WidgetDragData.RowTile < 0 {
		return fmt.Errorf("%w: negative tile count or drag offset", ErrInvalidGeometry)
	}
	return nil
}

// Size returns the requested footprint, falling back to the type default
func (t DragTransfer) Size() (columns, rows int) {
	columns, rows = t.WidgetType.DefaultSize()
	if t.WidgetSettings.TileColumnCount > 0 {
		columns = t.WidgetSettings.TileColumnCount
	}
	if t.WidgetSettings.TileRowCount > 0 {
		rows = t.WidgetSettings.TileRowCount
	}
	return columns, rows
}

// Position computes where the widget lands when dropped on the 1-based
// linear tile dropTile of a grid width tiles wide. The grabbed tile ends up
// under the pointer. The result is not checked against the grid bounds.
func (t DragTransfer) Position(dropTile, width int) (WidgetPosition, error) {
	col, row, err := Cell(dropTile, width)
	if err != nil {
		return WidgetPosition{}, err
	}
	columns, rows := t.Size()
	if t.WidgetDragData.ColumnTile > 0 {
		col -= t.WidgetDragData.ColumnTile - 1
	}
	if t.WidgetDragData.RowTile > 0 {
		row -= t.WidgetDragData.RowTile - 1
	}
	return WidgetPosition{
		ColumnStart:  col,
		RowStart:     row,
		ColumnLength: columns,
		RowLength:    rows,
	}, nil
}

// Drop resolves a drag transfer dropped on dropTile into a new widget
func (s *Store) Drop(t DragTransfer, dropTile int) (Widget, error) {
	if err := t.Validate(); err != nil {
		return Widget{}, err
	}
	pos, err := t.Position(dropTile, s.Geometry().HorizontalTiles)
	if err != nil {
		return Widget{}, err
	}
	return s.Create(NewWidgetData{
		WidgetType:    t.WidgetType,
		Position:      pos,
		PositionIndex: t.PositionIndex,
	})
}
