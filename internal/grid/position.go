package grid

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// WidgetPosition is the rectangle a widget occupies, in 1-based tiles
type WidgetPosition struct {
	ColumnStart  int `json:"columnStart"`
	RowStart     int `json:"rowStart"`
	ColumnLength int `json:"columnLength"`
	RowLength    int `json:"rowLength"`
}

// ColumnEnd returns the last column covered by the rectangle
func (p WidgetPosition) ColumnEnd() int {
	return p.ColumnStart + p.ColumnLength - 1
}

// RowEnd returns the last row covered by the rectangle
func (p WidgetPosition) RowEnd() int {
	return p.RowStart + p.RowLength - 1
}

// Validate checks that all fields are positive
func (p WidgetPosition) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ColumnStart, validation.Required, validation.Min(1)),
		validation.Field(&p.RowStart, validation.Required, validation.Min(1)),
		validation.Field(&p.ColumnLength, validation.Required, validation.Min(1)),
		validation.Field(&p.RowLength, validation.Required, validation.Min(1)),
	)
}

// Fits reports an error unless the rectangle lies inside the given geometry
func (p WidgetPosition) Fits(g Geometry) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	if p.ColumnEnd() > g.HorizontalTiles || p.RowEnd() > g.VerticalTiles {
		return fmt.Errorf("%w: %dx%d at (%d,%d) exceeds %dx%d grid", ErrInvalidGeometry,
			p.ColumnLength, p.RowLength, p.ColumnStart, p.RowStart,
			g.HorizontalTiles, g.VerticalTiles)
	}
	return nil
}

// Geometry describes the tile grid
type Geometry struct {
	VerticalTiles   int
	HorizontalTiles int
	TileWidth       int
	TileHeight      int
}

// DefaultGeometry returns a 32x12 grid of 80x80 pixel tiles
func DefaultGeometry() Geometry {
	return Geometry{
		VerticalTiles:   12,
		HorizontalTiles: 32,
		TileWidth:       80,
		TileHeight:      80,
	}
}

// Validate checks that every dimension is positive
func (g Geometry) Validate() error {
	err := validation.ValidateStruct(&g,
		validation.Field(&g.VerticalTiles, validation.Required, validation.Min(1)),
		validation.Field(&g.HorizontalTiles, validation.Required, validation.Min(1)),
		validation.Field(&g.TileWidth, validation.Required, validation.Min(1)),
		validation.Field(&g.TileHeight, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return nil
}
