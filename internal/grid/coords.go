package grid

import "fmt"

// Column returns the 1-based column of a 1-based linear tile index in a grid
// that is width tiles wide. Exact multiples of width land in the last column.
func Column(index, width int) (int, error) {
	if err := checkDomain(index, width); err != nil {
		return 0, err
	}
	return (index-1)%width + 1, nil
}

// Row returns the 1-based row of a 1-based linear tile index
func Row(index, width int) (int, error) {
	if err := checkDomain(index, width); err != nil {
		return 0, err
	}
	return (index + width - 1) / width, nil
}

// Cell returns both coordinates of a linear tile index
func Cell(index, width int) (col, row int, err error) {
	if col, err = Column(index, width); err != nil {
		return 0, 0, err
	}
	row, _ = Row(index, width)
	return col, row, nil
}

// Index is the inverse of Cell
func Index(col, row, width int) (int, error) {
	if width < 1 || col < 1 || col > width || row < 1 {
		return 0, fmt.Errorf("%w: column %d row %d width %d", ErrCoordinateDomain, col, row, width)
	}
	return (row-1)*width + col, nil
}

func checkDomain(index, width int) error {
	if index < 1 || width < 1 {
		return fmt.Errorf("%w: index %d width %d", ErrCoordinateDomain, index, width)
	}
	return nil
}
