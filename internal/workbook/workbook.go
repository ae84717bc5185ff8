package workbook

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrUnreadable marks a workbook that could not be opened or parsed at
// all. It is the only fatal input error a conversion run can hit.
var ErrUnreadable = errors.New("workbook is unreadable")

// Workbook is a read-only view over an opened spreadsheet. The engine
// performs no other I/O during a run.
type Workbook interface {
	// SheetNames lists sheets in workbook order.
	SheetNames() []string
	// Cell returns the raw string value at a reference like "C10".
	// Reading outside the populated area yields an empty string.
	Cell(sheet, ref string) (string, error)
	// Dimensions returns the populated row/column extent of a sheet.
	Dimensions(sheet string) (rows, cols int, err error)
}

// File wraps an excelize workbook.
type File struct {
	f *excelize.File
}

// Open opens a workbook from disk. Any parse failure is reported as
// ErrUnreadable.
func Open(path string) (*File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return &File{f: f}, nil
}

// OpenReader opens a workbook from a stream (uploaded file body).
func OpenReader(r io.Reader) (*File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return &File{f: f}, nil
}

// SheetNames lists sheets in workbook order.
func (w *File) SheetNames() []string {
	return w.f.GetSheetList()
}

// Cell returns the raw string value at a cell reference.
func (w *File) Cell(sheet, ref string) (string, error) {
	return w.f.GetCellValue(sheet, ref)
}

// Dimensions returns the populated extent of a sheet, derived from the
// sheet's dimension range with a row-scan fallback.
func (w *File) Dimensions(sheet string) (int, int, error) {
	if dim, err := w.f.GetSheetDimension(sheet); err == nil && dim != "" {
		if rows, cols, ok := parseDimension(dim); ok {
			return rows, cols, nil
		}
	}

	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return 0, 0, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	return len(rows), maxCols, nil
}

// Close releases the underlying file.
func (w *File) Close() error {
	return w.f.Close()
}

// parseDimension turns a dimension range like "A1:H42" (or a single
// cell "A1") into a row/column extent.
func parseDimension(dim string) (rows, cols int, ok bool) {
	var endRef string
	for i := 0; i < len(dim); i++ {
		if dim[i] == ':' {
			endRef = dim[i+1:]
			break
		}
	}
	if endRef == "" {
		endRef = dim
	}
	col, row, err := excelize.CellNameToCoordinates(endRef)
	if err != nil {
		return 0, 0, false
	}
	return row, col, true
}
