package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Memory is an in-memory Workbook used by tests and fixtures.
type Memory struct {
	order  []string
	sheets map[string][][]string
}

// NewMemory creates an empty in-memory workbook.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][][]string)}
}

// AddSheet appends a sheet; cells[r][c] is the value at row r+1,
// column c+1. Re-adding a name replaces its cells but keeps its order.
func (m *Memory) AddSheet(name string, cells [][]string) *Memory {
	if _, exists := m.sheets[name]; !exists {
		m.order = append(m.order, name)
	}
	m.sheets[name] = cells
	return m
}

// SheetNames lists sheets in insertion order.
func (m *Memory) SheetNames() []string {
	return append([]string(nil), m.order...)
}

// Cell returns the value at a cell reference, empty outside the
// populated area.
func (m *Memory) Cell(sheet, ref string) (string, error) {
	cells, ok := m.sheets[sheet]
	if !ok {
		return "", fmt.Errorf("sheet %q does not exist", sheet)
	}
	col, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return "", err
	}
	if row < 1 || row > len(cells) {
		return "", nil
	}
	r := cells[row-1]
	if col < 1 || col > len(r) {
		return "", nil
	}
	return r[col-1], nil
}

// Dimensions returns the populated extent of a sheet.
func (m *Memory) Dimensions(sheet string) (int, int, error) {
	cells, ok := m.sheets[sheet]
	if !ok {
		return 0, 0, fmt.Errorf("sheet %q does not exist", sheet)
	}
	maxCols := 0
	for _, row := range cells {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	return len(cells), maxCols, nil
}
