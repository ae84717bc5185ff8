package engine

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/almamiraa/KP-PTPN/internal/model"
	"github.com/almamiraa/KP-PTPN/internal/workbook"
)

// Locator resolves declared cell coordinates and header-driven columns
// against one sheet of an opened workbook.
type Locator struct {
	wb    workbook.Workbook
	sheet string

	rows int
	cols int
}

// NewLocator creates a locator bound to one sheet, caching the sheet's
// populated bounds.
func NewLocator(wb workbook.Workbook, sheet string) (*Locator, error) {
	rows, cols, err := wb.Dimensions(sheet)
	if err != nil {
		return nil, err
	}
	return &Locator{wb: wb, sheet: sheet, rows: rows, cols: cols}, nil
}

// LocateCell validates a fixed coordinate like "C10" against the
// sheet's populated bounds. An unparsable or out-of-bounds reference is
// reported as not located, never as an error.
func (l *Locator) LocateCell(ref string) (col, row int, ok bool) {
	col, row, err := excelize.CellNameToCoordinates(strings.TrimSpace(ref))
	if err != nil {
		return 0, 0, false
	}
	if row < 1 || row > l.rows || col < 1 || col > l.cols {
		return 0, 0, false
	}
	return col, row, true
}

// LocatePeriodColumn scans the declared header row across the declared
// column range and returns the first column whose label canonicalizes
// to the target period. Column numbers are 1-based.
func (l *Locator) LocatePeriodColumn(spec *model.HeaderDriven, period model.Period) (int, bool) {
	for col := spec.ScanFrom; col <= spec.ScanTo; col++ {
		label, ok := l.cellAt(col, spec.PeriodRow)
		if !ok || label == "" {
			continue
		}
		if p, parsed := model.ParsePeriodLabel(label); parsed && p == period {
			return col, true
		}
	}
	return 0, false
}

// LocateSeriesColumns finds the value column of each declared series
// (e.g. REAL, RKAP) within the span of the period column: from the
// period column up to the next column whose period-row label parses as
// a different period, or the end of the scan range. With no type row
// every series maps to the period column itself.
func (l *Locator) LocateSeriesColumns(spec *model.HeaderDriven, periodCol int) map[string]int {
	series := spec.Series
	if len(series) == 0 {
		return map[string]int{"": periodCol}
	}

	cols := make(map[string]int, len(series))
	if spec.TypeRow <= 0 {
		for _, s := range series {
			cols[s] = periodCol
		}
		return cols
	}

	end := spec.ScanTo
	for col := periodCol + 1; col <= spec.ScanTo; col++ {
		label, ok := l.cellAt(col, spec.PeriodRow)
		if !ok || label == "" {
			continue
		}
		if _, parsed := model.ParsePeriodLabel(label); parsed {
			end = col - 1
			break
		}
	}

	for col := periodCol; col <= end; col++ {
		label, ok := l.cellAt(col, spec.TypeRow)
		if !ok {
			continue
		}
		label = strings.ToUpper(strings.TrimSpace(label))
		if label == "" {
			continue
		}
		for _, s := range series {
			if _, taken := cols[s]; taken {
				continue
			}
			if strings.Contains(label, strings.ToUpper(s)) {
				cols[s] = col
				break
			}
		}
	}

	return cols
}

// Value reads the raw string at 1-based (col, row), empty when out of
// the populated area.
func (l *Locator) Value(col, row int) string {
	v, ok := l.cellAt(col, row)
	if !ok {
		return ""
	}
	return v
}

func (l *Locator) cellAt(col, row int) (string, bool) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", false
	}
	v, err := l.wb.Cell(l.sheet, ref)
	if err != nil {
		return "", false
	}
	return v, true
}
