// Package exporter renders a persisted conversion back into a
// formatted workbook: one sheet per dimension plus a summary sheet.
package exporter

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/almamiraa/KP-PTPN/internal/model"
	"github.com/almamiraa/KP-PTPN/internal/store"
)

// Exporter builds download workbooks from stored dataset rows.
type Exporter struct {
	store *store.Store
}

// NewExporter creates an exporter.
func NewExporter(st *store.Store) *Exporter {
	return &Exporter{store: st}
}

// sheetTitles maps dimension ids to sheet names.
var sheetTitles = map[string]string{
	model.DimensionGender:    "Gender",
	model.DimensionEducation: "Pendidikan",
	model.DimensionAge:       "Usia",
	model.DimensionWorkUnit:  "Unit Kerja",
	model.DimensionTrend:     "Tren",
	model.DimensionCost:      "Biaya",
}

var rowHeader = []string{"Perusahaan", "Kode", "Holding", "Periode", "Status", "Golongan", "Level", "Kategori", "Seri", "Nilai", "Nilai Sebelumnya", "Sumber"}

// Export renders one conversion's rows into a new workbook.
func (e *Exporter) Export(conversionID int64) (*excelize.File, error) {
	rec, err := e.store.GetConversion(conversionID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("conversion %d not found", conversionID)
	}
	rows, err := e.store.GetRows(conversionID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("conversion %d has no persisted rows", conversionID)
	}

	f := excelize.NewFile()
	if err := e.writeSummary(f, rec, rows); err != nil {
		_ = f.Close()
		return nil, err
	}

	byDimension := map[string][]model.DatasetRow{}
	var order []string
	for _, row := range rows {
		if _, ok := byDimension[row.Dimension]; !ok {
			order = append(order, row.Dimension)
		}
		byDimension[row.Dimension] = append(byDimension[row.Dimension], row)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return model.DimensionRank(order[i]) < model.DimensionRank(order[j])
	})

	for _, dim := range order {
		if err := e.writeDimensionSheet(f, dim, byDimension[dim]); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// ExportToBuffer renders and serializes in one step.
func (e *Exporter) ExportToBuffer(conversionID int64) (*bytes.Buffer, error) {
	f, err := e.Export(conversionID)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.WriteToBuffer()
}

func (e *Exporter) writeSummary(f *excelize.File, rec *model.ConversionRecord, rows []model.DatasetRow) error {
	const sheet = "Ringkasan"
	f.SetSheetName("Sheet1", sheet)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	lines := [][2]interface{}{
		{"Modul", rec.Module},
		{"File", rec.OriginalFilename},
		{"Periode", rec.Period},
		{"Status", model.RunStatus(rec.Status).Label()},
		{"Cakupan (%)", rec.CoveragePercent},
		{"Perusahaan Terbaca", fmt.Sprintf("%d / %d", rec.MatchedCompanies, rec.TotalCompanies)},
		{"Jumlah Baris", len(rows)},
	}
	for i, line := range lines {
		labelRef, _ := excelize.CoordinatesToCellName(1, i+1)
		valueRef, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(sheet, labelRef, line[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, valueRef, line[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, labelRef, labelRef, bold); err != nil {
			return err
		}
	}
	if len(rec.MissingCompanies) > 0 {
		ref, _ := excelize.CoordinatesToCellName(1, len(lines)+2)
		if err := f.SetCellValue(sheet, ref, fmt.Sprintf("Sheet tidak ditemukan: %v", rec.MissingCompanies)); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "B", 28)
}

func (e *Exporter) writeDimensionSheet(f *excelize.File, dimension string, rows []model.DatasetRow) error {
	sheet := sheetTitles[dimension]
	if sheet == "" {
		sheet = dimension
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for col, title := range rowHeader {
		ref, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, ref, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, ref, ref, bold); err != nil {
			return err
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.CompanyName, row.CompanyCode, row.Holding, row.Period,
			row.Status, row.SubGroup, row.Level, row.Category, row.SubCategory,
			row.Value, nil, string(row.Origin),
		}
		if row.Previous != nil {
			values[10] = *row.Previous
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			ref, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, ref, v); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(sheet, "A", "L", 18)
}
