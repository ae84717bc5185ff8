package engine

import (
	"strconv"
	"strings"

	"github.com/almamiraa/KP-PTPN/internal/model"
	"github.com/almamiraa/KP-PTPN/internal/workbook"
)

// CompanyExtract holds everything read from one company's sheet.
type CompanyExtract struct {
	CompanyKey string
	Records    []model.ExtractedRecord

	// PeriodColumnMissing is set when a header-driven spec could not
	// find the requested period in the scan range. The sheet matched
	// but yielded no values.
	PeriodColumnMissing bool

	// SkippedCells counts declared cells that fell outside the sheet's
	// populated area or had unparsable references.
	SkippedCells int
}

// Extractor reads every mapping leaf from resolved sheets.
type Extractor struct {
	wb workbook.Workbook
}

func NewExtractor(wb workbook.Workbook) *Extractor {
	return &Extractor{wb: wb}
}

// Extract reads all declared values for one company. Companies whose
// sheet was not resolved produce an empty extract; their absence is
// reported by the validator, not here.
func (e *Extractor) Extract(company model.CompanyConfig, res model.SheetResolution, spec model.MappingSpec, period model.Period) (CompanyExtract, error) {
	out := CompanyExtract{CompanyKey: company.Key}
	if !res.Matched {
		return out, nil
	}

	loc, err := NewLocator(e.wb, res.SheetName)
	if err != nil {
		return out, err
	}

	switch spec.Kind {
	case model.MappingFixedLayout:
		e.extractFixed(&out, loc, company, spec)
	case model.MappingHeaderDriven:
		e.extractHeader(&out, loc, company, spec, period)
	}
	return out, nil
}

func (e *Extractor) extractFixed(out *CompanyExtract, loc *Locator, company model.CompanyConfig, spec model.MappingSpec) {
	for _, leaf := range spec.Leaves() {
		col, row, ok := loc.LocateCell(leaf.Cell)
		if !ok {
			out.SkippedCells++
			continue
		}
		value, coerced := parseNumber(loc.Value(col, row))
		out.Records = append(out.Records, model.ExtractedRecord{
			CompanyKey: company.Key,
			Dimension:  leaf.Dimension,
			Status:     leaf.Status,
			SubGroup:   leaf.SubGroup,
			Level:      leaf.Level,
			Category:   displayCategory(leaf.Dimension, leaf.Category),
			Value:      value,
			Coerced:    coerced,
		})
	}
}

func (e *Extractor) extractHeader(out *CompanyExtract, loc *Locator, company model.CompanyConfig, spec model.MappingSpec, period model.Period) {
	hdr := spec.Header
	if hdr == nil {
		return
	}
	periodCol, ok := loc.LocatePeriodColumn(hdr, period)
	if !ok {
		out.PeriodColumnMissing = true
		return
	}
	seriesCols := loc.LocateSeriesColumns(hdr, periodCol)

	series := hdr.Series
	if len(series) == 0 {
		series = []string{""}
	}
	for _, rowSpec := range hdr.Rows {
		for _, ser := range series {
			col, found := seriesCols[ser]
			if !found {
				out.SkippedCells++
				continue
			}
			if rowSpec.Row < 1 || rowSpec.Row > loc.rows {
				out.SkippedCells++
				continue
			}
			value, coerced := parseNumber(loc.Value(col, rowSpec.Row))
			out.Records = append(out.Records, model.ExtractedRecord{
				CompanyKey:  company.Key,
				Dimension:   model.DimensionCost,
				Status:      rowSpec.PaymentType,
				Category:    rowSpec.Description,
				SubCategory: ser,
				Value:       value,
				Coerced:     coerced,
			})
		}
	}
}

// displayCategory maps raw gender codes to their display labels. Other
// dimensions pass through untouched.
func displayCategory(dimension, category string) string {
	if dimension != model.DimensionGender {
		return category
	}
	switch strings.ToUpper(strings.TrimSpace(category)) {
	case "L":
		return "LAKI-LAKI"
	case "P":
		return "PEREMPUAN"
	}
	return category
}

// parseNumber coerces a raw cell text into a float64. Blank cells,
// dashes and anything non-numeric become 0 and are flagged as coerced
// so the aggregator can tell a filled zero from an observed one.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return 0, true
	}
	s = strings.ReplaceAll(s, ",", "")
	// accounting-style negatives: (123) means -123
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true
	}
	if neg {
		v = -v
	}
	return v, false
}
