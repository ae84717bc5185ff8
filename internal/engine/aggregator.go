package engine

import (
	"sort"
	"strings"

	"github.com/almamiraa/KP-PTPN/internal/model"
)

// AggregateInput carries everything the reshaping step needs. PrevTrend
// is optional: prior-period trend totals keyed company → status group,
// fetched from persistence by the caller.
type AggregateInput struct {
	Companies   []model.CompanyConfig
	Spec        model.MappingSpec
	Period      model.Period
	Resolutions map[string]model.SheetResolution
	Extracts    map[string]CompanyExtract
	PrevTrend   map[string]map[string]float64
}

// Aggregate reshapes extracted records into the normalized dataset:
// the full cross-product of configured companies and declared taxonomy,
// zero-filled where nothing was read. Output order is deterministic:
// configured company order, then canonical dimension order, then the
// order categories were declared in.
func Aggregate(in AggregateInput) []model.DatasetRow {
	leaves := in.Spec.Leaves()
	period := in.Period.String()

	var out []model.DatasetRow
	for _, company := range in.Companies {
		matched := in.Resolutions[company.Key].Matched
		index := indexRecords(in.Extracts[company.Key].Records)

		rows := make([]model.DatasetRow, 0, len(leaves))
		for _, leaf := range leaves {
			category := displayCategory(leaf.Dimension, leaf.Category)
			row := model.DatasetRow{
				CompanyKey:  company.Key,
				CompanyCode: company.Code,
				CompanyName: company.Name,
				Holding:     company.Holding,
				Period:      period,
				Dimension:   leaf.Dimension,
				Status:      leaf.Status,
				SubGroup:    leaf.SubGroup,
				Level:       leaf.Level,
				Category:    category,
				SubCategory: leaf.SubCategory,
				Origin:      model.OriginFilled,
			}
			if rec, ok := index[leafKey(leaf.Dimension, leaf.Status, leaf.SubGroup, leaf.Level, category, leaf.SubCategory)]; ok {
				row.Value = rec.Value
				row.Origin = model.OriginObserved
			}
			rows = append(rows, row)
		}

		if in.Spec.Kind == model.MappingFixedLayout && in.Spec.Fixed != nil {
			rows = append(rows, trendRows(company, in.Spec.Fixed, period, matched, index, in.PrevTrend[company.Key])...)
		}

		// Stable so declared category order survives within a dimension.
		sort.SliceStable(rows, func(i, j int) bool {
			return model.DimensionRank(rows[i].Dimension) < model.DimensionRank(rows[j].Dimension)
		})
		out = append(out, rows...)
	}
	return out
}

// trendRows derives one trend row per status group from the gender
// totals of that group. Trend is not declared in the mapping; it is a
// computed series, with the prior period's total attached when known.
func trendRows(company model.CompanyConfig, fixed *model.FixedLayout, period string, matched bool, index map[string]model.ExtractedRecord, prev map[string]float64) []model.DatasetRow {
	var rows []model.DatasetRow
	for _, sg := range fixed.StatusGroups {
		var total float64
		observed := false
		for _, sub := range sg.SubGroups {
			for _, lvl := range sub.Levels {
				for _, dim := range lvl.Dimensions {
					if dim.Dimension != model.DimensionGender {
						continue
					}
					for _, cat := range dim.Categories {
						key := leafKey(dim.Dimension, sg.Status, sub.Name, lvl.Name, displayCategory(dim.Dimension, cat.Category), "")
						if rec, ok := index[key]; ok {
							total += rec.Value
							observed = true
						}
					}
				}
			}
		}
		row := model.DatasetRow{
			CompanyKey:  company.Key,
			CompanyCode: company.Code,
			CompanyName: company.Name,
			Holding:     company.Holding,
			Period:      period,
			Dimension:   model.DimensionTrend,
			Status:      sg.Status,
			Category:    sg.Status,
			Value:       total,
			Origin:      model.OriginFilled,
		}
		if matched && observed {
			row.Origin = model.OriginObserved
		}
		if prev != nil {
			if p, ok := prev[sg.Status]; ok {
				pv := p
				row.Previous = &pv
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func indexRecords(records []model.ExtractedRecord) map[string]model.ExtractedRecord {
	index := make(map[string]model.ExtractedRecord, len(records))
	for _, rec := range records {
		index[leafKey(rec.Dimension, rec.Status, rec.SubGroup, rec.Level, rec.Category, rec.SubCategory)] = rec
	}
	return index
}

func leafKey(parts ...string) string {
	return strings.Join(parts, "\x1f")
}
