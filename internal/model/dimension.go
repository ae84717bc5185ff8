package model

// Analytical dimensions. Workforce workbooks produce the first five,
// cost workbooks only DimensionCost.
const (
	DimensionGender    = "gender"
	DimensionEducation = "education"
	DimensionAge       = "age"
	DimensionWorkUnit  = "work_unit"
	DimensionTrend     = "trend"
	DimensionCost      = "cost"
)

// dimensionRank fixes the canonical dimension order of output rows.
var dimensionRank = map[string]int{
	DimensionGender:    0,
	DimensionEducation: 1,
	DimensionAge:       2,
	DimensionWorkUnit:  3,
	DimensionTrend:     4,
	DimensionCost:      5,
}

// DimensionRank returns the canonical sort rank of a dimension.
// Unknown dimensions sort after the known ones, in name order handled
// by the caller.
func DimensionRank(dim string) int {
	if r, ok := dimensionRank[dim]; ok {
		return r
	}
	return len(dimensionRank)
}
