package engine

import (
	"fmt"
	"math"

	"github.com/almamiraa/KP-PTPN/internal/model"
)

// Coverage thresholds, in percent of configured companies matched.
const (
	coverageSuccess = 100.0
	coverageWarning = 90.0
)

// Validate builds the run report: per-company outcomes, the coverage
// percentage over configured companies, and the resulting status.
// Partial category gaps within a matched sheet are reported as reasons
// but never reduce coverage; only a missing sheet does.
func Validate(companies []model.CompanyConfig, resolutions map[string]model.SheetResolution, extracts map[string]CompanyExtract, spec model.MappingSpec) model.ValidationReport {
	expected := spec.LeafCount()

	report := model.ValidationReport{
		TotalCompanies: len(companies),
		Companies:      make([]model.CompanyOutcome, 0, len(companies)),
	}
	for _, company := range companies {
		res := resolutions[company.Key]
		ext := extracts[company.Key]

		outcome := model.CompanyOutcome{
			CompanyKey:  company.Key,
			CompanyName: company.Name,
			SheetName:   res.SheetName,
			Matched:     res.Matched,
			Confidence:  res.Confidence,
			Extracted:   len(ext.Records),
			Expected:    expected,
		}
		switch {
		case !res.Matched:
			outcome.Reasons = append(outcome.Reasons, model.ReasonSheetNotFound)
		case ext.PeriodColumnMissing:
			outcome.Reasons = append(outcome.Reasons, model.ReasonPeriodColumnNotFound)
		case len(ext.Records) < expected:
			outcome.Reasons = append(outcome.Reasons, model.ReasonPartialCategoriesMissing)
		}
		if res.Matched {
			report.MatchedCompanies++
		}
		report.Companies = append(report.Companies, outcome)
	}

	if report.TotalCompanies > 0 {
		report.CoveragePercent = float64(report.MatchedCompanies) / float64(report.TotalCompanies) * 100
	}
	switch {
	case report.CoveragePercent >= coverageSuccess:
		report.Status = model.StatusSuccess
	case report.CoveragePercent >= coverageWarning:
		report.Status = model.StatusWarning
	default:
		report.Status = model.StatusFailed
	}

	report.Warnings = consistencyWarnings(extracts)
	return report
}

// consistencyWarnings cross-checks dimension totals over all observed
// records. Education and age each sum the same population, as do
// gender and work unit; disagreement means the source sheet itself is
// internally inconsistent. Advisory only.
func consistencyWarnings(extracts map[string]CompanyExtract) []model.ConsistencyWarning {
	totals := map[string]float64{}
	seen := map[string]bool{}
	for _, ext := range extracts {
		for _, rec := range ext.Records {
			totals[rec.Dimension] += rec.Value
			seen[rec.Dimension] = true
		}
	}

	var warnings []model.ConsistencyWarning
	check := func(wtype string, dims ...string) {
		for _, d := range dims {
			if !seen[d] {
				return
			}
		}
		base := totals[dims[0]]
		for _, d := range dims[1:] {
			if !equalTotal(base, totals[d]) {
				values := make(map[string]float64, len(dims))
				for _, dd := range dims {
					values[dd] = totals[dd]
				}
				warnings = append(warnings, model.ConsistencyWarning{
					Type:       wtype,
					Message:    fmt.Sprintf("dimension totals disagree: %v", values),
					Dimensions: dims,
					Values:     values,
				})
				return
			}
		}
	}
	check("education_age_mismatch", model.DimensionEducation, model.DimensionAge)
	check("gender_workunit_mismatch", model.DimensionGender, model.DimensionWorkUnit)
	return warnings
}

func equalTotal(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
