package model

// RunStatus classifies a conversion run by company coverage.
type RunStatus string

const (
	StatusSuccess RunStatus = "success"
	StatusWarning RunStatus = "warning"
	StatusFailed  RunStatus = "failed"
)

// Label returns the human-readable status label used by the UI.
func (s RunStatus) Label() string {
	switch s {
	case StatusSuccess:
		return "Berhasil"
	case StatusWarning:
		return "Warning"
	case StatusFailed:
		return "Gagal"
	}
	return string(s)
}

// ReasonCode explains a per-company gap in the validation report.
type ReasonCode string

const (
	ReasonSheetNotFound            ReasonCode = "sheet_not_found"
	ReasonPeriodColumnNotFound     ReasonCode = "period_column_not_found"
	ReasonPartialCategoriesMissing ReasonCode = "partial_categories_missing"
)

// CompanyOutcome is one report line; every configured company gets
// exactly one, regardless of match outcome.
type CompanyOutcome struct {
	CompanyKey  string          `json:"companyKey"`
	CompanyName string          `json:"companyName"`
	SheetName   string          `json:"sheetName,omitempty"`
	Matched     bool            `json:"matched"`
	Confidence  MatchConfidence `json:"confidence,omitempty"`
	Extracted   int             `json:"extracted"` // leaf records produced
	Expected    int             `json:"expected"`  // leaf records declared
	Reasons     []ReasonCode    `json:"reasons,omitempty"`
}

// ConsistencyWarning flags dimension totals that should agree but do
// not (advisory only; does not affect the run status).
type ConsistencyWarning struct {
	Type       string             `json:"type"`
	Message    string             `json:"message"`
	Dimensions []string           `json:"dimensions"`
	Values     map[string]float64 `json:"values"`
}

// ValidationReport is the structured verdict of a conversion run.
type ValidationReport struct {
	Status           RunStatus            `json:"status"`
	CoveragePercent  float64              `json:"coveragePercent"`
	TotalCompanies   int                  `json:"totalCompanies"`
	MatchedCompanies int                  `json:"matchedCompanies"`
	Companies        []CompanyOutcome     `json:"companies"`
	Warnings         []ConsistencyWarning `json:"warnings,omitempty"`
}

// MissingCompanies lists the config keys of companies whose sheet was
// not found, in report order.
func (r *ValidationReport) MissingCompanies() []string {
	var missing []string
	for _, c := range r.Companies {
		if !c.Matched {
			missing = append(missing, c.CompanyKey)
		}
	}
	return missing
}
