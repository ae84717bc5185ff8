package model

// MatchConfidence tags how a company's sheet was located.
type MatchConfidence string

const (
	ConfidenceExact      MatchConfidence = "exact"
	ConfidenceNormalized MatchConfidence = "normalized"
	ConfidenceFuzzy      MatchConfidence = "fuzzy"
)

// SheetResolution is the per-company outcome of sheet matching.
type SheetResolution struct {
	Matched    bool            `json:"matched"`
	SheetName  string          `json:"sheetName,omitempty"`
	Confidence MatchConfidence `json:"confidence,omitempty"`
	Score      float64         `json:"score,omitempty"` // similarity for fuzzy matches, 1 otherwise
}

// ExtractedRecord is the atomic unit produced by the extractor: one
// value read from one mapped cell. Coerced marks cells that were blank
// or non-numeric and were zero-filled during extraction.
type ExtractedRecord struct {
	CompanyKey  string  `json:"companyKey"`
	Dimension   string  `json:"dimension"`
	Status      string  `json:"status,omitempty"`
	SubGroup    string  `json:"subGroup,omitempty"`
	Level       string  `json:"level,omitempty"`
	Category    string  `json:"category"`
	SubCategory string  `json:"subCategory,omitempty"`
	Value       float64 `json:"value"`
	Coerced     bool    `json:"coerced,omitempty"`
}

// ValueOrigin distinguishes genuinely extracted values from gap-filled
// ones. Both render identically in numeric output; the origin survives
// into persistence for auditing.
type ValueOrigin string

const (
	OriginObserved ValueOrigin = "observed"
	OriginFilled   ValueOrigin = "filled"
)

// DatasetRow is the normalized output unit handed to persistence.
// Every run emits the full cross-product of configured companies and
// declared taxonomy, so the row shape never depends on which companies
// were actually present in the workbook.
type DatasetRow struct {
	CompanyKey  string      `json:"companyKey"`
	CompanyCode string      `json:"companyCode"`
	CompanyName string      `json:"companyName"`
	Holding     string      `json:"holding"`
	Period      string      `json:"period"`
	Dimension   string      `json:"dimension"`
	Status      string      `json:"status,omitempty"`
	SubGroup    string      `json:"subGroup,omitempty"`
	Level       string      `json:"level,omitempty"`
	Category    string      `json:"category"`
	SubCategory string      `json:"subCategory,omitempty"`
	Value       float64     `json:"value"`
	Previous    *float64    `json:"previous,omitempty"` // prior-period trend total, when known
	Origin      ValueOrigin `json:"origin"`
}
