package model

import "time"

// ConversionRecord is one conversion_history row.
type ConversionRecord struct {
	ID               int64     `json:"id"`
	CreatedAt        time.Time `json:"createdAt"`
	Module           string    `json:"module"`
	OriginalFilename string    `json:"originalFilename"`
	Period           string    `json:"period"`
	TotalRows        int       `json:"totalRows"`
	DurationMS       int64     `json:"durationMs"`
	Status           string    `json:"status"`
	CoveragePercent  float64   `json:"coveragePercent"`
	TotalCompanies   int       `json:"totalCompanies"`
	MatchedCompanies int       `json:"matchedCompanies"`
	MissingCompanies []string  `json:"missingCompanies,omitempty"`
	RowsPersisted    bool      `json:"rowsPersisted"`
}
