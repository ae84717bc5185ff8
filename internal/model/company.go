package model

// ModuleKind identifies which business pipeline a conversion belongs to.
type ModuleKind string

const (
	ModuleWorkforce ModuleKind = "workforce" // fixed-layout demographic workbooks
	ModuleCost      ModuleKind = "cost"      // header-driven cost workbooks
)

// CompanyConfig describes one configured company/entity and where its
// sheet is expected to be found inside an uploaded workbook.
type CompanyConfig struct {
	Key       string `json:"key"`       // stable config key
	Name      string `json:"name"`      // display name
	Code      string `json:"code"`      // business code used in output rows
	SheetName string `json:"sheetName"` // expected sheet name
	Holding   string `json:"holding"`   // holding group
	Category  string `json:"category,omitempty"`
}

// ConversionConfig is the immutable configuration snapshot a conversion
// run operates on. Companies keep their configured order; output row
// ordering depends on it.
type ConversionConfig struct {
	Module    ModuleKind      `json:"module"`
	Companies []CompanyConfig `json:"companies"`
	Mapping   MappingSpec     `json:"mapping"`
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing mutable state across runs.
func (c *ConversionConfig) Clone() *ConversionConfig {
	out := &ConversionConfig{
		Module:    c.Module,
		Companies: make([]CompanyConfig, len(c.Companies)),
		Mapping:   c.Mapping.clone(),
	}
	copy(out.Companies, c.Companies)
	return out
}
