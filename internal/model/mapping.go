package model

// MappingKind selects how cell locations are declared.
type MappingKind string

const (
	MappingFixedLayout  MappingKind = "fixed"  // literal cell coordinates
	MappingHeaderDriven MappingKind = "header" // columns found by period header
)

// MappingSpec is the tagged union over the two mapping shapes. Exactly
// one of Fixed/Header is set, selected by Kind.
type MappingSpec struct {
	Kind   MappingKind   `json:"kind"`
	Fixed  *FixedLayout  `json:"fixed,omitempty"`
	Header *HeaderDriven `json:"header,omitempty"`
}

// FixedLayout declares every data point as a literal cell coordinate,
// nested status-group → sub-group → level → dimension → category.
// Slices (not maps) so configured order survives JSON round-trips.
type FixedLayout struct {
	StatusGroups []StatusGroupMapping `json:"statusGroups"`
}

// StatusGroupMapping groups levels under an employment status
// (e.g. PERMANENT / NON PERMANENT).
type StatusGroupMapping struct {
	Status    string            `json:"status"`
	SubGroups []SubGroupMapping `json:"subGroups"`
}

// SubGroupMapping is a job group (e.g. KARPIM / KARPEL).
type SubGroupMapping struct {
	Name   string         `json:"name"`
	Levels []LevelMapping `json:"levels"`
}

// LevelMapping is a job level (BOD-1..BOD-6 for permanent staff, a
// contract category like PKWT otherwise).
type LevelMapping struct {
	Name       string             `json:"name"`
	Dimensions []DimensionMapping `json:"dimensions"`
}

// DimensionMapping lists the category cells of one analytical dimension.
type DimensionMapping struct {
	Dimension  string         `json:"dimension"`
	Categories []CategoryCell `json:"categories"`
}

// CategoryCell binds a category label to a cell reference like "C10".
type CategoryCell struct {
	Category string `json:"category"`
	Cell     string `json:"cell"`
}

// HeaderDriven declares rows by index and finds value columns at run
// time by scanning a header row for the target period label.
type HeaderDriven struct {
	PeriodRow int          `json:"periodRow"` // 1-based row holding period labels
	TypeRow   int          `json:"typeRow"`   // 1-based row holding series labels, 0 = none
	ScanFrom  int          `json:"scanFrom"`  // 1-based first column to scan
	ScanTo    int          `json:"scanTo"`    // 1-based last column to scan
	Series    []string     `json:"series"`    // e.g. ["REAL","RKAP"]; empty = value sits in the period column
	Rows      []RowMapping `json:"rows"`
}

// RowMapping binds a sheet row to a cost item.
type RowMapping struct {
	Row         int    `json:"row"`
	PaymentType string `json:"paymentType"` // CASH / NON CASH
	Description string `json:"description"`
}

// MappingLeaf is one fully-qualified data point declared by a spec.
// Fixed layouts fill Cell; header-driven specs fill Row/SubCategory.
type MappingLeaf struct {
	Dimension   string
	Status      string
	SubGroup    string
	Level       string
	Category    string
	SubCategory string // header-driven series name
	Cell        string
	Row         int
}

// Leaves flattens the spec into its declared data points, preserving
// configured order within each dimension.
func (s MappingSpec) Leaves() []MappingLeaf {
	switch s.Kind {
	case MappingFixedLayout:
		if s.Fixed == nil {
			return nil
		}
		var leaves []MappingLeaf
		for _, sg := range s.Fixed.StatusGroups {
			for _, sub := range sg.SubGroups {
				for _, lvl := range sub.Levels {
					for _, dim := range lvl.Dimensions {
						for _, cat := range dim.Categories {
							leaves = append(leaves, MappingLeaf{
								Dimension: dim.Dimension,
								Status:    sg.Status,
								SubGroup:  sub.Name,
								Level:     lvl.Name,
								Category:  cat.Category,
								Cell:      cat.Cell,
							})
						}
					}
				}
			}
		}
		return leaves
	case MappingHeaderDriven:
		if s.Header == nil {
			return nil
		}
		series := s.Header.Series
		if len(series) == 0 {
			series = []string{""}
		}
		var leaves []MappingLeaf
		for _, row := range s.Header.Rows {
			for _, ser := range series {
				leaves = append(leaves, MappingLeaf{
					Dimension:   DimensionCost,
					Status:      row.PaymentType,
					Category:    row.Description,
					SubCategory: ser,
					Row:         row.Row,
				})
			}
		}
		return leaves
	}
	return nil
}

// LeafCount is the number of data points the spec declares per company.
// The validator compares it against extracted record counts.
func (s MappingSpec) LeafCount() int {
	return len(s.Leaves())
}

func (s MappingSpec) clone() MappingSpec {
	out := MappingSpec{Kind: s.Kind}
	if s.Fixed != nil {
		fixed := FixedLayout{StatusGroups: make([]StatusGroupMapping, len(s.Fixed.StatusGroups))}
		for i, sg := range s.Fixed.StatusGroups {
			csg := StatusGroupMapping{Status: sg.Status, SubGroups: make([]SubGroupMapping, len(sg.SubGroups))}
			for j, sub := range sg.SubGroups {
				csub := SubGroupMapping{Name: sub.Name, Levels: make([]LevelMapping, len(sub.Levels))}
				for k, lvl := range sub.Levels {
					clvl := LevelMapping{Name: lvl.Name, Dimensions: make([]DimensionMapping, len(lvl.Dimensions))}
					for l, dim := range lvl.Dimensions {
						cdim := DimensionMapping{Dimension: dim.Dimension, Categories: make([]CategoryCell, len(dim.Categories))}
						copy(cdim.Categories, dim.Categories)
						clvl.Dimensions[l] = cdim
					}
					csub.Levels[k] = clvl
				}
				csg.SubGroups[j] = csub
			}
			fixed.StatusGroups[i] = csg
		}
		out.Fixed = &fixed
	}
	if s.Header != nil {
		hdr := *s.Header
		hdr.Series = append([]string(nil), s.Header.Series...)
		hdr.Rows = append([]RowMapping(nil), s.Header.Rows...)
		out.Header = &hdr
	}
	return out
}
