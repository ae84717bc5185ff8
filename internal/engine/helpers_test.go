package engine

import (
	"github.com/almamiraa/KP-PTPN/internal/model"
	"github.com/almamiraa/KP-PTPN/internal/workbook"
)

// workforceMapping is a small fixed-layout spec: one status group, one
// sub group, one level, four dimensions, seven mapped cells.
func workforceMapping() model.MappingSpec {
	return model.MappingSpec{
		Kind: model.MappingFixedLayout,
		Fixed: &model.FixedLayout{
			StatusGroups: []model.StatusGroupMapping{
				{
					Status: "PERMANENT",
					SubGroups: []model.SubGroupMapping{
						{
							Name: "KARPIM",
							Levels: []model.LevelMapping{
								{
									Name: "BOD-1",
									Dimensions: []model.DimensionMapping{
										{Dimension: model.DimensionGender, Categories: []model.CategoryCell{
											{Category: "L", Cell: "B2"},
											{Category: "P", Cell: "B3"},
										}},
										{Dimension: model.DimensionEducation, Categories: []model.CategoryCell{
											{Category: "S1", Cell: "B4"},
											{Category: "SMA", Cell: "B5"},
										}},
										{Dimension: model.DimensionAge, Categories: []model.CategoryCell{
											{Category: "< 30", Cell: "B6"},
											{Category: ">= 30", Cell: "B7"},
										}},
										{Dimension: model.DimensionWorkUnit, Categories: []model.CategoryCell{
											{Category: "KANTOR PUSAT", Cell: "B8"},
										}},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

// workforceSheet fills the cells workforceMapping declares so that all
// dimension totals agree (gender 8, education 8, age 8, work unit 8).
func workforceSheet() [][]string {
	return [][]string{
		{"DEMOGRAFI", ""},
		{"Laki-laki", "5"},
		{"Perempuan", "3"},
		{"S1", "6"},
		{"SMA", "2"},
		{"< 30 th", "1"},
		{">= 30 th", "7"},
		{"Kantor Pusat", "8"},
	}
}

func workforceConfig(companies ...model.CompanyConfig) model.ConversionConfig {
	return model.ConversionConfig{
		Module:    model.ModuleWorkforce,
		Companies: companies,
		Mapping:   workforceMapping(),
	}
}

// costMapping is a header-driven spec: period labels on row 1, series
// labels on row 2, two cost rows.
func costMapping() model.MappingSpec {
	return model.MappingSpec{
		Kind: model.MappingHeaderDriven,
		Header: &model.HeaderDriven{
			PeriodRow: 1,
			TypeRow:   2,
			ScanFrom:  2,
			ScanTo:    8,
			Series:    []string{"REAL", "RKAP"},
			Rows: []model.RowMapping{
				{Row: 3, PaymentType: "CASH", Description: "Gaji dan Tunjangan"},
				{Row: 4, PaymentType: "NON CASH", Description: "Penyusutan"},
			},
		},
	}
}

func costSheet() [][]string {
	return [][]string{
		{"", "Jan-25", "", "Feb-25", ""},
		{"", "REAL", "RKAP", "REAL", "RKAP"},
		{"Gaji dan Tunjangan", "10", "11", "12", "13"},
		{"Penyusutan", "20", "21", "22", "23"},
	}
}

func company(key, name, sheet string) model.CompanyConfig {
	return model.CompanyConfig{Key: key, Name: name, Code: key, SheetName: sheet, Holding: "PTPN III"}
}

func singleSheetWorkbook(sheet string, cells [][]string) *workbook.Memory {
	return workbook.NewMemory().AddSheet(sheet, cells)
}
