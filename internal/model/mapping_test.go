package model

import "testing"

func fixedSpec() MappingSpec {
	return MappingSpec{
		Kind: MappingFixedLayout,
		Fixed: &FixedLayout{
			StatusGroups: []StatusGroupMapping{
				{
					Status: "PERMANENT",
					SubGroups: []SubGroupMapping{
						{Name: "KARPIM", Levels: []LevelMapping{
							{Name: "BOD-1", Dimensions: []DimensionMapping{
								{Dimension: DimensionGender, Categories: []CategoryCell{
									{Category: "L", Cell: "B2"},
									{Category: "P", Cell: "B3"},
								}},
								{Dimension: DimensionEducation, Categories: []CategoryCell{
									{Category: "S1", Cell: "B4"},
								}},
							}},
						}},
					},
				},
				{
					Status: "NON PERMANENT",
					SubGroups: []SubGroupMapping{
						{Name: "KARPEL", Levels: []LevelMapping{
							{Name: "PKWT", Dimensions: []DimensionMapping{
								{Dimension: DimensionGender, Categories: []CategoryCell{
									{Category: "L", Cell: "C2"},
								}},
							}},
						}},
					},
				},
			},
		},
	}
}

func headerSpec() MappingSpec {
	return MappingSpec{
		Kind: MappingHeaderDriven,
		Header: &HeaderDriven{
			PeriodRow: 7,
			TypeRow:   8,
			ScanFrom:  3,
			ScanTo:    30,
			Series:    []string{"REAL", "RKAP"},
			Rows: []RowMapping{
				{Row: 10, PaymentType: "CASH", Description: "Gaji"},
				{Row: 11, PaymentType: "NON CASH", Description: "Penyusutan"},
			},
		},
	}
}

func TestLeaves_FixedOrderAndTaxonomy(t *testing.T) {
	t.Parallel()

	leaves := fixedSpec().Leaves()
	if len(leaves) != 4 {
		t.Fatalf("leaves: %d", len(leaves))
	}
	first := leaves[0]
	if first.Dimension != DimensionGender || first.Status != "PERMANENT" ||
		first.SubGroup != "KARPIM" || first.Level != "BOD-1" || first.Cell != "B2" {
		t.Fatalf("first leaf: %+v", first)
	}
	last := leaves[3]
	if last.Status != "NON PERMANENT" || last.Level != "PKWT" || last.Cell != "C2" {
		t.Fatalf("last leaf: %+v", last)
	}
}

func TestLeaves_HeaderSeriesCrossProduct(t *testing.T) {
	t.Parallel()

	leaves := headerSpec().Leaves()
	if len(leaves) != 4 {
		t.Fatalf("leaves: %d", len(leaves))
	}
	for _, leaf := range leaves {
		if leaf.Dimension != DimensionCost || leaf.Row == 0 {
			t.Fatalf("leaf: %+v", leaf)
		}
	}
	if leaves[0].SubCategory != "REAL" || leaves[1].SubCategory != "RKAP" {
		t.Fatalf("series order: %+v %+v", leaves[0], leaves[1])
	}
}

func TestLeafCount(t *testing.T) {
	t.Parallel()

	if got := fixedSpec().LeafCount(); got != 4 {
		t.Fatalf("fixed: %d", got)
	}
	if got := headerSpec().LeafCount(); got != 4 {
		t.Fatalf("header: %d", got)
	}
	empty := MappingSpec{Kind: MappingFixedLayout}
	if got := empty.LeafCount(); got != 0 {
		t.Fatalf("empty: %d", got)
	}
}

func TestConversionConfigClone(t *testing.T) {
	t.Parallel()

	orig := &ConversionConfig{
		Module:    ModuleWorkforce,
		Companies: []CompanyConfig{{Key: "ptpn1", SheetName: "PTPN I"}},
		Mapping:   fixedSpec(),
	}
	clone := orig.Clone()

	clone.Companies[0].SheetName = "MUTATED"
	clone.Mapping.Fixed.StatusGroups[0].Status = "MUTATED"
	clone.Mapping.Fixed.StatusGroups[0].SubGroups[0].Levels[0].Dimensions[0].Categories[0].Cell = "Z9"

	if orig.Companies[0].SheetName != "PTPN I" {
		t.Fatalf("companies shared: %+v", orig.Companies[0])
	}
	if orig.Mapping.Fixed.StatusGroups[0].Status != "PERMANENT" {
		t.Fatalf("status groups shared")
	}
	if orig.Mapping.Fixed.StatusGroups[0].SubGroups[0].Levels[0].Dimensions[0].Categories[0].Cell != "B2" {
		t.Fatalf("category cells shared")
	}
}
