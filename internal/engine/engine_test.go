package engine

import (
	"context"
	"reflect"
	"testing"

	"github.com/almamiraa/KP-PTPN/internal/model"
	"github.com/almamiraa/KP-PTPN/internal/workbook"
)

func TestConvert_EndToEnd(t *testing.T) {
	t.Parallel()

	cfg := workforceConfig(
		company("ptpn1", "PTPN I", "PTPN I"),
		company("ptpn2", "PTPN II", "PTPN II"),
	)
	wb := workbook.NewMemory().
		AddSheet("PTPN I", workforceSheet()).
		AddSheet("ptpn ii", workforceSheet())

	result, err := Convert(context.Background(), wb, cfg, model.Period{Year: 2025, Month: 2}, Options{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if result.Report.Status != model.StatusSuccess {
		t.Fatalf("status: %s (%+v)", result.Report.Status, result.Report)
	}
	if result.Resolutions["ptpn2"].Confidence != model.ConfidenceNormalized {
		t.Fatalf("ptpn2 resolution: %+v", result.Resolutions["ptpn2"])
	}
	perCompany := cfg.Mapping.LeafCount() + 1
	if len(result.Rows) != 2*perCompany {
		t.Fatalf("rows: %d", len(result.Rows))
	}
}

func TestConvert_EmptyCompanyList(t *testing.T) {
	t.Parallel()

	cfg := model.ConversionConfig{Module: model.ModuleWorkforce, Mapping: workforceMapping()}
	wb := singleSheetWorkbook("PTPN I", workforceSheet())

	if _, err := Convert(context.Background(), wb, cfg, model.Period{Year: 2025, Month: 2}, Options{}); err != ErrNoCompanies {
		t.Fatalf("want ErrNoCompanies, got %v", err)
	}
}

func TestConvert_MissingSheetsAreReportedNotFatal(t *testing.T) {
	t.Parallel()

	cfg := workforceConfig(
		company("ptpn1", "PTPN I", "PTPN I"),
		company("ptpn2", "PTPN II", "PTPN II"),
	)
	wb := singleSheetWorkbook("PTPN I", workforceSheet())

	result, err := Convert(context.Background(), wb, cfg, model.Period{Year: 2025, Month: 2}, Options{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if result.Report.Status != model.StatusFailed {
		t.Fatalf("1 of 2 matched should fail: %s", result.Report.Status)
	}
	if got := result.Report.MissingCompanies(); len(got) != 1 || got[0] != "ptpn2" {
		t.Fatalf("missing: %v", got)
	}
	// Absent companies still produce their zero-filled rows.
	perCompany := cfg.Mapping.LeafCount() + 1
	if len(result.Rows) != 2*perCompany {
		t.Fatalf("rows: %d", len(result.Rows))
	}
}

func TestConvert_WorkerCountDoesNotChangeOutput(t *testing.T) {
	t.Parallel()

	cfg := workforceConfig(
		company("ptpn1", "PTPN I", "PTPN I"),
		company("ptpn2", "PTPN II", "PTPN II"),
		company("ptpn3", "PTPN III", "PTPN III"),
		company("ptpn4", "PTPN IV", "PTPN IV"),
	)
	wb := workbook.NewMemory().
		AddSheet("PTPN I", workforceSheet()).
		AddSheet("PTPN II", workforceSheet()).
		AddSheet("PTPN III", workforceSheet()).
		AddSheet("PTPN IV", workforceSheet())
	period := model.Period{Year: 2025, Month: 2}

	sequential, err := Convert(context.Background(), wb, cfg, period, Options{Workers: 1})
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	parallel, err := Convert(context.Background(), wb, cfg, period, Options{Workers: 4})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if !reflect.DeepEqual(sequential.Rows, parallel.Rows) {
		t.Fatalf("row output depends on worker count")
	}
	if !reflect.DeepEqual(sequential.Report, parallel.Report) {
		t.Fatalf("report depends on worker count")
	}
}

func TestConvert_Idempotent(t *testing.T) {
	t.Parallel()

	cfg := workforceConfig(company("ptpn1", "PTPN I", "PTPN I"))
	wb := singleSheetWorkbook("PTPN I", workforceSheet())
	period := model.Period{Year: 2025, Month: 2}

	first, err := Convert(context.Background(), wb, cfg, period, Options{})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := Convert(context.Background(), wb, cfg, period, Options{})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !reflect.DeepEqual(first.Rows, second.Rows) {
		t.Fatalf("repeated conversion differs")
	}
}

func TestConvert_CancelledContext(t *testing.T) {
	t.Parallel()

	cfg := workforceConfig(company("ptpn1", "PTPN I", "PTPN I"))
	wb := singleSheetWorkbook("PTPN I", workforceSheet())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Convert(ctx, wb, cfg, model.Period{Year: 2025, Month: 2}, Options{}); err == nil {
		t.Fatalf("cancelled context should abort the run")
	}
}
