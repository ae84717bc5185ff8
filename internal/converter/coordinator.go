// Package converter orchestrates conversion runs: workbook in, engine
// through, SQLite out, with progress streamed over a channel.
package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/almamiraa/KP-PTPN/internal/confstore"
	"github.com/almamiraa/KP-PTPN/internal/engine"
	"github.com/almamiraa/KP-PTPN/internal/model"
	"github.com/almamiraa/KP-PTPN/internal/store"
	"github.com/almamiraa/KP-PTPN/internal/workbook"
)

// Policy is the run policy taken from the app config.
type Policy struct {
	Workers         int
	PersistOnFailed bool
}

// Coordinator runs conversions.
type Coordinator struct {
	store  *store.Store
	confs  *confstore.Store
	policy Policy
}

// NewCoordinator creates a coordinator.
func NewCoordinator(st *store.Store, confs *confstore.Store, policy Policy) *Coordinator {
	return &Coordinator{store: st, confs: confs, policy: policy}
}

// ConvertOptions describes one run.
type ConvertOptions struct {
	Module   model.ModuleKind
	FilePath string
	Filename string // original upload name, for the history log
	Period   model.Period
}

// ProgressEvent is one step of a running conversion.
type ProgressEvent struct {
	Type      string      `json:"type"` // start/info/company/done/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// RunResult is attached to the final done event.
type RunResult struct {
	ConversionID int64                  `json:"conversionId"`
	Report       model.ValidationReport `json:"report"`
	TotalRows    int                    `json:"totalRows"`
	Persisted    bool                   `json:"persisted"`
	DurationMS   int64                  `json:"durationMs"`
}

// Convert starts a run and returns its progress channel. The channel
// closes after the done or error event.
func (c *Coordinator) Convert(ctx context.Context, opts ConvertOptions) <-chan ProgressEvent {
	progress := make(chan ProgressEvent, 100)
	go func() {
		defer close(progress)
		c.doConvert(ctx, opts, progress)
	}()
	return progress
}

func (c *Coordinator) doConvert(ctx context.Context, opts ConvertOptions, progress chan ProgressEvent) {
	start := time.Now()
	send(progress, "start", fmt.Sprintf("converting %s", filepath.Base(opts.FilePath)), map[string]string{
		"filename": opts.Filename,
		"module":   string(opts.Module),
		"period":   opts.Period.String(),
	})

	cfg, err := c.confs.Snapshot(opts.Module)
	if err != nil {
		send(progress, "error", fmt.Sprintf("load config: %v", err), nil)
		return
	}

	wb, err := workbook.Open(opts.FilePath)
	if err != nil {
		send(progress, "error", fmt.Sprintf("open workbook: %v", err), nil)
		return
	}
	defer wb.Close()

	send(progress, "info", fmt.Sprintf("workbook has %d sheets, config expects %d companies",
		len(wb.SheetNames()), len(cfg.Companies)), nil)

	conversionID, err := c.store.CreateConversion(string(opts.Module), opts.Filename, opts.Period.String())
	if err != nil {
		send(progress, "error", fmt.Sprintf("log conversion: %v", err), nil)
		return
	}

	var prevTrend map[string]map[string]float64
	if opts.Module == model.ModuleWorkforce {
		prevTrend, err = c.store.PrevTrendTotals(string(opts.Module), opts.Period.Prev())
		if err != nil {
			send(progress, "error", fmt.Sprintf("load previous trend totals: %v", err), nil)
			return
		}
	}

	result, err := engine.Convert(ctx, wb, *cfg, opts.Period, engine.Options{
		Workers:   c.policy.Workers,
		PrevTrend: prevTrend,
	})
	if err != nil {
		c.failConversion(conversionID, start)
		send(progress, "error", fmt.Sprintf("conversion failed: %v", err), nil)
		return
	}

	for _, outcome := range result.Report.Companies {
		msg := fmt.Sprintf("company %s: sheet not found", outcome.CompanyName)
		if outcome.Matched {
			msg = fmt.Sprintf("company %s: sheet %q (%s), %d/%d values",
				outcome.CompanyName, outcome.SheetName, outcome.Confidence, outcome.Extracted, outcome.Expected)
		}
		send(progress, "company", msg, outcome)
	}

	persist := result.Report.Status != model.StatusFailed || c.policy.PersistOnFailed
	if persist {
		if err := c.store.BatchInsertRows(conversionID, result.Rows); err != nil {
			c.failConversion(conversionID, start)
			send(progress, "error", fmt.Sprintf("persist rows: %v", err), nil)
			return
		}
	} else {
		send(progress, "info", "coverage below threshold, rows not persisted", nil)
	}

	duration := time.Since(start)
	err = c.store.CompleteConversion(conversionID, &model.ConversionRecord{
		TotalRows:        len(result.Rows),
		DurationMS:       duration.Milliseconds(),
		Status:           string(result.Report.Status),
		CoveragePercent:  result.Report.CoveragePercent,
		TotalCompanies:   result.Report.TotalCompanies,
		MatchedCompanies: result.Report.MatchedCompanies,
		MissingCompanies: result.Report.MissingCompanies(),
		RowsPersisted:    persist,
	})
	if err != nil {
		send(progress, "error", fmt.Sprintf("finalize conversion: %v", err), nil)
		return
	}

	send(progress, "done", fmt.Sprintf("converted %d rows in %s, coverage %.1f%%",
		len(result.Rows), duration.Round(time.Millisecond), result.Report.CoveragePercent), RunResult{
		ConversionID: conversionID,
		Report:       result.Report,
		TotalRows:    len(result.Rows),
		Persisted:    persist,
		DurationMS:   duration.Milliseconds(),
	})
}

func (c *Coordinator) failConversion(id int64, start time.Time) {
	_ = c.store.CompleteConversion(id, &model.ConversionRecord{
		DurationMS: time.Since(start).Milliseconds(),
		Status:     string(model.StatusFailed),
	})
}

func send(ch chan ProgressEvent, eventType, message string, data interface{}) {
	ch <- ProgressEvent{Type: eventType, Message: message, Data: data, Timestamp: time.Now()}
}
