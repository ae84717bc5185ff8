// Package engine converts multi-sheet workbooks into normalized
// dataset rows plus a validation report, driven entirely by a
// declarative mapping config. It performs no I/O beyond the workbook
// abstraction it is handed.
package engine

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/almamiraa/KP-PTPN/internal/model"
	"github.com/almamiraa/KP-PTPN/internal/workbook"
)

// ErrNoCompanies means the conversion config declares no companies,
// so there is nothing to resolve against.
var ErrNoCompanies = errors.New("engine: conversion config has no companies")

// Options tunes one conversion run.
type Options struct {
	// Workers bounds parallel per-company extraction. Values < 1 mean
	// sequential.
	Workers int

	// PrevTrend supplies prior-period trend totals, keyed
	// company key → status group. Optional.
	PrevTrend map[string]map[string]float64
}

// Result is the full outcome of one conversion run.
type Result struct {
	Rows        []model.DatasetRow
	Report      model.ValidationReport
	Resolutions map[string]model.SheetResolution
}

// Convert runs the whole pipeline: resolve sheets, extract every
// mapped value, reshape into the normalized dataset, validate
// coverage. Missing sheets, missing period columns and unreadable
// cells are absorbed into the report; the only fatal conditions are an
// empty company list and workbook read failures.
func Convert(ctx context.Context, wb workbook.Workbook, cfg model.ConversionConfig, period model.Period, opts Options) (*Result, error) {
	if len(cfg.Companies) == 0 {
		return nil, ErrNoCompanies
	}

	resolutions := NewResolver().Resolve(wb.SheetNames(), cfg.Companies)

	extracts := make([]CompanyExtract, len(cfg.Companies))
	extractor := NewExtractor(wb)

	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 1 {
		g.SetLimit(opts.Workers)
	} else {
		g.SetLimit(1)
	}
	for i, company := range cfg.Companies {
		i, company := i, company
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ext, err := extractor.Extract(company, resolutions[company.Key], cfg.Mapping, period)
			if err != nil {
				return err
			}
			extracts[i] = ext
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byKey := make(map[string]CompanyExtract, len(extracts))
	for i, company := range cfg.Companies {
		byKey[company.Key] = extracts[i]
	}

	rows := Aggregate(AggregateInput{
		Companies:   cfg.Companies,
		Spec:        cfg.Mapping,
		Period:      period,
		Resolutions: resolutions,
		Extracts:    byKey,
		PrevTrend:   opts.PrevTrend,
	})
	report := Validate(cfg.Companies, resolutions, byKey, cfg.Mapping)

	return &Result{Rows: rows, Report: report, Resolutions: resolutions}, nil
}
