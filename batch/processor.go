// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/tvervier/geobel/resolve"
	"github.com/tvervier/geobel/utils"
	"github.com/xuri/excelize/v2"
	"golang.org/x/time/rate"
)

// RecordResolver is the slice of the resolution engine the processor needs;
// *resolve.Resolver implements it.
type RecordResolver interface {
	ResolveRecord(rawAddress, rawCompany string) *resolve.ResolvedRecord
}

// Options configures a batch run.
type Options struct {
	// AddressColumn is the header of the column holding the postal address.
	AddressColumn string

	// CompanyColumn is the header of the column holding the company name,
	// used as a fallback when the address fails. Empty disables the fallback.
	CompanyColumn string

	// RatePerSecond paces the row loop to stay friendly with the providers'
	// rate limits. Zero disables pacing.
	RatePerSecond float64

	// KeepSource retains the "Source géocodage" column in the exported file.
	// The column is always used internally for the failure report.
	KeepSource bool

	// DateColumns are reformatted to ISO dates when their cells parse.
	DateColumns []string

	// Quiet suppresses the per-row log lines (the serve mode sets this).
	Quiet bool
}

// Columns appended to the exported sheet.
const (
	latitudeHeader  = "Latitude"
	longitudeHeader = "Longitude"
	sourceHeader    = "Source géocodage"
)

// DefaultDateColumns are the date headers present in the planning exports
// this tool was built for.
var DefaultDateColumns = []string{"Date début", "Date fin"}

// Metrics tracks counters collected during a batch run.
type Metrics struct {
	Rows      int
	Geocoded  int
	Fallbacks int
	Failures  int
	BySource  map[string]int
}

// Merge combines the metrics from another run into this one.
func (m *Metrics) Merge(other *Metrics) *Metrics {
	if other == nil {
		return m
	}

	m.Rows += other.Rows
	m.Geocoded += other.Geocoded
	m.Fallbacks += other.Fallbacks
	m.Failures += other.Failures

	if m.BySource == nil {
		m.BySource = make(map[string]int)
	}

	for source, n := range other.BySource {
		m.BySource[source] += n
	}

	return m
}

// RecordOutcome pairs a data row (1-based, excluding the header) with its
// resolution.
type RecordOutcome struct {
	Row    int
	Record *resolve.ResolvedRecord
}

// Result is the outcome of a batch run: the completed workbook, counters and
// the raw outcomes for reporting.
type Result struct {
	File     *excelize.File
	Metrics  Metrics
	Outcomes []RecordOutcome
	Failures []FailedRow
}

// Processor drives a workbook through the resolution engine.
type Processor struct {
	resolver RecordResolver
	options  *Options
}

// NewProcessor creates a processor. Missing options get their defaults.
func NewProcessor(resolver RecordResolver, options *Options) *Processor {
	if options == nil {
		options = &Options{}
	}

	if options.DateColumns == nil {
		options.DateColumns = DefaultDateColumns
	}

	return &Processor{resolver: resolver, options: options}
}

// Process resolves every data row and assembles the completed workbook. The
// context bounds the whole run; cancellation between rows aborts with the
// context's error.
func (p *Processor) Process(ctx context.Context, wb *Workbook) (*Result, error) {
	addrIdx, err := wb.ColumnIndex(p.options.AddressColumn)
	if err != nil {
		return nil, err
	}

	companyIdx := -1
	if p.options.CompanyColumn != "" {
		if companyIdx, err = wb.ColumnIndex(p.options.CompanyColumn); err != nil {
			return nil, err
		}
	}

	dateIdxs := p.dateColumnIndexes(wb)

	limiter := rate.NewLimiter(rate.Inf, 1)
	if p.options.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(p.options.RatePerSecond), 1)
	}

	out := excelize.NewFile()
	outSheet := out.GetSheetName(0)
	if wb.Sheet != outSheet {
		if err := out.SetSheetName(outSheet, wb.Sheet); err != nil {
			return nil, fmt.Errorf("naming output sheet: %w", err)
		}
	}

	headers := make([]interface{}, 0, len(wb.Headers)+3)
	for _, h := range wb.Headers {
		headers = append(headers, h)
	}

	headers = append(headers, latitudeHeader, longitudeHeader)
	if p.options.KeepSource {
		headers = append(headers, sourceHeader)
	}

	if err := out.SetSheetRow(wb.Sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("writing header row: %w", err)
	}

	n := len(wb.Rows)

	var bar *progressbar.ProgressBar
	if !p.options.Quiet && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription("Géocodage"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	result := &Result{
		File:    out,
		Metrics: Metrics{BySource: make(map[string]int)},
	}

	for i, row := range wb.Rows {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("aborted at row %d: %w", i+1, err)
		}

		address := Cell(row, addrIdx)
		company := Cell(row, companyIdx)

		if bar == nil && !p.options.Quiet {
			log.Printf("[%d/%d] Géocodage: %s", i+1, n, address)
		}

		record := p.resolver.ResolveRecord(address, company)
		p.tally(&result.Metrics, record)

		result.Outcomes = append(result.Outcomes, RecordOutcome{Row: i + 1, Record: record})
		if record.Point == nil {
			result.Failures = append(result.Failures, FailedRow{
				Row:     i + 1,
				Address: address,
				Company: company,
			})
		}

		outRow := p.buildRow(row, record, len(wb.Headers), addrIdx, dateIdxs)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("addressing row %d: %w", i+2, err)
		}

		if err := out.SetSheetRow(wb.Sheet, cell, &outRow); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}

		if bar != nil {
			if err := bar.Add(1); err != nil {
				log.Printf("updating progress bar: %v", err)
			}
		}
	}

	result.Metrics.Rows = n

	if !p.options.Quiet {
		log.Printf("Géocodage terminé - %s lignes, %s résolues, %s échecs",
			utils.FormatInt(int64(result.Metrics.Rows)),
			utils.FormatInt(int64(result.Metrics.Geocoded)),
			utils.FormatInt(int64(result.Metrics.Failures)))
	}

	return result, nil
}

func (p *Processor) tally(m *Metrics, record *resolve.ResolvedRecord) {
	m.BySource[record.Source]++

	switch {
	case record.Point == nil:
		m.Failures++
	case strings.HasPrefix(record.Source, "Fallback entreprise"):
		m.Geocoded++
		m.Fallbacks++
	default:
		m.Geocoded++
	}
}

// buildRow copies a data row, rewriting the address and date cells and
// appending the coordinates. Rows shorter than the header (trailing cells
// were empty) are padded so the appended columns stay aligned.
func (p *Processor) buildRow(row []string, record *resolve.ResolvedRecord, width, addrIdx int, dateIdxs []int) []interface{} {
	outRow := make([]interface{}, 0, width+3)
	for j := 0; j < width; j++ {
		cell := Cell(row, j)

		if j == addrIdx {
			cell = record.DisplayAddress
		} else if slices.Contains(dateIdxs, j) {
			cell = formatDate(cell)
		}

		outRow = append(outRow, cell)
	}

	if record.Point != nil {
		outRow = append(outRow, record.Point.Lat, record.Point.Lng)
	} else {
		outRow = append(outRow, "", "")
	}

	if p.options.KeepSource {
		outRow = append(outRow, record.Source)
	}

	return outRow
}

func (p *Processor) dateColumnIndexes(wb *Workbook) []int {
	var idxs []int

	for _, name := range p.options.DateColumns {
		if idx, err := wb.ColumnIndex(name); err == nil {
			idxs = append(idxs, idx)
		}
	}

	return idxs
}

// Input date layouts seen in the planning exports. First match wins.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"02-01-2006",
	"01-02-06",
}

// formatDate reformats a date cell to ISO form. Cells that do not parse are
// left untouched rather than blanked.
func formatDate(cell string) string {
	s := strings.TrimSpace(cell)
	if s == "" {
		return cell
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	return cell
}
