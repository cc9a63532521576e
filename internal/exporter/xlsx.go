package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"volcanotrends/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SheetRecords = "Records"
	SheetSummary = "Summary"
	SheetYearly  = "Yearly VEI"
	SheetGenres  = "Genres"
)

// XLSXWriter builds the dashboard workbook
type XLSXWriter struct{}

// NewXLSXWriter creates a workbook writer
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Write renders the workbook for dash and records to out
func (x *XLSXWriter) Write(out io.Writer, dash domain.Dashboard, records []domain.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	// Replace the default sheet with the records sheet
	if err := f.SetSheetName(f.GetSheetName(0), SheetRecords); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{SheetSummary, SheetYearly, SheetGenres} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FF6B6B"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	steps := []func(*excelize.File, int) error{
		func(f *excelize.File, style int) error { return writeRecordsSheet(f, style, records) },
		func(f *excelize.File, style int) error { return writeSummarySheet(f, style, dash) },
		func(f *excelize.File, style int) error { return writeYearlySheet(f, style, dash.Charts.YearlyVEI) },
		func(f *excelize.File, style int) error { return writeGenresSheet(f, style, dash.Charts.Genres) },
	}
	for _, step := range steps {
		if err := step(f, header); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRecordsSheet(f *excelize.File, style int, records []domain.Record) error {
	header := make([]interface{}, len(domain.DatasetColumns))
	for i, col := range domain.DatasetColumns {
		header[i] = col
	}
	if err := writeHeader(f, SheetRecords, style, header); err != nil {
		return err
	}

	for i, rec := range records {
		row := []interface{}{
			rec.Period, rec.EruptionCount, rec.AvgVEI, rec.MaxVEI,
			rec.TotalStreams, rec.TrackCount, rec.TopGenre,
		}
		if err := setRow(f, SheetRecords, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetRecords, "A", "A", 24)
}

func writeSummarySheet(f *excelize.File, style int, dash domain.Dashboard) error {
	if err := writeHeader(f, SheetSummary, style, []interface{}{"Metric", "Value"}); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Source", string(dash.Source)},
		{"Total weeks", dash.RecordCount},
		{"Weeks with volcanic activity", dash.Stats.ActiveWeeks},
		{"Total eruptions", dash.Stats.TotalEruptions},
		{"Average VEI", dash.Stats.MeanAvgVEI},
		{"Max VEI", dash.Stats.MaxVEI},
		{"Total streams", dash.Stats.TotalStreams},
		{"Average weekly streams", dash.Stats.MeanStreams},
		{"Correlation", dash.Correlation},
		{"Volcano insight", dash.Insights.Volcano},
		{"Music insight", dash.Insights.Music},
		{"Correlation insight", dash.Insights.Correlation},
	}
	for i, row := range rows {
		if err := setRow(f, SheetSummary, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 30); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "B", "B", 60)
}

func writeYearlySheet(f *excelize.File, style int, buckets []domain.YearBucket) error {
	if err := writeHeader(f, SheetYearly, style, []interface{}{"Year", "Average VEI", "Max VEI", "Weeks"}); err != nil {
		return err
	}
	for i, b := range buckets {
		if err := setRow(f, SheetYearly, i+2, []interface{}{b.Year, b.MeanAvgVEI, b.MaxVEI, b.Weeks}); err != nil {
			return err
		}
	}
	return nil
}

func writeGenresSheet(f *excelize.File, style int, genres []domain.GenreCount) error {
	if err := writeHeader(f, SheetGenres, style, []interface{}{"Genre", "Weeks", "Share %"}); err != nil {
		return err
	}
	for i, g := range genres {
		if err := setRow(f, SheetGenres, i+2, []interface{}{g.Genre, g.Count, g.Share}); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetGenres, "A", "A", 24)
}

func writeHeader(f *excelize.File, sheet string, style int, values []interface{}) error {
	if err := setRow(f, sheet, 1, values); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
