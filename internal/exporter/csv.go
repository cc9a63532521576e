package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"volcanotrends/pkg/contracts/domain"
)

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
	Logger    *slog.Logger
}

// CSVWriter writes records in the merged dataset layout
type CSVWriter struct {
	opts WriteOptions
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(opts WriteOptions) *CSVWriter {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &CSVWriter{opts: opts}
}

// WriteRecords writes the header and one row per record to out
func (w *CSVWriter) WriteRecords(out io.Writer, records []domain.Record) error {
	if w.opts.BOMPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(domain.DatasetColumns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	row := make([]string, len(domain.DatasetColumns))
	for i, rec := range records {
		row[0] = rec.Period
		row[1] = formatInt(int64(rec.EruptionCount))
		row[2] = formatFloat(rec.AvgVEI)
		row[3] = formatFloat(rec.MaxVEI)
		row[4] = formatInt(rec.TotalStreams)
		row[5] = formatInt(int64(rec.TrackCount))
		row[6] = rec.TopGenre
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes records to filePath, creating parent directories
func (w *CSVWriter) WriteFile(filePath string, records []domain.Record) error {
	w.opts.Logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	if err := w.WriteRecords(file, records); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
