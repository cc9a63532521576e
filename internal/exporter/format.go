package exporter

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"volcanotrends/pkg/contracts/domain"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported export formats
var Formats = []string{string(FormatCSV), string(FormatXLSX)}

// ErrUnsupportedFormat is returned for any format other than csv or xlsx
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat maps a case-insensitive name to a Format
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName returns the download name for the format
func (f Format) FileName() string {
	return "volcano_streaming_dataset." + string(f)
}

// Export writes dash and records to w in the given format
func Export(w io.Writer, format Format, dash domain.Dashboard, records []domain.Record) error {
	switch format {
	case FormatCSV:
		return NewCSVWriter(WriteOptions{BOMPrefix: true}).WriteRecords(w, records)
	case FormatXLSX:
		return NewXLSXWriter().Write(w, dash, records)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// formatFloat writes the shortest text that parses back to f
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
