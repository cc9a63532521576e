package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"volcanotrends/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// ParseCSV reads the merged weekly dataset. The first row is the header and
// columns are matched by name, so column order does not matter.
//
// period and top_genre are kept as raw text. Every other column is read as a
// float; values that are missing or do not parse become 0. Columns the
// dataset does not define are kept in Record.Extra. Integer fields are
// truncated toward zero.
//
// Only failures of the underlying reader are returned as errors; malformed
// cells never fail the parse.
func ParseCSV(r io.Reader) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	records := make([]domain.Record, 0, 256)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if isBlankRow(row) {
			continue
		}
		records = append(records, parseRow(header, row))
	}

	return records, nil
}

// ParseCSVString is ParseCSV over an in-memory document
func ParseCSVString(content string) ([]domain.Record, error) {
	return ParseCSV(strings.NewReader(content))
}

func parseRow(header, row []string) domain.Record {
	var rec domain.Record
	for i, name := range header {
		if name == "" {
			continue
		}
		value := ""
		if i < len(row) {
			value = row[i]
		}

		switch name {
		case domain.ColumnPeriod:
			rec.Period = value
		case domain.ColumnTopGenre:
			rec.TopGenre = value
		case domain.ColumnEruptionCount:
			rec.EruptionCount = int(parseNumber(value))
		case domain.ColumnAvgVEI:
			rec.AvgVEI = parseNumber(value)
		case domain.ColumnMaxVEI:
			rec.MaxVEI = parseNumber(value)
		case domain.ColumnTotalStreams:
			rec.TotalStreams = int64(parseNumber(value))
		case domain.ColumnTrackCount:
			rec.TrackCount = int(parseNumber(value))
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]float64)
			}
			rec.Extra[name] = parseNumber(value)
		}
	}
	return rec
}

// parseNumber returns 0 for anything that is not a finite number. Surrounding
// whitespace is ignored.
func parseNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func isBlankRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
