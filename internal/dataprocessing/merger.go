package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"volcanotrends/internal/config"
	apierrors "volcanotrends/internal/errors"
	"volcanotrends/internal/infrastructure"
	"volcanotrends/pkg/contracts/domain"
)

const (
	spotifyWeekLayout = "1/2/2006"
	ctxCheckInterval  = 1024
)

// MergeSummary describes one merge run
type MergeSummary struct {
	Eruptions    int `json:"eruptions"`
	VolcanoWeeks int `json:"volcano_weeks"`
	ChartEntries int `json:"chart_entries"`
	ChartWeeks   int `json:"chart_weeks"`
	Periods      int `json:"periods"`
}

type volcanoWeek struct {
	count  int
	sumVEI float64
	maxVEI float64
}

type chartWeek struct {
	streams float64
	tracks  map[string]struct{}
	genres  map[string]int
}

// Merger joins a volcano eruption export with a weekly streaming chart
// export into the merged weekly dataset.
type Merger struct {
	logger    *slog.Logger
	firstYear int
	lastYear  int
}

// NewMerger creates a merger restricted to the analysis window
func NewMerger(logger *slog.Logger) *Merger {
	return &Merger{
		logger:    infrastructure.WithComponent(logger, "merger"),
		firstYear: config.AnalysisFirstYear,
		lastYear:  config.AnalysisLastYear,
	}
}

// MergeFiles opens both inputs and merges them
func (m *Merger) MergeFiles(ctx context.Context, volcanoPath, chartsPath string) ([]domain.Record, MergeSummary, error) {
	volcano, err := os.Open(volcanoPath)
	if err != nil {
		return nil, MergeSummary{}, apierrors.NewStorageError("open volcano data", err).WithContext("path", volcanoPath)
	}
	defer volcano.Close()

	charts, err := os.Open(chartsPath)
	if err != nil {
		return nil, MergeSummary{}, apierrors.NewStorageError("open chart data", err).WithContext("path", chartsPath)
	}
	defer charts.Close()

	return m.Merge(ctx, volcano, charts)
}

// Merge reads both inputs concurrently, aggregates each by ISO week and
// outer-joins them on the week label. The result is sorted by period.
func (m *Merger) Merge(ctx context.Context, volcano, charts io.Reader) ([]domain.Record, MergeSummary, error) {
	ctx, span := infrastructure.StartSpan(ctx, "merge.run")
	defer span.End()

	var (
		volcanoWeeks map[string]*volcanoWeek
		chartWeeks   map[string]*chartWeek
		eruptions    int
		entries      int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		volcanoWeeks, eruptions, err = m.readVolcano(gctx, volcano)
		return err
	})
	g.Go(func() error {
		var err error
		chartWeeks, entries, err = m.readCharts(gctx, charts)
		return err
	})
	if err := g.Wait(); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, MergeSummary{}, err
	}

	records := joinWeeks(volcanoWeeks, chartWeeks)
	summary := MergeSummary{
		Eruptions:    eruptions,
		VolcanoWeeks: len(volcanoWeeks),
		ChartEntries: entries,
		ChartWeeks:   len(chartWeeks),
		Periods:      len(records),
	}

	span.SetAttributes(
		attribute.Int("merge.eruptions", summary.Eruptions),
		attribute.Int("merge.periods", summary.Periods))

	m.logger.InfoContext(ctx, "datasets merged",
		slog.Int("eruptions", summary.Eruptions),
		slog.Int("volcano_weeks", summary.VolcanoWeeks),
		slog.Int("chart_entries", summary.ChartEntries),
		slog.Int("chart_weeks", summary.ChartWeeks),
		slog.Int("periods", summary.Periods))

	return records, summary, nil
}

func (m *Merger) inWindow(year int) bool {
	return year >= m.firstYear && year <= m.lastYear
}

// readVolcano keeps eruptions with a start_year in the window, defaulting a
// missing month or day to 1 and dropping dates that do not exist.
func (m *Merger) readVolcano(ctx context.Context, r io.Reader) (map[string]*volcanoWeek, int, error) {
	rows, err := newTableReader(r, ',', "start_year")
	if err != nil {
		return nil, 0, apierrors.NewParsingError("read volcano header", err)
	}

	weeks := make(map[string]*volcanoWeek)
	eruptions := 0
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		row, err := rows.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, apierrors.NewParsingError("read volcano row", err)
		}

		year, ok := parseOptionalFloat(row.get("start_year"))
		if !ok || year < float64(m.firstYear) || year > float64(m.lastYear) {
			continue
		}
		month := intOrDefault(row.get("start_month"), 1)
		day := intOrDefault(row.get("start_day"), 1)

		date, ok := validDate(int(year), month, day)
		if !ok {
			continue
		}

		vei, _ := parseOptionalFloat(row.get("vei"))
		label := isoWeekLabel(date)
		w, exists := weeks[label]
		if !exists {
			w = &volcanoWeek{}
			weeks[label] = w
		}
		w.count++
		w.sumVEI += vei
		if w.count == 1 || vei > w.maxVEI {
			w.maxVEI = vei
		}
		eruptions++
	}
	return weeks, eruptions, nil
}

// readCharts aggregates the ';'-delimited weekly chart export
func (m *Merger) readCharts(ctx context.Context, r io.Reader) (map[string]*chartWeek, int, error) {
	rows, err := newTableReader(r, ';', "week")
	if err != nil {
		return nil, 0, apierrors.NewParsingError("read chart header", err)
	}

	weeks := make(map[string]*chartWeek)
	entries := 0
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		row, err := rows.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, apierrors.NewParsingError("read chart row", err)
		}

		date, err := time.Parse(spotifyWeekLayout, strings.TrimSpace(row.get("week")))
		if err != nil || !m.inWindow(date.Year()) {
			continue
		}

		label := isoWeekLabel(date)
		w, exists := weeks[label]
		if !exists {
			w = &chartWeek{tracks: make(map[string]struct{}), genres: make(map[string]int)}
			weeks[label] = w
		}
		streams, _ := parseOptionalFloat(row.get("streams"))
		w.streams += streams
		if id := strings.TrimSpace(row.get("track_id")); id != "" {
			w.tracks[id] = struct{}{}
		}
		w.genres[primaryGenre(row.get("artist_genres"))]++
		entries++
	}
	return weeks, entries, nil
}

func joinWeeks(volcano map[string]*volcanoWeek, charts map[string]*chartWeek) []domain.Record {
	labels := make(map[string]struct{}, len(volcano)+len(charts))
	for label := range volcano {
		labels[label] = struct{}{}
	}
	for label := range charts {
		labels[label] = struct{}{}
	}

	records := make([]domain.Record, 0, len(labels))
	for label := range labels {
		rec := domain.Record{Period: label, TopGenre: unknownGenre}
		if v, ok := volcano[label]; ok {
			rec.EruptionCount = v.count
			rec.AvgVEI = v.sumVEI / float64(v.count)
			rec.MaxVEI = v.maxVEI
		}
		if c, ok := charts[label]; ok {
			rec.TotalStreams = int64(c.streams)
			rec.TrackCount = len(c.tracks)
			rec.TopGenre = modeGenre(c.genres)
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Period < records[j].Period })
	return records
}

// modeGenre returns the most frequent genre, lexicographically first on ties
func modeGenre(counts map[string]int) string {
	best, bestCount := unknownGenre, 0
	for genre, count := range counts {
		if count > bestCount || count == bestCount && genre < best {
			best, bestCount = genre, count
		}
	}
	return best
}

// primaryGenre is the first entry of a comma separated genre list
func primaryGenre(genres string) string {
	first, _, _ := strings.Cut(genres, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return unknownGenre
	}
	return first
}

// isoWeekLabel returns the Monday-Sunday week containing t as
// "YYYY-MM-DD/YYYY-MM-DD".
func isoWeekLabel(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	monday := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(periodDateLayout) + "/" + sunday.Format(periodDateLayout)
}

func validDate(year, month, day int) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func parseOptionalFloat(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func intOrDefault(value string, def int) int {
	f, ok := parseOptionalFloat(value)
	if !ok {
		return def
	}
	return int(f)
}

// tableReader reads delimited rows and looks fields up by header name
type tableReader struct {
	reader  *csv.Reader
	columns map[string]int
}

type tableRow struct {
	fields  []string
	columns map[string]int
}

func newTableReader(r io.Reader, delimiter rune, required ...string) (*tableReader, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		columns[name] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return &tableReader{reader: reader, columns: columns}, nil
}

func (t *tableReader) next() (tableRow, error) {
	fields, err := t.reader.Read()
	if err != nil {
		return tableRow{}, err
	}
	return tableRow{fields: fields, columns: t.columns}, nil
}

func (r tableRow) get(name string) string {
	i, ok := r.columns[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}
