package dataprocessing

import (
	"fmt"

	"volcanotrends/internal/config"
	"volcanotrends/pkg/contracts/domain"
)

// DashboardOptions holds the business rules applied when building a dashboard
type DashboardOptions struct {
	Threshold float64
	Genres    GenreOptions
}

// DefaultDashboardOptions mirrors the configuration defaults
func DefaultDashboardOptions() DashboardOptions {
	return DashboardOptions{
		Threshold: config.DefaultNoRelationshipThreshold,
		Genres:    DefaultGenreOptions(),
	}
}

// OptionsFromConfig converts the insights section of the configuration
func OptionsFromConfig(cfg config.InsightsConfig) DashboardOptions {
	return DashboardOptions{
		Threshold: cfg.NoRelationshipThreshold,
		Genres: GenreOptions{
			Exclusions: append([]string(nil), cfg.GenreExclusions...),
			TopK:       cfg.TopGenres,
		},
	}
}

// BuildDashboard computes every stat, chart dataset and insight for ds
func BuildDashboard(ds *Dataset, opts DashboardOptions) domain.Dashboard {
	records := ds.view()

	totals := ComputeTotals(records)
	means := ComputeMeans(records)
	years := YearlyVEI(records)
	genres := GenreFrequency(records, opts.Genres)
	r := Pearson(EruptionSeries(records), StreamSeries(records))

	var top *domain.GenreCount
	if len(genres) > 0 {
		top = &genres[0]
	}

	dash := domain.Dashboard{
		RecordCount: len(records),
		Correlation: r,
		Stats:       BuildStats(totals, means, len(records)),
		Charts: domain.ChartSet{
			TimeSeries: TimeSeries(records),
			YearlyVEI:  years,
			Genres:     genres,
			Scatter:    Scatter(records),
		},
		Insights: NewInsightFormatter(opts.Threshold).Generate(InsightInput{
			Totals:      totals,
			Means:       means,
			Years:       years,
			TopGenre:    top,
			Correlation: r,
		}),
	}
	if ds != nil {
		dash.Source = ds.Source()
		dash.Location = ds.Location()
		dash.LoadedAt = ds.LoadedAt()
	}
	return dash
}

// BuildCharts computes the four chart datasets only
func BuildCharts(records []domain.Record, genres GenreOptions) domain.ChartSet {
	return domain.ChartSet{
		TimeSeries: TimeSeries(records),
		YearlyVEI:  YearlyVEI(records),
		Genres:     GenreFrequency(records, genres),
		Scatter:    Scatter(records),
	}
}

// BuildStats assembles the widget values
func BuildStats(totals domain.Totals, means domain.Means, recordCount int) domain.Stats {
	return domain.Stats{
		TotalEruptions:    totals.Eruptions,
		ActiveWeeks:       totals.ActiveWeeks,
		MaxVEI:            totals.MaxVEI,
		TotalStreams:      totals.Streams,
		TotalStreamsLabel: FormatBillions(totals.Streams),
		MeanAvgVEI:        means.AvgVEI,
		MeanStreams:       means.Streams,
		RecordCount:       recordCount,
	}
}

// TimeSeries labels each record by the start date of its period
func TimeSeries(records []domain.Record) []domain.TimeSeriesPoint {
	points := make([]domain.TimeSeriesPoint, len(records))
	for i, rec := range records {
		points[i] = domain.TimeSeriesPoint{
			Label:           rec.PeriodStart(),
			Eruptions:       rec.EruptionCount,
			StreamsBillions: rec.StreamsBillions(),
			AvgVEI:          rec.AvgVEI,
			TopGenre:        rec.TopGenre,
			TrackCount:      rec.TrackCount,
		}
	}
	return points
}

// Scatter pairs eruption counts with streams in billions
func Scatter(records []domain.Record) []domain.ScatterPoint {
	points := make([]domain.ScatterPoint, len(records))
	for i, rec := range records {
		points[i] = domain.ScatterPoint{
			X: float64(rec.EruptionCount),
			Y: rec.StreamsBillions(),
		}
	}
	return points
}

// FormatBillions renders a stream count like "5.5B"
func FormatBillions(streams int64) string {
	return fmt.Sprintf("%.1fB", float64(streams)/1e9)
}
