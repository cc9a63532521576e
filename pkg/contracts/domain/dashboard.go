package domain

import "time"

// DatasetSource identifies where the records of a dataset came from
type DatasetSource string

const (
	SourceFile      DatasetSource = "file"
	SourceURL       DatasetSource = "url"
	SourceSynthetic DatasetSource = "synthetic"
)

// Totals holds the single-pass reductions over a dataset
type Totals struct {
	Eruptions   int     `json:"eruptions"`
	Streams     int64   `json:"streams"`
	ActiveWeeks int     `json:"active_weeks"`
	MaxVEI      float64 `json:"max_vei"`
}

// Means holds arithmetic means over a dataset. Both are zero for an empty dataset.
type Means struct {
	AvgVEI  float64 `json:"avg_vei"`
	Streams float64 `json:"streams"`
}

// YearBucket is the per-year VEI summary
type YearBucket struct {
	Year       string  `json:"year"`
	MeanAvgVEI float64 `json:"mean_avg_vei"`
	MaxVEI     float64 `json:"max_vei"`
	Weeks      int     `json:"weeks"`
}

// GenreCount is the number of weeks a genre topped the chart
type GenreCount struct {
	Genre string  `json:"genre"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// Stats are the scalar widgets shown above the charts
type Stats struct {
	TotalEruptions    int     `json:"total_eruptions"`
	ActiveWeeks       int     `json:"active_weeks"`
	MaxVEI            float64 `json:"max_vei"`
	TotalStreams      int64   `json:"total_streams"`
	TotalStreamsLabel string  `json:"total_streams_label"`
	MeanAvgVEI        float64 `json:"mean_avg_vei"`
	MeanStreams       float64 `json:"mean_streams"`
	RecordCount       int     `json:"record_count"`
}

// TimeSeriesPoint is one period on the dual-axis time series
type TimeSeriesPoint struct {
	Label           string  `json:"label"`
	Eruptions       int     `json:"eruptions"`
	StreamsBillions float64 `json:"streams_billions"`
	AvgVEI          float64 `json:"avg_vei"`
	TopGenre        string  `json:"top_genre"`
	TrackCount      int     `json:"track_count"`
}

// ScatterPoint pairs eruptions with streams for the correlation chart
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ChartSet holds every chart dataset the dashboard draws
type ChartSet struct {
	TimeSeries []TimeSeriesPoint `json:"timeseries"`
	YearlyVEI  []YearBucket      `json:"yearly_vei"`
	Genres     []GenreCount      `json:"genres"`
	Scatter    []ScatterPoint    `json:"scatter"`
}

// Insights are the three generated sentences
type Insights struct {
	Volcano     string `json:"volcano"`
	Music       string `json:"music"`
	Correlation string `json:"correlation"`
}

// Dashboard is a complete, render-ready view of one dataset
type Dashboard struct {
	Source      DatasetSource `json:"source"`
	Location    string        `json:"location,omitempty"`
	LoadedAt    time.Time     `json:"loaded_at"`
	RecordCount int           `json:"record_count"`
	Correlation float64       `json:"correlation"`
	Stats       Stats         `json:"stats"`
	Charts      ChartSet      `json:"charts"`
	Insights    Insights      `json:"insights"`
}
