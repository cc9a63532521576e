package domain

import "strings"

// Column names of the merged weekly dataset, in the order the merge step writes them.
const (
	ColumnPeriod        = "period"
	ColumnEruptionCount = "eruption_count"
	ColumnAvgVEI        = "avg_vei"
	ColumnMaxVEI        = "max_vei"
	ColumnTotalStreams  = "total_streams"
	ColumnTrackCount    = "track_count"
	ColumnTopGenre      = "top_genre"
)

// DatasetColumns lists the merged dataset header in file order.
var DatasetColumns = []string{
	ColumnPeriod,
	ColumnEruptionCount,
	ColumnAvgVEI,
	ColumnMaxVEI,
	ColumnTotalStreams,
	ColumnTrackCount,
	ColumnTopGenre,
}

// Record is one weekly row of the merged volcano/streaming dataset.
// Numeric fields hold zero when the source value was missing or unparsable.
type Record struct {
	Period        string             `json:"period"`
	EruptionCount int                `json:"eruption_count"`
	AvgVEI        float64            `json:"avg_vei"`
	MaxVEI        float64            `json:"max_vei"`
	TotalStreams  int64              `json:"total_streams"`
	TrackCount    int                `json:"track_count"`
	TopGenre      string             `json:"top_genre"`
	Extra         map[string]float64 `json:"extra,omitempty"`
}

// Year returns the text of the period before the first '-'.
func (r Record) Year() string {
	year, _, _ := strings.Cut(r.Period, "-")
	return year
}

// PeriodStart returns the start date label of the period.
func (r Record) PeriodStart() string {
	start, _, _ := strings.Cut(r.Period, "/")
	return start
}

// StreamsBillions returns total streams expressed in billions.
func (r Record) StreamsBillions() float64 {
	return float64(r.TotalStreams) / 1e9
}
