package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volcanotrends/pkg/contracts/domain"
)

func genreRecords(genres ...string) []domain.Record {
	records := make([]domain.Record, len(genres))
	for i, g := range genres {
		records[i] = domain.Record{TopGenre: g}
	}
	return records
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.Record
		want    domain.Totals
	}{
		{
			name:    "empty input",
			records: nil,
			want:    domain.Totals{},
		},
		{
			name: "counts active weeks",
			records: []domain.Record{
				{EruptionCount: 0, TotalStreams: 10, MaxVEI: 1},
				{EruptionCount: 2, TotalStreams: 20, MaxVEI: 4},
				{EruptionCount: 1, TotalStreams: 30, MaxVEI: 2},
			},
			want: domain.Totals{Eruptions: 3, Streams: 60, ActiveWeeks: 2, MaxVEI: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTotals(tt.records))
		})
	}
}

func TestYearlyVEI(t *testing.T) {
	records := []domain.Record{
		{Period: "2019-01-07/2019-01-13", AvgVEI: 1, MaxVEI: 2},
		{Period: "2018-01-01/2018-01-07", AvgVEI: 1, MaxVEI: 1},
		{Period: "2018-01-08/2018-01-14", AvgVEI: 2, MaxVEI: 3},
		{Period: "2019-01-14/2019-01-20", AvgVEI: 0.5, MaxVEI: 0},
	}

	buckets := YearlyVEI(records)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2018", buckets[0].Year)
	assert.InDelta(t, 1.5, buckets[0].MeanAvgVEI, 1e-9)
	assert.Equal(t, 3.0, buckets[0].MaxVEI)
	assert.Equal(t, 2, buckets[0].Weeks)

	assert.Equal(t, "2019", buckets[1].Year)
	assert.InDelta(t, 0.75, buckets[1].MeanAvgVEI, 1e-9)
	assert.Equal(t, 2.0, buckets[1].MaxVEI)

	assert.Empty(t, YearlyVEI(nil))
}

func TestGenreFrequency(t *testing.T) {
	tests := []struct {
		name   string
		genres []string
		opts   GenreOptions
		want   []domain.GenreCount
	}{
		{
			name:   "placeholders excluded",
			genres: []string{"pop", "unknown", "pop", "0", ""},
			opts:   DefaultGenreOptions(),
			want:   []domain.GenreCount{{Genre: "pop", Count: 2, Share: 100}},
		},
		{
			name:   "labels are trimmed",
			genres: []string{" pop", "pop ", "  "},
			opts:   DefaultGenreOptions(),
			want:   []domain.GenreCount{{Genre: "pop", Count: 2, Share: 100}},
		},
		{
			name:   "ties keep first seen order",
			genres: []string{"rock", "pop", "pop", "rock", "jazz"},
			opts:   GenreOptions{},
			want: []domain.GenreCount{
				{Genre: "rock", Count: 2, Share: 40},
				{Genre: "pop", Count: 2, Share: 40},
				{Genre: "jazz", Count: 1, Share: 20},
			},
		},
		{
			name:   "top k",
			genres: []string{"a", "b", "b", "c", "c", "c"},
			opts:   GenreOptions{TopK: 2},
			want: []domain.GenreCount{
				{Genre: "c", Count: 3, Share: 60},
				{Genre: "b", Count: 2, Share: 40},
			},
		},
		{
			name:   "custom exclusions",
			genres: []string{"pop", "n/a", "rock"},
			opts:   GenreOptions{Exclusions: []string{"n/a"}},
			want: []domain.GenreCount{
				{Genre: "pop", Count: 1, Share: 50},
				{Genre: "rock", Count: 1, Share: 50},
			},
		},
		{
			name:   "nothing countable",
			genres: []string{"unknown", "0"},
			opts:   DefaultGenreOptions(),
			want:   []domain.GenreCount{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenreFrequency(genreRecords(tt.genres...), tt.opts))
		})
	}
}

func TestComputeMeans(t *testing.T) {
	assert.Equal(t, domain.Means{}, ComputeMeans(nil))

	means := ComputeMeans([]domain.Record{
		{AvgVEI: 1, TotalStreams: 2_000_000_000},
		{AvgVEI: 2, TotalStreams: 3_000_000_000},
	})
	assert.InDelta(t, 1.5, means.AvgVEI, 1e-9)
	assert.InDelta(t, 2.5e9, means.Streams, 1e-3)
}

func TestSeriesExtraction(t *testing.T) {
	records := []domain.Record{
		{EruptionCount: 1, TotalStreams: 3},
		{EruptionCount: 0, TotalStreams: 4},
	}
	assert.Equal(t, []float64{1, 0}, EruptionSeries(records))
	assert.Equal(t, []float64{3, 4}, StreamSeries(records))
}
