package dataprocessing

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticGenerator_Shape(t *testing.T) {
	records := NewSyntheticGenerator(7).Generate()

	// Weekly starts from 2017-01-01 up to and including 2021-12-26.
	require.Len(t, records, 261)
	assert.Equal(t, "2017-01-01/2017-01-07", records[0].Period)
	assert.Equal(t, "2021-12-26/2022-01-01", records[len(records)-1].Period)

	for i, rec := range records {
		start, err := time.Parse(periodDateLayout, rec.PeriodStart())
		require.NoError(t, err)
		if i > 0 {
			prev, _ := time.Parse(periodDateLayout, records[i-1].PeriodStart())
			assert.Equal(t, 7*24*time.Hour, start.Sub(prev))
		}

		assert.GreaterOrEqual(t, rec.EruptionCount, 0)
		assert.Less(t, rec.EruptionCount, 3)
		assert.GreaterOrEqual(t, rec.AvgVEI, 0.0)
		assert.Less(t, rec.AvgVEI, 2.0)
		assert.Contains(t, []float64{0, 1, 2, 3}, rec.MaxVEI)
		assert.GreaterOrEqual(t, rec.TotalStreams, int64(2_000_000_000))
		assert.Less(t, rec.TotalStreams, int64(3_000_000_000))
		assert.GreaterOrEqual(t, rec.TrackCount, 150)
		assert.Less(t, rec.TrackCount, 200)
		assert.True(t, slices.Contains(SyntheticGenres, rec.TopGenre), rec.TopGenre)
	}
}

func TestSyntheticGenerator_MostlyQuiet(t *testing.T) {
	records := NewSyntheticGenerator(99).Generate()

	quiet := 0
	for _, rec := range records {
		if rec.EruptionCount == 0 {
			quiet++
		}
	}
	// P(zero) is 0.7 + 0.3/3 = 0.8; allow a wide margin.
	share := float64(quiet) / float64(len(records))
	assert.Greater(t, share, 0.65)
	assert.Less(t, share, 0.95)
}

func TestSyntheticGenerator_Deterministic(t *testing.T) {
	a := NewSyntheticGenerator(1234).Generate()
	b := NewSyntheticGenerator(1234).Generate()
	c := NewSyntheticGenerator(4321).Generate()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSyntheticGenerator_RecordsHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSyntheticGenerator(1).Records(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	records, err := NewSyntheticGenerator(1).Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 261)
}
