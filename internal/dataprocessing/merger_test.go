package dataprocessing

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "volcanotrends/internal/errors"
	"volcanotrends/internal/shared/testutil"
	"volcanotrends/pkg/contracts/domain"
)

const eruptionsCSV = `volcano_number,volcano_name,eruption_number,eruption_category,start_year,start_month,start_day,vei
211060,Etna,22001,Confirmed Eruption,2019,1,2,2
332010,Kilauea,22002,Confirmed Eruption,2019,1,6,4
261170,Merapi,22003,Confirmed Eruption,2020,,,1
300010,Sakurajima,22004,Confirmed Eruption,2016,5,1,3
300020,Aso,22005,Confirmed Eruption,,,,2
300030,Shinmoe,22006,Confirmed Eruption,2019,2,30,2
345020,Fuego,22007,Confirmed Eruption,2021,6,15,
`

const chartsCSV = `week;track_id;streams;artist_genres
01/03/2019;t1;1000;dance pop,pop
01/03/2019;t2;500;rock
01/03/2019;t1;250;pop
1/10/2019;t3;100;
12/30/2016;t9;999;pop
`

func TestMerger_Merge(t *testing.T) {
	logger, captured := testutil.NewTestLogger(t)
	m := NewMerger(logger)

	records, summary, err := m.Merge(context.Background(), strings.NewReader(eruptionsCSV), strings.NewReader(chartsCSV))
	require.NoError(t, err)

	want := []domain.Record{
		{Period: "2018-12-31/2019-01-06", EruptionCount: 2, AvgVEI: 3, MaxVEI: 4, TotalStreams: 1750, TrackCount: 2, TopGenre: "dance pop"},
		{Period: "2019-01-07/2019-01-13", TotalStreams: 100, TrackCount: 1, TopGenre: "unknown"},
		{Period: "2019-12-30/2020-01-05", EruptionCount: 1, AvgVEI: 1, MaxVEI: 1, TopGenre: "unknown"},
		{Period: "2021-06-14/2021-06-20", EruptionCount: 1, TopGenre: "unknown"},
	}
	assert.Equal(t, want, records)

	assert.Equal(t, MergeSummary{
		Eruptions:    4,
		VolcanoWeeks: 3,
		ChartEntries: 4,
		ChartWeeks:   2,
		Periods:      4,
	}, summary)
	testutil.AssertLogContains(t, captured, slog.LevelInfo, "datasets merged")
}

func TestMerger_MergeFiles(t *testing.T) {
	volcano := testutil.WriteFile(t, "eruptions.csv", eruptionsCSV)
	charts := testutil.WriteFile(t, "spotify.csv", chartsCSV)

	logger, _ := testutil.NewTestLogger(t)
	records, _, err := NewMerger(logger).MergeFiles(context.Background(), volcano, charts)
	require.NoError(t, err)
	assert.Len(t, records, 4)

	_, _, err = NewMerger(logger).MergeFiles(context.Background(), volcano, charts+".missing")
	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeStorage, appErr.Type)
}

func TestMerger_MissingColumn(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	_, _, err := NewMerger(logger).Merge(context.Background(),
		strings.NewReader("year,vei\n2019,1\n"), strings.NewReader(chartsCSV))

	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeParsing, appErr.Type)
	assert.Contains(t, err.Error(), `missing column "start_year"`)
}

func TestMerger_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger, _ := testutil.NewTestLogger(t)
	_, _, err := NewMerger(logger).Merge(ctx, strings.NewReader(eruptionsCSV), strings.NewReader(chartsCSV))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestISOWeekLabel(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{date: "2019-01-02", want: "2018-12-31/2019-01-06"},
		{date: "2018-12-31", want: "2018-12-31/2019-01-06"},
		{date: "2019-01-06", want: "2018-12-31/2019-01-06"},
		{date: "2020-02-29", want: "2020-02-24/2020-03-01"},
		{date: "2021-01-03", want: "2020-12-28/2021-01-03"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := time.Parse(periodDateLayout, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, isoWeekLabel(d))
		})
	}
}

func TestPrimaryGenreAndMode(t *testing.T) {
	assert.Equal(t, "dance pop", primaryGenre(" dance pop , pop"))
	assert.Equal(t, "unknown", primaryGenre(""))
	assert.Equal(t, "unknown", primaryGenre(" ,rock"))

	assert.Equal(t, "pop", modeGenre(map[string]int{"rock": 2, "pop": 2, "jazz": 1}))
	assert.Equal(t, "rock", modeGenre(map[string]int{"rock": 3, "pop": 2}))
	assert.Equal(t, "unknown", modeGenre(nil))
}
