package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"volcanotrends/pkg/contracts/domain"
)

func TestInsightFormatter_Label(t *testing.T) {
	f := NewInsightFormatter(0.1)

	tests := []struct {
		r    float64
		want string
	}{
		{r: 0, want: LabelNoRelationship},
		{r: 0.0999, want: LabelNoRelationship},
		{r: -0.0999, want: LabelNoRelationship},
		{r: 0.1, want: LabelWeakPositive},
		{r: 0.95, want: LabelWeakPositive},
		{r: -0.1, want: LabelWeakNegative},
		{r: -1, want: LabelWeakNegative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Label(tt.r), "r=%v", tt.r)
	}
}

func TestInsightFormatter_Generate(t *testing.T) {
	f := NewInsightFormatter(0.1)

	got := f.Generate(InsightInput{
		Totals: domain.Totals{Eruptions: 12, ActiveWeeks: 9},
		Means:  domain.Means{AvgVEI: 0.876, Streams: 2_456_000_000},
		Years: []domain.YearBucket{
			{Year: "2017"}, {Year: "2018"}, {Year: "2021"},
		},
		TopGenre:    &domain.GenreCount{Genre: "dance pop", Count: 47},
		Correlation: -0.23456,
	})

	assert.Equal(t,
		"During 2017-2021, there were 12 volcanic eruptions across 9 weeks. The average VEI was 0.88, indicating mostly moderate volcanic activity.",
		got.Volcano)
	assert.Equal(t,
		`"dance pop" dominated the charts, appearing in 47 weeks. Average weekly streams reached 2.46 billion, showing consistent global music consumption patterns.`,
		got.Music)
	assert.Equal(t,
		"The correlation coefficient between volcanic activity and streaming is -0.235. This suggests a weak negative relationship between global volcanic eruptions and music streaming patterns.",
		got.Correlation)
}

func TestInsightFormatter_NoData(t *testing.T) {
	got := NewInsightFormatter(0.1).Generate(InsightInput{})

	assert.Contains(t, got.Volcano, "During the recorded period, there were 0 volcanic eruptions across 0 weeks.")
	assert.Contains(t, got.Volcano, "The average VEI was 0.00")
	assert.Contains(t, got.Music, `"unknown" dominated the charts, appearing in 0 weeks.`)
	assert.Contains(t, got.Correlation, "is 0.000. This suggests no significant relationship")
}

func TestYearSpan(t *testing.T) {
	tests := []struct {
		name  string
		years []domain.YearBucket
		want  string
	}{
		{name: "none", want: "the recorded period"},
		{name: "single year", years: []domain.YearBucket{{Year: "2020"}}, want: "2020"},
		{name: "one year twice", years: []domain.YearBucket{{Year: "2020"}, {Year: "2020"}}, want: "2020"},
		{name: "range", years: []domain.YearBucket{{Year: "2017"}, {Year: "2019"}, {Year: "2021"}}, want: "2017-2021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, yearSpan(tt.years))
		})
	}
}

func TestInsightFormatter_GenerateSingleYear(t *testing.T) {
	got := NewInsightFormatter(0.1).Generate(InsightInput{
		Totals: domain.Totals{Eruptions: 3, ActiveWeeks: 2},
		Years:  []domain.YearBucket{{Year: "2020"}},
	})
	assert.Contains(t, got.Volcano, "During 2020, there were 3 volcanic eruptions across 2 weeks.")
}

func TestNewInsightFormatter_InvalidThreshold(t *testing.T) {
	assert.Equal(t, 0.1, NewInsightFormatter(-1).Threshold)
	assert.Equal(t, 0.3, NewInsightFormatter(0.3).Threshold)
}
