package dataprocessing

import (
	"fmt"
	"math"

	"volcanotrends/internal/config"
	"volcanotrends/pkg/contracts/domain"
)

// Relationship labels used in the correlation sentence
const (
	LabelNoRelationship   = "no significant relationship"
	LabelWeakPositive     = "a weak positive relationship"
	LabelWeakNegative     = "a weak negative relationship"
	unknownGenre          = "unknown"
	unrecordedPeriodLabel = "the recorded period"
)

// InsightInput carries the aggregates the three sentences are built from
type InsightInput struct {
	Totals      domain.Totals
	Means       domain.Means
	Years       []domain.YearBucket
	TopGenre    *domain.GenreCount
	Correlation float64
}

// InsightFormatter renders aggregates as the dashboard's insight sentences.
// |r| below Threshold reads as no relationship.
type InsightFormatter struct {
	Threshold float64
}

// NewInsightFormatter returns a formatter using the given threshold. A
// negative threshold falls back to the default.
func NewInsightFormatter(threshold float64) InsightFormatter {
	if threshold < 0 || math.IsNaN(threshold) {
		threshold = config.DefaultNoRelationshipThreshold
	}
	return InsightFormatter{Threshold: threshold}
}

// Generate builds all three insights
func (f InsightFormatter) Generate(in InsightInput) domain.Insights {
	return domain.Insights{
		Volcano:     f.VolcanoSummary(in.Totals, in.Means, in.Years),
		Music:       f.MusicSummary(in.TopGenre, in.Means),
		Correlation: f.CorrelationSummary(in.Correlation),
	}
}

func (f InsightFormatter) VolcanoSummary(totals domain.Totals, means domain.Means, years []domain.YearBucket) string {
	return fmt.Sprintf("During %s, there were %d volcanic eruptions across %d weeks. "+
		"The average VEI was %.2f, indicating mostly moderate volcanic activity.",
		yearSpan(years), totals.Eruptions, totals.ActiveWeeks, means.AvgVEI)
}

func (f InsightFormatter) MusicSummary(top *domain.GenreCount, means domain.Means) string {
	genre, weeks := unknownGenre, 0
	if top != nil {
		genre, weeks = top.Genre, top.Count
	}
	return fmt.Sprintf("\"%s\" dominated the charts, appearing in %d weeks. "+
		"Average weekly streams reached %.2f billion, showing consistent global music consumption patterns.",
		genre, weeks, means.Streams/1e9)
}

func (f InsightFormatter) CorrelationSummary(r float64) string {
	return fmt.Sprintf("The correlation coefficient between volcanic activity and streaming is %.3f. "+
		"This suggests %s between global volcanic eruptions and music streaming patterns.",
		r, f.Label(r))
}

// Label classifies a correlation coefficient
func (f InsightFormatter) Label(r float64) string {
	switch {
	case math.Abs(r) < f.Threshold:
		return LabelNoRelationship
	case r > 0:
		return LabelWeakPositive
	default:
		return LabelWeakNegative
	}
}

// yearSpan renders "first-last" from year buckets sorted by year, or just the
// year when there is only one.
func yearSpan(years []domain.YearBucket) string {
	if len(years) == 0 {
		return unrecordedPeriodLabel
	}
	first, last := years[0].Year, years[len(years)-1].Year
	if first == last {
		return first
	}
	return first + "-" + last
}
