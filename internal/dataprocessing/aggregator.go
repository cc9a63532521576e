package dataprocessing

import (
	"sort"
	"strings"

	"volcanotrends/internal/config"
	"volcanotrends/pkg/contracts/domain"
)

// GenreOptions controls GenreFrequency.
type GenreOptions struct {
	// Exclusions are labels that never count as a genre. The empty label is
	// always excluded.
	Exclusions []string
	// TopK limits the result; zero or less returns every genre.
	TopK int
}

// DefaultGenreOptions excludes the placeholder labels written by the merge
// step and keeps the eight most frequent genres.
func DefaultGenreOptions() GenreOptions {
	return GenreOptions{
		Exclusions: append([]string(nil), config.DefaultGenreExclusions...),
		TopK:       config.DefaultTopGenres,
	}
}

// ComputeTotals sums eruptions and streams, counts weeks with at least one
// eruption and finds the largest max_vei. An empty input yields all zeros.
func ComputeTotals(records []domain.Record) domain.Totals {
	var totals domain.Totals
	for _, rec := range records {
		totals.Eruptions += rec.EruptionCount
		totals.Streams += rec.TotalStreams
		if rec.EruptionCount > 0 {
			totals.ActiveWeeks++
		}
		if rec.MaxVEI > totals.MaxVEI {
			totals.MaxVEI = rec.MaxVEI
		}
	}
	return totals
}

// YearlyVEI groups records by the year prefix of their period and reports
// the mean avg_vei and the max max_vei of each year, ordered by year.
func YearlyVEI(records []domain.Record) []domain.YearBucket {
	type accumulator struct {
		sumAvg float64
		maxVEI float64
		weeks  int
	}

	byYear := make(map[string]*accumulator)
	for _, rec := range records {
		year := rec.Year()
		acc, ok := byYear[year]
		if !ok {
			acc = &accumulator{}
			byYear[year] = acc
		}
		acc.sumAvg += rec.AvgVEI
		acc.weeks++
		if rec.MaxVEI > acc.maxVEI {
			acc.maxVEI = rec.MaxVEI
		}
	}

	years := make([]string, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Strings(years)

	buckets := make([]domain.YearBucket, 0, len(years))
	for _, year := range years {
		acc := byYear[year]
		buckets = append(buckets, domain.YearBucket{
			Year:       year,
			MeanAvgVEI: acc.sumAvg / float64(acc.weeks),
			MaxVEI:     acc.maxVEI,
			Weeks:      acc.weeks,
		})
	}
	return buckets
}

// GenreFrequency counts how many weeks each genre topped the chart.
//
// Labels are trimmed before counting. Results are ordered by descending
// count, ties keep the order in which genres were first seen. Share is the
// percentage of the returned counts.
func GenreFrequency(records []domain.Record, opts GenreOptions) []domain.GenreCount {
	excluded := make(map[string]struct{}, len(opts.Exclusions)+1)
	excluded[""] = struct{}{}
	for _, label := range opts.Exclusions {
		excluded[strings.TrimSpace(label)] = struct{}{}
	}

	counts := make(map[string]int)
	order := make([]string, 0, 16)
	for _, rec := range records {
		genre := strings.TrimSpace(rec.TopGenre)
		if _, skip := excluded[genre]; skip {
			continue
		}
		if _, seen := counts[genre]; !seen {
			order = append(order, genre)
		}
		counts[genre]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if opts.TopK > 0 && len(order) > opts.TopK {
		order = order[:opts.TopK]
	}

	total := 0
	for _, genre := range order {
		total += counts[genre]
	}

	result := make([]domain.GenreCount, 0, len(order))
	for _, genre := range order {
		gc := domain.GenreCount{Genre: genre, Count: counts[genre]}
		if total > 0 {
			gc.Share = float64(gc.Count) * 100 / float64(total)
		}
		result = append(result, gc)
	}
	return result
}

// ComputeMeans returns the arithmetic means of avg_vei and total_streams.
// Both are zero for an empty input.
func ComputeMeans(records []domain.Record) domain.Means {
	if len(records) == 0 {
		return domain.Means{}
	}

	var sumVEI, sumStreams float64
	for _, rec := range records {
		sumVEI += rec.AvgVEI
		sumStreams += float64(rec.TotalStreams)
	}

	n := float64(len(records))
	return domain.Means{
		AvgVEI:  sumVEI / n,
		Streams: sumStreams / n,
	}
}

// EruptionSeries returns eruption_count of every record as floats
func EruptionSeries(records []domain.Record) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = float64(rec.EruptionCount)
	}
	return out
}

// StreamSeries returns total_streams of every record as floats
func StreamSeries(records []domain.Record) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = float64(rec.TotalStreams)
	}
	return out
}
