package dataprocessing

import (
	"context"
	"math/rand/v2"
	"time"

	"volcanotrends/pkg/contracts/domain"
)

// RecordSource produces a full record sequence. The loader falls back to one
// when the configured dataset cannot be used.
type RecordSource interface {
	Records(ctx context.Context) ([]domain.Record, error)
}

// SyntheticGenres are the top_genre labels drawn by the generator
var SyntheticGenres = []string{"dance pop", "pop", "hip hop", "rock", "electronic"}

const periodDateLayout = "2006-01-02"

// SyntheticGenerator fabricates one weekly record per 7-day period across
// the analysis window. It is demo data, not a model of either dataset.
type SyntheticGenerator struct {
	seed  uint64
	start time.Time
	end   time.Time
}

// NewSyntheticGenerator covers 2017-01-01 through 2021-12-31. A zero seed
// draws a fresh one from the clock, so output differs per call.
func NewSyntheticGenerator(seed uint64) *SyntheticGenerator {
	return &SyntheticGenerator{
		seed:  seed,
		start: time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(2021, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Records implements RecordSource
func (g *SyntheticGenerator) Records(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.Generate(), nil
}

// Generate returns the synthetic records in chronological order
func (g *SyntheticGenerator) Generate() []domain.Record {
	seed := g.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	weeks := int(g.end.Sub(g.start).Hours()/(24*7)) + 1
	records := make([]domain.Record, 0, weeks)

	for start := g.start; !start.After(g.end); start = start.AddDate(0, 0, 7) {
		end := start.AddDate(0, 0, 6)

		eruptions := 0
		if rng.Float64() > 0.7 {
			eruptions = rng.IntN(3)
		}

		records = append(records, domain.Record{
			Period:        start.Format(periodDateLayout) + "/" + end.Format(periodDateLayout),
			EruptionCount: eruptions,
			AvgVEI:        rng.Float64() * 2,
			MaxVEI:        float64(rng.IntN(4)),
			TotalStreams:  2_000_000_000 + rng.Int64N(1_000_000_000),
			TrackCount:    150 + rng.IntN(50),
			TopGenre:      SyntheticGenres[rng.IntN(len(SyntheticGenres))],
		})
	}

	return records
}
