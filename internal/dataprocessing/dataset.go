package dataprocessing

import (
	"maps"
	"time"

	"volcanotrends/pkg/contracts/domain"
)

// Dataset is an immutable, ordered set of weekly records together with
// where it came from. Accessors hand out copies.
type Dataset struct {
	records  []domain.Record
	source   domain.DatasetSource
	location string
	loadedAt time.Time
}

// NewDataset copies records into a new dataset
func NewDataset(records []domain.Record, source domain.DatasetSource, location string, loadedAt time.Time) *Dataset {
	return &Dataset{
		records:  cloneRecords(records),
		source:   source,
		location: location,
		loadedAt: loadedAt,
	}
}

// Records returns a copy of the records in dataset order
func (d *Dataset) Records() []domain.Record {
	if d == nil {
		return nil
	}
	return cloneRecords(d.records)
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

func (d *Dataset) Source() domain.DatasetSource { return d.source }

func (d *Dataset) Location() string { return d.location }

func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// IsSynthetic reports whether the records were generated rather than read
func (d *Dataset) IsSynthetic() bool {
	return d != nil && d.source == domain.SourceSynthetic
}

// view exposes the backing slice to the pure functions of this package,
// none of which write to it.
func (d *Dataset) view() []domain.Record {
	if d == nil {
		return nil
	}
	return d.records
}

func cloneRecords(records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	copy(out, records)
	for i := range out {
		if out[i].Extra != nil {
			out[i].Extra = maps.Clone(out[i].Extra)
		}
	}
	return out
}
