package dataprocessing

import (
	"ytstats/pkg/contracts/domain"
)

// Dataset is an immutable, ordered collection of cleaned channels. Queries
// never modify a Dataset; they return new ones. The zero value and nil are
// both empty datasets.
type Dataset struct {
	records []domain.Channel
}

// NewDataset copies records into a Dataset, keeping their order and Index
func NewDataset(records []domain.Channel) *Dataset {
	out := make([]domain.Channel, len(records))
	copy(out, records)
	return &Dataset{records: out}
}

// wrap takes ownership of records without copying
func wrap(records []domain.Channel) *Dataset {
	return &Dataset{records: records}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns a copy of the i-th record
func (d *Dataset) At(i int) domain.Channel {
	return d.records[i]
}

// Records returns a copy of the records in order
func (d *Dataset) Records() []domain.Channel {
	if d == nil {
		return []domain.Channel{}
	}
	out := make([]domain.Channel, len(d.records))
	copy(out, d.records)
	return out
}

// Page returns up to limit records starting at offset. A non-positive limit
// means "to the end".
func (d *Dataset) Page(offset, limit int) *Dataset {
	n := d.Len()
	if offset < 0 {
		offset = 0
	}
	if offset >= n {
		return wrap([]domain.Channel{})
	}
	end := n
	if limit > 0 && limit < n-offset {
		end = offset + limit
	}
	return NewDataset(d.records[offset:end])
}

// Equal reports whether both datasets hold the same records in the same order
func (d *Dataset) Equal(other *Dataset) bool {
	if d.Len() != other.Len() {
		return false
	}
	for i := 0; i < d.Len(); i++ {
		if d.records[i] != other.records[i] {
			return false
		}
	}
	return true
}
