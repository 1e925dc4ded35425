package dataprocessing

import (
	"strconv"
	"strings"

	"ytstats/pkg/contracts/domain"
)

// Dimension is a column the dataset can be filtered on
type Dimension string

const (
	DimensionCountry     Dimension = FieldCountry
	DimensionCategory    Dimension = FieldCategory
	DimensionCreatedYear Dimension = FieldCreatedYear
)

// Dimensions returns the filterable dimensions
func Dimensions() []Dimension {
	return []Dimension{DimensionCountry, DimensionCategory, DimensionCreatedYear}
}

// ParseDimension resolves a dimension from a column name in any spelling
// accepted by LookupField; "year" is accepted for Created Year.
func ParseDimension(s string) (Dimension, bool) {
	name := NormalizeHeader(strings.TrimSpace(s))
	if name == "Year" {
		return DimensionCreatedYear, true
	}
	for _, d := range Dimensions() {
		if string(d) == name {
			return d, true
		}
	}
	return "", false
}

// value returns the string a selection value is compared against
func (d Dimension) value(c *domain.Channel) (string, bool) {
	switch d {
	case DimensionCountry:
		return c.Country, true
	case DimensionCategory:
		return c.Category, true
	case DimensionCreatedYear:
		return strconv.FormatInt(c.CreatedYear, 10), true
	default:
		return "", false
	}
}

// Selections maps a dimension to its accepted values. A missing or empty
// entry leaves the dimension unrestricted; values of one dimension are
// alternatives, dimensions are combined with AND.
type Selections map[Dimension][]string

// IsEmpty reports whether no dimension is restricted
func (s Selections) IsEmpty() bool {
	for _, values := range s {
		if len(values) > 0 {
			return false
		}
	}
	return true
}

// matchNothing is never a filterable dimension, so a selection on it
// excludes every record
const matchNothing Dimension = "\x00"

// Merge combines two selections as if applied one after the other. A
// dimension restricted on both sides keeps only the shared values; ok is
// false when such an intersection is empty, and merged then matches no
// record.
func (s Selections) Merge(other Selections) (merged Selections, ok bool) {
	merged = make(Selections, len(s)+len(other))
	for d, values := range s {
		if len(values) > 0 {
			merged[d] = append([]string(nil), values...)
		}
	}

	ok = true
	for d, values := range other {
		if len(values) == 0 {
			continue
		}
		existing, restricted := merged[d]
		if !restricted {
			merged[d] = append([]string(nil), values...)
			continue
		}
		var shared []string
		for _, v := range existing {
			if containsString(values, v) {
				shared = append(shared, v)
			}
		}
		if len(shared) == 0 {
			ok = false
			delete(merged, d)
			merged[matchNothing] = []string{string(d)}
			continue
		}
		merged[d] = shared
	}
	return merged, ok
}

// Filter returns the records of ds that satisfy every restricted dimension,
// in their original order and with their original Index. Values are matched
// exactly; a value or dimension that does not occur matches nothing.
func Filter(ds *Dataset, sel Selections) *Dataset {
	if sel.IsEmpty() {
		return NewDataset(ds.Records())
	}

	type criterion struct {
		dim    Dimension
		values map[string]struct{}
	}
	criteria := make([]criterion, 0, len(sel))
	for d, values := range sel {
		if len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		criteria = append(criteria, criterion{dim: d, values: set})
	}

	out := make([]domain.Channel, 0)
	for i := 0; i < ds.Len(); i++ {
		rec := &ds.records[i]
		matched := true
		for _, cr := range criteria {
			v, known := cr.dim.value(rec)
			if !known {
				matched = false
				break
			}
			if _, ok := cr.values[v]; !ok {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, *rec)
		}
	}
	return wrap(out)
}
