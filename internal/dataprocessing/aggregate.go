package dataprocessing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Query contract violations. They signal a caller error, never a data problem.
var (
	ErrUnknownField    = errors.New("unknown field")
	ErrNonNumericField = errors.New("field is not numeric")
	ErrNegativeLimit   = errors.New("limit must not be negative")
	ErrUnknownReducer  = errors.New("unknown reducer")
)

// Reducer folds the values of a group into one number
type Reducer string

const (
	ReducerSum  Reducer = "sum"
	ReducerMean Reducer = "mean"
)

// ParseReducer accepts "sum" or "mean" in any case
func ParseReducer(s string) (Reducer, error) {
	switch r := Reducer(strings.ToLower(strings.TrimSpace(s))); r {
	case ReducerSum, ReducerMean:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReducer, s)
}

// KeySeparator joins the parts of a composite group key
const KeySeparator = " / "

// Group is one partition produced by GroupReduce
type Group struct {
	Key   string   `json:"key"`
	Parts []string `json:"parts,omitempty"`
	Value float64  `json:"value"`
	Count int      `json:"count"`
}

// Groups are reduced partitions in first-encountered order
type Groups []Group

// Map returns the key to value mapping
func (g Groups) Map() map[string]float64 {
	m := make(map[string]float64, len(g))
	for _, grp := range g {
		m[grp.Key] = grp.Value
	}
	return m
}

// Total is the sum of the group values
func (g Groups) Total() float64 {
	var total float64
	for _, grp := range g {
		total += grp.Value
	}
	return total
}

// Share is a group's fraction of the total
type Share struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Share float64 `json:"share"`
}

// Shares returns each group's fraction of Total. Every share is 0 when the
// total is 0.
func (g Groups) Shares() []Share {
	total := g.Total()
	out := make([]Share, len(g))
	for i, grp := range g {
		out[i] = Share{Key: grp.Key, Value: grp.Value}
		if total != 0 {
			out[i].Share = grp.Value / total
		}
	}
	return out
}

func lookup(name string) (Field, error) {
	f, ok := LookupField(name)
	if !ok {
		return Field{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

func lookupNumeric(name string) (Field, error) {
	f, err := lookup(name)
	if err != nil {
		return Field{}, err
	}
	if !f.IsNumeric() {
		return Field{}, fmt.Errorf("%w: %q", ErrNonNumericField, f.Name)
	}
	return f, nil
}

// TopN returns the first min(n, Len) records after a stable descending sort
// on field. Numeric fields sort by value, categorical fields lexically.
func TopN(ds *Dataset, field string, n int) (*Dataset, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLimit, n)
	}
	f, err := lookup(field)
	if err != nil {
		return nil, err
	}

	records := ds.Records()
	if f.IsNumeric() {
		sort.SliceStable(records, func(i, j int) bool {
			return f.Number(&records[i]) > f.Number(&records[j])
		})
	} else {
		sort.SliceStable(records, func(i, j int) bool {
			return f.Text(&records[i]) > f.Text(&records[j])
		})
	}

	if n < len(records) {
		records = records[:n]
	}
	return wrap(records), nil
}

// GroupReduce partitions ds by groupField and reduces valueField per group
func GroupReduce(ds *Dataset, groupField, valueField string, reducer Reducer) (Groups, error) {
	return GroupReduceBy(ds, []string{groupField}, valueField, reducer)
}

// GroupReduceBy is GroupReduce over a composite key. Groups are told apart by
// their parts; the displayed Key joins them with KeySeparator, so two groups
// may share a Key when a part contains the separator. Numeric parts are
// written in plain decimal.
func GroupReduceBy(ds *Dataset, groupFields []string, valueField string, reducer Reducer) (Groups, error) {
	if len(groupFields) == 0 {
		return nil, fmt.Errorf("%w: no group field", ErrUnknownField)
	}
	keys := make([]Field, len(groupFields))
	for i, name := range groupFields {
		f, err := lookup(name)
		if err != nil {
			return nil, err
		}
		keys[i] = f
	}
	value, err := lookupNumeric(valueField)
	if err != nil {
		return nil, err
	}
	if reducer != ReducerSum && reducer != ReducerMean {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReducer, reducer)
	}

	groups := make(Groups, 0)
	position := make(map[string]int)
	parts := make([]string, len(keys))
	for i := 0; i < ds.Len(); i++ {
		rec := &ds.records[i]
		for k, f := range keys {
			parts[k] = f.Text(rec)
		}
		id := strings.Join(parts, "\x00")

		pos, seen := position[id]
		if !seen {
			pos = len(groups)
			position[id] = pos
			grp := Group{Key: strings.Join(parts, KeySeparator)}
			if len(keys) > 1 {
				grp.Parts = append([]string(nil), parts...)
			}
			groups = append(groups, grp)
		}
		groups[pos].Value += value.Number(rec)
		groups[pos].Count++
	}

	if reducer == ReducerMean {
		for i := range groups {
			groups[i].Value /= float64(groups[i].Count)
		}
	}
	return groups, nil
}

// ArgmaxGroup returns the groupField key with the largest sum of valueField.
// Ties go to the key encountered first; ok is false for an empty dataset.
func ArgmaxGroup(ds *Dataset, groupField, valueField string) (key string, ok bool, err error) {
	groups, err := GroupReduce(ds, groupField, valueField, ReducerSum)
	if err != nil {
		return "", false, err
	}
	if len(groups) == 0 {
		return "", false, nil
	}

	best := 0
	for i := 1; i < len(groups); i++ {
		if groups[i].Value > groups[best].Value {
			best = i
		}
	}
	return groups[best].Key, true, nil
}

// UniqueValues returns the distinct values of field in first-encountered order
func UniqueValues(ds *Dataset, field string) ([]string, error) {
	f, err := lookup(field)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := 0; i < ds.Len(); i++ {
		v := f.Text(&ds.records[i])
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// Sum adds valueField over every record
func Sum(ds *Dataset, valueField string) (float64, error) {
	f, err := lookupNumeric(valueField)
	if err != nil {
		return 0, err
	}
	var total float64
	for i := 0; i < ds.Len(); i++ {
		total += f.Number(&ds.records[i])
	}
	return total, nil
}
