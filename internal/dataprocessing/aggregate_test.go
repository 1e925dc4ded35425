package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytstats/internal/shared/testutil"
	"ytstats/pkg/contracts/domain"
)

func TestTopN(t *testing.T) {
	tests := []struct {
		name  string
		field string
		n     int
		want  []string
	}{
		{name: "top two by subscribers", field: FieldSubscribers, n: 2, want: []string{"Alpha", "Gamma"}},
		{name: "zero", field: FieldSubscribers, n: 0, want: []string{}},
		{name: "more than available", field: FieldSubscribers, n: 10, want: []string{"Alpha", "Gamma", "Beta"}},
		{name: "by views", field: FieldVideoViews, n: 3, want: []string{"Gamma", "Beta", "Alpha"}},
		{name: "field in source spelling", field: "video_views", n: 1, want: []string{"Gamma"}},
		{name: "ties keep dataset order", field: FieldCategory, n: 3, want: []string{"Alpha", "Gamma", "Beta"}},
		{name: "categorical descending", field: FieldYoutuber, n: 3, want: []string{"Gamma", "Beta", "Alpha"}},
		{name: "year ties", field: FieldCreatedYear, n: 3, want: []string{"Gamma", "Alpha", "Beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := scenarioDataset()
			got, err := TopN(ds, tt.field, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, youtubers(got))
			assert.True(t, ds.Equal(scenarioDataset()), "input unchanged")
		})
	}
}

func TestTopN_Subscribers(t *testing.T) {
	got, err := TopN(scenarioDataset(), FieldSubscribers, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 70}, subscribers(got))
}

func TestTopN_Errors(t *testing.T) {
	_, err := TopN(scenarioDataset(), FieldSubscribers, -1)
	assert.ErrorIs(t, err, ErrNegativeLimit)

	_, err = TopN(scenarioDataset(), "Likes", 1)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestTopN_TiedSubscribers(t *testing.T) {
	ds := NewDataset(testutil.SampleChannels())
	got, err := TopN(ds, FieldSubscribers, ds.Len())
	require.NoError(t, err)

	names := youtubers(got)
	assert.Equal(t, []string{"WWE", "Goldmines"}, names[len(names)-2:])
	assert.True(t, got.Equal(ds))
}

func TestGroupReduce(t *testing.T) {
	tests := []struct {
		name    string
		group   string
		value   string
		reducer Reducer
		want    Groups
	}{
		{
			name: "sum by category", group: FieldCategory, value: FieldSubscribers, reducer: ReducerSum,
			want: Groups{{Key: "Music", Value: 170, Count: 2}, {Key: "Gaming", Value: 50, Count: 1}},
		},
		{
			name: "mean by country", group: FieldCountry, value: FieldSubscribers, reducer: ReducerMean,
			want: Groups{{Key: "US", Value: 75, Count: 2}, {Key: "IN", Value: 70, Count: 1}},
		},
		{
			name: "year keys", group: FieldCreatedYear, value: FieldVideoViews, reducer: ReducerSum,
			want: Groups{{Key: "2010", Value: 3000, Count: 2}, {Key: "2012", Value: 3000, Count: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GroupReduce(scenarioDataset(), tt.group, tt.value, tt.reducer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroupReduce_Conservation(t *testing.T) {
	ds := NewDataset(testutil.SampleChannels())
	total, err := Sum(ds, FieldSubscribers)
	require.NoError(t, err)

	for _, field := range []string{FieldCountry, FieldCategory, FieldCreatedYear, FieldYoutuber} {
		groups, err := GroupReduce(ds, field, FieldSubscribers, ReducerSum)
		require.NoError(t, err)
		assert.Equal(t, total, groups.Total(), field)

		count := 0
		for _, g := range groups {
			count += g.Count
		}
		assert.Equal(t, ds.Len(), count, field)
	}
}

func TestGroupReduce_Empty(t *testing.T) {
	got, err := GroupReduce(NewDataset(nil), FieldCategory, FieldSubscribers, ReducerMean)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, got.Map())
}

func TestGroupReduce_Errors(t *testing.T) {
	ds := scenarioDataset()

	_, err := GroupReduce(ds, "Likes", FieldSubscribers, ReducerSum)
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = GroupReduce(ds, FieldCategory, "Likes", ReducerSum)
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = GroupReduce(ds, FieldCategory, FieldCountry, ReducerSum)
	assert.ErrorIs(t, err, ErrNonNumericField)

	_, err = GroupReduce(ds, FieldCategory, FieldSubscribers, Reducer("median"))
	assert.ErrorIs(t, err, ErrUnknownReducer)

	_, err = GroupReduceBy(ds, nil, FieldSubscribers, ReducerSum)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestGroupReduceBy(t *testing.T) {
	got, err := GroupReduceBy(scenarioDataset(), []string{FieldCountry, FieldCategory}, FieldSubscribers, ReducerSum)
	require.NoError(t, err)

	assert.Equal(t, Groups{
		{Key: "US / Music", Parts: []string{"US", "Music"}, Value: 100, Count: 1},
		{Key: "IN / Music", Parts: []string{"IN", "Music"}, Value: 70, Count: 1},
		{Key: "US / Gaming", Parts: []string{"US", "Gaming"}, Value: 50, Count: 1},
	}, got)
}

func TestGroupReduceBy_SeparatorInValues(t *testing.T) {
	ds := NewDataset([]domain.Channel{
		{Country: "US / Music", Category: "Live", Subscribers: 10, VideoViews: 1, CreatedYear: 2010},
		{Country: "US", Category: "Music / Live", Subscribers: 20, VideoViews: 1, CreatedYear: 2010},
	})

	got, err := GroupReduceBy(ds, []string{FieldCountry, FieldCategory}, FieldSubscribers, ReducerSum)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"US / Music", "Live"}, got[0].Parts)
	assert.Equal(t, 10.0, got[0].Value)
	assert.Equal(t, []string{"US", "Music / Live"}, got[1].Parts)
	assert.Equal(t, 20.0, got[1].Value)
}

func TestGroups_Shares(t *testing.T) {
	groups := Groups{{Key: "a", Value: 30}, {Key: "b", Value: 10}}
	assert.Equal(t, []Share{
		{Key: "a", Value: 30, Share: 0.75},
		{Key: "b", Value: 10, Share: 0.25},
	}, groups.Shares())
	assert.Equal(t, map[string]float64{"a": 30, "b": 10}, groups.Map())

	zero := Groups{{Key: "a"}, {Key: "b"}}
	for _, s := range zero.Shares() {
		assert.Zero(t, s.Share)
	}
}

func TestArgmaxGroup(t *testing.T) {
	key, ok, err := ArgmaxGroup(scenarioDataset(), FieldCategory, FieldSubscribers)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Music", key)

	key, ok, err = ArgmaxGroup(NewDataset(nil), FieldCategory, FieldSubscribers)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, key)

	_, _, err = ArgmaxGroup(scenarioDataset(), FieldCategory, FieldTitle)
	assert.ErrorIs(t, err, ErrNonNumericField)
}

func TestArgmaxGroup_TieGoesToFirstKey(t *testing.T) {
	ds := NewDataset([]domain.Channel{
		{Youtuber: "A", Category: "Sports", Subscribers: 40},
		{Youtuber: "B", Category: "Music", Subscribers: 60},
		{Youtuber: "C", Category: "Sports", Subscribers: 20},
	})

	key, ok, err := ArgmaxGroup(ds, FieldCategory, FieldSubscribers)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sports", key)
}

func TestUniqueValues(t *testing.T) {
	ds := scenarioDataset()

	got, err := UniqueValues(ds, FieldCountry)
	require.NoError(t, err)
	assert.Equal(t, []string{"US", "IN"}, got)

	got, err = UniqueValues(ds, "created_year")
	require.NoError(t, err)
	assert.Equal(t, []string{"2010", "2012"}, got)

	got, err = UniqueValues(NewDataset(nil), FieldCountry)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = UniqueValues(ds, "Likes")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSum(t *testing.T) {
	total, err := Sum(scenarioDataset(), FieldVideoViews)
	require.NoError(t, err)
	assert.Equal(t, 6000.0, total)

	_, err = Sum(scenarioDataset(), FieldCountry)
	assert.ErrorIs(t, err, ErrNonNumericField)
}

func TestParseReducer(t *testing.T) {
	r, err := ParseReducer(" Mean ")
	require.NoError(t, err)
	assert.Equal(t, ReducerMean, r)

	r, err = ParseReducer("sum")
	require.NoError(t, err)
	assert.Equal(t, ReducerSum, r)

	_, err = ParseReducer("max")
	assert.ErrorIs(t, err, ErrUnknownReducer)
}
