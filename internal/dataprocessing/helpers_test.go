package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytstats/internal/shared/testutil"
	"ytstats/pkg/contracts/domain"
)

// rawTable loads records through the CSV path of the loader
func rawTable(t *testing.T, records ...testutil.SourceRecord) *RawTable {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)
	raw, err := NewLoader(logger).LoadReader(strings.NewReader(testutil.SourceCSV(t, records...)), FormatCSV, "utf-8")
	require.NoError(t, err)
	return raw
}

// cleanRecords loads and cleans records, failing the test on error
func cleanRecords(t *testing.T, records ...testutil.SourceRecord) (*Dataset, CleanReport) {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)
	ds, report, err := NewCleaner(logger).CleanWithReport(rawTable(t, records...))
	require.NoError(t, err)
	return ds, report
}

func youtubers(ds *Dataset) []string {
	out := make([]string, 0, ds.Len())
	for _, c := range ds.Records() {
		out = append(out, c.Youtuber)
	}
	return out
}

func subscribers(ds *Dataset) []int64 {
	out := make([]int64, 0, ds.Len())
	for _, c := range ds.Records() {
		out = append(out, c.Subscribers)
	}
	return out
}

// assertCanonical checks every invariant a cleaned Dataset must satisfy
func assertCanonical(t *testing.T, ds *Dataset) {
	t.Helper()

	seen := make(map[domain.Channel]int)
	for i, c := range ds.Records() {
		assert.Equal(t, i, c.Index, "index of row %d", i)

		key := c
		key.Index = 0
		if prev, dup := seen[key]; dup {
			t.Errorf("rows %d and %d are duplicates", prev, i)
		}
		seen[key] = i

		for _, f := range Fields() {
			if !f.IsNumeric() {
				assert.NotEmpty(t, f.Text(&c), "%s of row %d", f.Name, i)
			}
		}

		assert.True(t, IsSanitizedIdentity(c.Youtuber), "youtuber %q", c.Youtuber)
		assert.True(t, IsSanitizedIdentity(c.Title), "title %q", c.Title)
		assert.NotZero(t, c.VideoViews)
		assert.NotZero(t, c.CreatedYear)
		assert.NotEmpty(t, c.Youtuber)

		if i > 0 {
			assert.GreaterOrEqual(t, ds.At(i-1).Subscribers, c.Subscribers, "order at row %d", i)
		}
	}
}

// isSubsequence reports whether sub appears in ds in order
func isSubsequence(sub, ds *Dataset) bool {
	j := 0
	for i := 0; i < ds.Len() && j < sub.Len(); i++ {
		if ds.At(i) == sub.At(j) {
			j++
		}
	}
	return j == sub.Len()
}

func scenarioDataset() *Dataset {
	return NewDataset(testutil.ScenarioChannels())
}
