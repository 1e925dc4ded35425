package dataprocessing_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"ytstats/internal/dataprocessing"
	"ytstats/internal/exporter"
	"ytstats/internal/shared/testutil"
	"ytstats/pkg/contracts/domain"
)

// reclean writes ds in the published file layout and runs it through the
// loader and cleaner again
func reclean(t *testing.T, ds *dataprocessing.Dataset) *dataprocessing.Dataset {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteSourceCSV(&buf, ds))

	path := filepath.Join(t.TempDir(), "reexported.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	raw, err := dataprocessing.Load(path, dataprocessing.DefaultEncoding)
	require.NoError(t, err)
	again, err := dataprocessing.Clean(raw)
	require.NoError(t, err)
	return again
}

func TestClean_Idempotent(t *testing.T) {
	tests := []struct {
		name    string
		records []testutil.SourceRecord
	}{
		{
			name: "messy source",
			records: []testutil.SourceRecord{
				testutil.NewSourceRecord("Mr. X!! <script>").With("subscribers", "300.7").With("Country", "Côte d'Ivoire"),
				testutil.NewSourceRecord("").With("subscribers", "200").With("category", "nan"),
				testutil.NewSourceRecord("B").With("Title", "N/A").With("subscribers", "100"),
				testutil.NewSourceRecord("B").With("Title", "N/A").With("subscribers", "100"),
				testutil.NewSourceRecord("C").With("video views", "0"),
				testutil.NewSourceRecord("D").With("uploads", "abc").With("Latitude", "-33.8688"),
				testutil.NewSourceRecord("E").With("created_year", "2009.9").With("Unemployment rate", ""),
			},
		},
		{
			name: "ties and zeros",
			records: []testutil.SourceRecord{
				testutil.NewSourceRecord("A").With("subscribers", "10"),
				testutil.NewSourceRecord("B").With("subscribers", "10"),
				testutil.NewSourceRecord("Z").With("subscribers", "0").With("Population", "0"),
			},
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteLatin1File(t, t.TempDir(), "source.csv", testutil.SourceCSV(t, tt.records...))
			raw, err := dataprocessing.Load(path, dataprocessing.DefaultEncoding)
			require.NoError(t, err)
			first, err := dataprocessing.Clean(raw)
			require.NoError(t, err)

			second := reclean(t, first)

			if diff := cmp.Diff(first.Records(), second.Records()); diff != "" {
				t.Errorf("cleaning a cleaned dataset changed it (-first +second):\n%s", diff)
			}
		})
	}
}

func TestClean_SampleDatasetIsFixedPoint(t *testing.T) {
	ds := dataprocessing.NewDataset(testutil.SampleChannels())
	again := reclean(t, ds)

	if diff := cmp.Diff(ds.Records(), again.Records()); diff != "" {
		t.Errorf("canonical dataset changed by cleaning (-want +got):\n%s", diff)
	}
}

func TestFilter_ResultsStayCanonical(t *testing.T) {
	ds := dataprocessing.NewDataset(testutil.SampleChannels())
	india := dataprocessing.Filter(ds, dataprocessing.Selections{
		dataprocessing.DimensionCountry: {"India"},
	})

	require.Equal(t, 4, india.Len())
	for i := 1; i < india.Len(); i++ {
		require.GreaterOrEqual(t, india.At(i-1).Subscribers, india.At(i).Subscribers)
	}

	var want []domain.Channel
	for _, c := range ds.Records() {
		if c.Country == "India" {
			want = append(want, c)
		}
	}
	if diff := cmp.Diff(want, india.Records()); diff != "" {
		t.Errorf("filter result mismatch (-want +got):\n%s", diff)
	}
}
