package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"ytstats/internal/dataprocessing"
	"ytstats/internal/shared/testutil"
)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSV(t *testing.T) {
	ds := dataprocessing.NewDataset(testutil.ScenarioChannels())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds))
	assert.False(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 4) // header + 3 records

	assert.Len(t, records[0], 27)
	assert.Equal(t, "Youtuber", records[0][0])
	assert.Equal(t, "Video Views", records[0][2])
	assert.Equal(t, []string{"Alpha", "100", "1000", "Music", "Alpha"}, records[1][:5])
	assert.Equal(t, "Beta", records[3][0])
}

func TestWriteCSVWithOptions_BOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSVWithOptions(&buf, dataprocessing.NewDataset(nil), WriteOptions{BOMPrefix: true}))

	content := buf.Bytes()
	assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
	assert.Len(t, lines, 1) // only headers
	assert.True(t, strings.HasPrefix(lines[0], "Youtuber,Subscribers,Video Views"))
}

func TestWriteSourceCSV(t *testing.T) {
	channels := testutil.ScenarioChannels()
	channels[1].Country = "Côte d'Ivoire"
	channels[2].Country = "日本"
	ds := dataprocessing.NewDataset(channels)

	var buf bytes.Buffer
	require.NoError(t, WriteSourceCSV(&buf, ds))

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(buf.Bytes())
	require.NoError(t, err)
	records := readCSV(t, decoded)
	require.Len(t, records, 4)

	header := records[0]
	assert.Equal(t, "rank", header[0])
	assert.Equal(t, "youtuber", header[1])
	assert.Equal(t, "video_views", header[3])
	assert.Equal(t, "gross_tertiary_education_enrollment", header[22])

	assert.Equal(t, []string{"1", "2", "3"}, []string{records[1][0], records[2][0], records[3][0]})
	assert.Equal(t, "Côte d'Ivoire", records[2][7])
	assert.NotEqual(t, "日本", records[3][7], "characters outside latin-1 are replaced")
	assert.Contains(t, buf.String(), "C\xf4te")
}

func TestWriteSourceCSV_RanksInOutputOrder(t *testing.T) {
	ds := dataprocessing.NewDataset(testutil.ScenarioChannels()[1:])

	var buf bytes.Buffer
	require.NoError(t, WriteSourceCSV(&buf, ds))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 3)
	assert.Equal(t, []string{"1", "Gamma"}, records[1][:2])
	assert.Equal(t, []string{"2", "Beta"}, records[2][:2])
}

func TestWriteGroupsCSV(t *testing.T) {
	groups := dataprocessing.Groups{
		{Key: "Music", Value: 170, Count: 2},
		{Key: "US / Gaming", Value: 12.5, Count: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGroupsCSV(&buf, groups))

	assert.Equal(t, [][]string{
		{"key", "value", "count"},
		{"Music", "170", "2"},
		{"US / Gaming", "12.5", "1"},
	}, readCSV(t, buf.Bytes()))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_PropagatesWriterErrors(t *testing.T) {
	ds := dataprocessing.NewDataset(testutil.ScenarioChannels())

	assert.Error(t, WriteCSV(failingWriter{}, ds))
	assert.Error(t, WriteCSVWithOptions(failingWriter{}, ds, WriteOptions{BOMPrefix: true}))
	assert.Error(t, WriteSourceCSV(failingWriter{}, ds))
	assert.Error(t, WriteXLSX(failingWriter{}, ds))
}

func TestStreamWriter(t *testing.T) {
	var buf bytes.Buffer
	sw, err := NewStreamWriter(&buf, []string{"Name", "Age"}, false)
	require.NoError(t, err)

	require.NoError(t, sw.WriteRecord([]string{"John", "25"}))
	require.NoError(t, sw.WriteRecord([]string{"Doe, Jane", "30"}))
	require.NoError(t, sw.Close())

	assert.Equal(t, "Name,Age\nJohn,25\n\"Doe, Jane\",30\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.csv")

	err := WriteFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "a,b\n")
		return err
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(content))

	boom := errors.New("boom")
	err = WriteFile(filepath.Join(t.TempDir(), "x.csv"), func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
}
