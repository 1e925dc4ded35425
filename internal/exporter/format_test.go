package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ytstats/internal/dataprocessing"
	"ytstats/internal/shared/testutil"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero value", input: 0.0, expected: "0"},
		{name: "positive integer", input: 123.0, expected: "123"},
		{name: "negative integer", input: -456.0, expected: "-456"},
		{name: "decimal", input: 20.593684, expected: "20.593684"},
		{name: "very small number", input: 0.000001, expected: "0.000001"},
		{name: "large count", input: 228000000000, expected: "228000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "csv", want: FormatCSV},
		{in: " XLSX ", want: FormatXLSX},
		{in: "Source", want: FormatSource},
		{in: "json", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_ContentTypeAndExtension(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
	assert.Equal(t, "text/csv; charset=iso-8859-1", FormatSource.ContentType())
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")

	assert.Equal(t, "csv", FormatCSV.Extension())
	assert.Equal(t, "csv", FormatSource.Extension())
	assert.Equal(t, "xlsx", FormatXLSX.Extension())
}

func TestWrite(t *testing.T) {
	ds := dataprocessing.NewDataset(testutil.ScenarioChannels())

	for _, f := range []Format{FormatCSV, FormatXLSX, FormatSource} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, ds, f), f)
		assert.NotZero(t, buf.Len(), f)
	}

	assert.Error(t, Write(&bytes.Buffer{}, ds, Format("pdf")))
}

func TestWriteXLSX(t *testing.T) {
	ds := dataprocessing.NewDataset(testutil.ScenarioChannels())

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, ds))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{SheetName}, wb.GetSheetList())

	rows, err := wb.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Youtuber", rows[0][0])
	assert.Equal(t, "Longitude", rows[0][26])
	assert.Equal(t, []string{"Alpha", "Gamma", "Beta"}, []string{rows[1][0], rows[2][0], rows[3][0]})
	assert.Equal(t, "100", rows[1][1])

	typ, err := wb.GetCellType(SheetName, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
}
