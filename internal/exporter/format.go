package exporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"ytstats/internal/dataprocessing"
)

// Format is an export file format
type Format string

const (
	// FormatCSV writes cleaned column names, UTF-8
	FormatCSV Format = "csv"
	// FormatXLSX writes a single-sheet workbook
	FormatXLSX Format = "xlsx"
	// FormatSource writes the published file layout, Latin-1, with a rank column
	FormatSource Format = "source"
)

// ParseFormat accepts csv, xlsx or source in any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatSource:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatSource:
		return "text/csv; charset=iso-8859-1"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension is the file extension for the format, without the dot
func (f Format) Extension() string {
	if f == FormatXLSX {
		return "xlsx"
	}
	return "csv"
}

// Write exports ds to w in the given format
func Write(w io.Writer, ds *dataprocessing.Dataset, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, ds)
	case FormatXLSX:
		return WriteXLSX(w, ds)
	case FormatSource:
		return WriteSourceCSV(w, ds)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// formatFloat writes the shortest decimal that parses back to f
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
