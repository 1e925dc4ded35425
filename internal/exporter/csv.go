package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"ytstats/internal/dataprocessing"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes ds under the cleaned column names, without a BOM
func WriteCSV(w io.Writer, ds *dataprocessing.Dataset) error {
	return WriteCSVWithOptions(w, ds, WriteOptions{})
}

// WriteCSVWithOptions writes ds under the cleaned column names
func WriteCSVWithOptions(w io.Writer, ds *dataprocessing.Dataset, options WriteOptions) error {
	fields := dataprocessing.Fields()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}

	sw, err := NewStreamWriter(w, header, options.BOMPrefix)
	if err != nil {
		return err
	}

	record := make([]string, len(fields))
	for n, c := range ds.Records() {
		for i, f := range fields {
			record[i] = f.Text(&c)
		}
		if err := sw.WriteRecord(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", n, err)
		}
	}

	if err := sw.Close(); err != nil {
		return err
	}
	slog.Debug("csv export written", slog.Int("record_count", ds.Len()))
	return nil
}

// WriteSourceCSV writes ds in the layout of the published statistics file:
// a leading rank column numbered from 1 in output order, underscore headers and ISO-8859-1
// text. Characters outside Latin-1 are replaced. The output loads back
// through dataprocessing.Load with the "latin-1" encoding.
func WriteSourceCSV(w io.Writer, ds *dataprocessing.Dataset) error {
	fields := dataprocessing.Fields()
	header := make([]string, 0, len(fields)+1)
	header = append(header, "rank")
	for _, f := range fields {
		header = append(header, f.SourceHeader())
	}

	enc := transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()))

	sw, err := NewStreamWriter(enc, header, false)
	if err != nil {
		return err
	}

	record := make([]string, len(header))
	for n, c := range ds.Records() {
		record[0] = formatInt(int64(n) + 1)
		for i, f := range fields {
			record[i+1] = f.Text(&c)
		}
		if err := sw.WriteRecord(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", n, err)
		}
	}

	if err := sw.Close(); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode latin-1: %w", err)
	}
	slog.Debug("source csv export written", slog.Int("record_count", ds.Len()))
	return nil
}

// WriteGroupsCSV writes reduced groups as key,value,count rows
func WriteGroupsCSV(w io.Writer, groups dataprocessing.Groups) error {
	sw, err := NewStreamWriter(w, []string{"key", "value", "count"}, false)
	if err != nil {
		return err
	}
	for n, g := range groups {
		if err := sw.WriteRecord([]string{g.Key, formatFloat(g.Value), formatInt(int64(g.Count))}); err != nil {
			return fmt.Errorf("failed to write group %d: %w", n, err)
		}
	}
	return sw.Close()
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	writer *csv.Writer
}

// NewStreamWriter writes the optional BOM and the header, then returns a
// writer for the records
func NewStreamWriter(w io.Writer, header []string, bom bool) (*StreamWriter, error) {
	if bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(header) > 0 {
		if err := writer.Write(header); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes buffered records. It does not close the underlying writer.
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	return s.writer.Error()
}

// WriteFile creates path, including missing directories, and fills it with write
func WriteFile(path string, write func(io.Writer) error) error {
	slog.Info("Writing export file", slog.String("file_path", path))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
