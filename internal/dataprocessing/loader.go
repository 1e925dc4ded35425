package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	apperrors "ytstats/internal/errors"
	"ytstats/internal/files"
	"ytstats/internal/validation"
)

// Format is the container format of a source
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DefaultEncoding is the text encoding of the published statistics file
const DefaultEncoding = "latin-1"

// RawTable is a loaded source with normalized headers and the ordinal rank
// column removed. Every row has exactly len(Header) cells.
type RawTable struct {
	Source string
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of a normalized header, or -1
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Loader reads the statistics source into a RawTable
type Loader struct {
	logger    *slog.Logger
	validator *validation.FileValidator
	discovery *files.Discovery
}

// NewLoader creates a loader. A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "loader"))
	return &Loader{
		logger:    logger,
		validator: validation.NewFileValidator(logger),
		discovery: files.NewDiscovery(""),
	}
}

// Load is NewLoader(nil).Load
func Load(sourcePath, encoding string) (*RawTable, error) {
	return NewLoader(nil).Load(sourcePath, encoding)
}

// Load opens sourcePath (a file, or a directory holding the source), decodes
// it with encoding and parses it as delimited text or as an .xlsx workbook.
// Every failure is an ingest error.
func (l *Loader) Load(sourcePath, encoding string) (*RawTable, error) {
	resolved, err := l.discovery.ResolveSource(sourcePath)
	if err != nil {
		return nil, apperrors.NewIngestError(sourcePath, "cannot locate source", err)
	}

	ext, err := l.validator.ValidateSourceFile(resolved)
	if err != nil {
		return nil, apperrors.NewIngestError(resolved, "cannot open source", err)
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, apperrors.NewIngestError(resolved, "cannot open source", err)
	}
	defer f.Close()

	format := FormatCSV
	if ext == validation.ExtXLSX {
		format = FormatXLSX
	}

	table, err := l.LoadReader(f, format, encoding)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			appErr.WithContext("source", resolved)
		}
		return nil, err
	}
	table.Source = resolved

	l.logger.Info("source loaded",
		slog.String("source", resolved),
		slog.String("format", string(format)),
		slog.Int("columns", len(table.Header)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

// LoadReader parses a source stream. The encoding is ignored for workbooks.
func (l *Loader) LoadReader(r io.Reader, format Format, encoding string) (*RawTable, error) {
	var (
		records [][]string
		err     error
	)

	switch format {
	case FormatCSV, "":
		records, err = l.readDelimited(r, encoding)
	case FormatXLSX:
		records, err = l.readWorkbook(r)
	default:
		return nil, apperrors.NewIngestError("", fmt.Sprintf("unsupported source format %q", format), nil)
	}
	if err != nil {
		return nil, err
	}

	return buildRawTable(records)
}

func (l *Loader) readDelimited(r io.Reader, encoding string) ([][]string, error) {
	data, err := decode(r, encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewIngestError("", "source is not delimited tabular data", err)
	}

	l.logger.Debug("delimited source decoded",
		slog.String("encoding", encoding),
		slog.Int("bytes", len(data)),
		slog.Int("records", len(records)))

	return records, nil
}

func (l *Loader) readWorkbook(r io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewIngestError("", "source is not a readable workbook", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewIngestError("", "workbook has no sheets", nil)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewIngestError("", fmt.Sprintf("cannot read sheet %q", sheets[0]), err)
	}

	l.logger.Debug("workbook source read",
		slog.String("sheet", sheets[0]),
		slog.Int("records", len(rows)))

	return rows, nil
}

// decode converts the whole stream to UTF-8
func decode(r io.Reader, encoding string) ([]byte, error) {
	label := strings.ToLower(strings.TrimSpace(encoding))
	if label == "" {
		label = DefaultEncoding
	}

	switch label {
	case "utf-8", "utf8":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, apperrors.NewIngestError("", "cannot read source", err)
		}
		if !utf8.Valid(data) {
			return nil, apperrors.NewIngestError("", "source is not valid utf-8", nil)
		}
		return bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), nil

	case "latin-1", "latin1", "iso-8859-1", "iso8859-1", "l1":
		// htmlindex maps these labels to windows-1252; keep true ISO-8859-1
		return readTransformed(r, charmap.ISO8859_1.NewDecoder())
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, apperrors.NewIngestError("", fmt.Sprintf("unknown text encoding %q", encoding), err)
	}
	return readTransformed(r, enc.NewDecoder())
}

func readTransformed(r io.Reader, t transform.Transformer) ([]byte, error) {
	data, err := io.ReadAll(transform.NewReader(r, t))
	if err != nil {
		return nil, apperrors.NewIngestError("", "cannot decode source", err)
	}
	return data, nil
}

// buildRawTable normalizes the header, drops the rank column and pads short rows
func buildRawTable(records [][]string) (*RawTable, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, apperrors.NewIngestError("", "source has no header row", nil)
	}

	rankCol := -1
	header := make([]string, 0, len(records[0]))
	for i, h := range records[0] {
		name := NormalizeHeader(h)
		if name == RankColumn && rankCol < 0 {
			rankCol = i
			continue
		}
		header = append(header, name)
	}

	width := len(records[0])
	rows := make([][]string, 0, len(records)-1)
	for n, rec := range records[1:] {
		if len(rec) > width {
			return nil, apperrors.NewIngestError("",
				fmt.Sprintf("row %d has %d fields, header has %d", n+2, len(rec), width), nil)
		}

		row := make([]string, 0, len(header))
		for i := 0; i < width; i++ {
			if i == rankCol {
				continue
			}
			if i < len(rec) {
				row = append(row, rec[i])
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	return &RawTable{Header: header, Rows: rows}, nil
}
