package dataprocessing

import (
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "ytstats/internal/errors"
	"ytstats/pkg/contracts/domain"
)

// CleanReport accounts for every row and cell the cleaner touched
type CleanReport struct {
	Source              string         `json:"source,omitempty"`
	RowsIn              int            `json:"rows_in"`
	DuplicatesRemoved   int            `json:"duplicates_removed"`
	FilledCells         map[string]int `json:"filled_cells"`
	DroppedZeroViews    int            `json:"dropped_zero_views"`
	DroppedEmptyName    int            `json:"dropped_empty_name"`
	DroppedZeroYear     int            `json:"dropped_zero_year"`
	CollapsedDuplicates int            `json:"collapsed_duplicates"`
	RowsOut             int            `json:"rows_out"`
}

// Dropped is the number of rows removed by the validity rules
func (r CleanReport) Dropped() int {
	return r.DroppedZeroViews + r.DroppedEmptyName + r.DroppedZeroYear
}

// cell is a parsed source value; null marks a missing one
type cell struct {
	text string
	num  float64
	null bool
}

type row []cell

// key is the identity of a row for duplicate detection
func (r row) key() string {
	var b strings.Builder
	for i, c := range r {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		switch {
		case c.null:
			b.WriteString("\x00")
		case schema[i].IsNumeric() && c.num == 0:
			b.WriteString("0") // -0 and 0 are one value
		case schema[i].IsNumeric():
			b.WriteString(strconv.FormatFloat(c.num, 'g', -1, 64))
		default:
			b.WriteString(c.text)
		}
	}
	return b.String()
}

// Cleaner turns a RawTable into a Dataset
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner. A nil logger falls back to slog.Default().
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger.With(slog.String("component", "cleaner"))}
}

// Clean is NewCleaner(nil).Clean
func Clean(raw *RawTable) (*Dataset, error) {
	return NewCleaner(nil).Clean(raw)
}

// Clean runs the cleaning pipeline and discards the report
func (c *Cleaner) Clean(raw *RawTable) (*Dataset, error) {
	ds, _, err := c.CleanWithReport(raw)
	return ds, err
}

// CleanWithReport validates raw against the schema and runs, in order:
// duplicate removal, null substitution, identity sanitization, validity
// filtering, whole-number truncation and the subscriber ordering. A missing
// column is a schema error; nothing else fails.
func (c *Cleaner) CleanWithReport(raw *RawTable) (*Dataset, CleanReport, error) {
	start := time.Now()
	report := CleanReport{FilledCells: make(map[string]int)}
	if raw == nil {
		raw = &RawTable{}
	}
	report.Source = raw.Source
	report.RowsIn = len(raw.Rows)

	columns, err := bindColumns(raw.Header)
	if err != nil {
		c.logger.Error("source does not match schema",
			slog.String("source", raw.Source),
			slog.String("error", err.Error()))
		return nil, report, err
	}

	rows := parseRows(raw, columns)

	rows, report.DuplicatesRemoved = dedupe(rows)

	fillNulls(rows, report.FilledCells)

	sanitizeIdentities(rows)

	rows = c.dropInvalid(rows, &report)

	truncateWhole(rows)
	rows, report.CollapsedDuplicates = dedupe(rows)

	records := toChannels(rows)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Subscribers > records[j].Subscribers
	})
	for i := range records {
		records[i].Index = i
	}
	report.RowsOut = len(records)

	c.logger.Info("dataset cleaned",
		slog.String("source", raw.Source),
		slog.Int("rows_in", report.RowsIn),
		slog.Int("duplicates_removed", report.DuplicatesRemoved+report.CollapsedDuplicates),
		slog.Int("rows_dropped", report.Dropped()),
		slog.Int("rows_out", report.RowsOut),
		slog.Duration("duration", time.Since(start)))

	return wrap(records), report, nil
}

// bindColumns maps each schema field to its RawTable column
func bindColumns(header []string) ([]int, error) {
	columns := make([]int, len(schema))
	var missing []string

	for i, f := range schema {
		columns[i] = -1
		for pos, h := range header {
			if h == f.Name || containsString(f.Aliases, h) {
				columns[i] = pos
				break
			}
		}
		if columns[i] < 0 {
			missing = append(missing, f.Name)
		}
	}

	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(missing)
	}
	return columns, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// parseRows reads every cell according to its field kind. Numbers that do
// not parse, or parse to NaN or an infinity, are treated as missing.
func parseRows(raw *RawTable, columns []int) []row {
	rows := make([]row, 0, len(raw.Rows))
	for _, src := range raw.Rows {
		r := make(row, len(schema))
		for i, f := range schema {
			text := src[columns[i]]
			if IsMissing(text) {
				r[i] = cell{null: true}
				continue
			}
			if !f.IsNumeric() {
				r[i] = cell{text: text}
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				r[i] = cell{null: true}
				continue
			}
			r[i] = cell{num: v}
		}
		rows = append(rows, r)
	}
	return rows
}

// dedupe keeps the first occurrence of every distinct row
func dedupe(rows []row) ([]row, int) {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0]
	for _, r := range rows {
		k := r.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out, len(rows) - len(out)
}

func fillNulls(rows []row, filled map[string]int) {
	for _, r := range rows {
		for i, f := range schema {
			if !r[i].null {
				continue
			}
			if f.IsNumeric() {
				r[i] = cell{num: 0}
			} else {
				r[i] = cell{text: domain.UnknownCategory}
			}
			filled[f.Name]++
		}
	}
}

var (
	youtuberCol = fieldIndex[FieldYoutuber]
	titleCol    = fieldIndex[FieldTitle]
	viewsCol    = fieldIndex[FieldVideoViews]
	yearCol     = fieldIndex[FieldCreatedYear]
)

// sanitizeIdentities cleans Youtuber and Title. In either column a result
// that would read back as a missing marker becomes "Unknown", so "NULL™"
// and "N/A" both end up as "Unknown". An empty Title becomes "Unknown" too;
// an empty Youtuber is left for dropInvalid.
func sanitizeIdentities(rows []row) {
	for _, r := range rows {
		for _, col := range []int{youtuberCol, titleCol} {
			s := SanitizeIdentity(r[col].text)
			if IsMissing(s) && (s != "" || col == titleCol) {
				s = domain.UnknownCategory
			}
			r[col].text = s
		}
	}
}

// dropInvalid removes rows without views, name or creation year. Counts are
// compared after truncation so a fractional count below one is also dropped.
func (c *Cleaner) dropInvalid(rows []row, report *CleanReport) []row {
	out := rows[:0]
	for _, r := range rows {
		switch {
		case math.Trunc(r[viewsCol].num) == 0:
			report.DroppedZeroViews++
		case r[youtuberCol].text == "":
			report.DroppedEmptyName++
		case math.Trunc(r[yearCol].num) == 0:
			report.DroppedZeroYear++
		default:
			out = append(out, r)
			continue
		}
		c.logger.Debug("row dropped",
			slog.String("youtuber", r[youtuberCol].text),
			slog.Float64("video_views", r[viewsCol].num),
			slog.Float64("created_year", r[yearCol].num))
	}
	return out
}

func truncateWhole(rows []row) {
	for _, r := range rows {
		for i, f := range schema {
			if f.Whole {
				r[i].num = math.Trunc(r[i].num)
			}
		}
	}
}

func toChannels(rows []row) []domain.Channel {
	records := make([]domain.Channel, len(rows))
	for n, r := range rows {
		ch := &records[n]
		for i, f := range schema {
			if f.IsNumeric() {
				f.setNumber(ch, r[i].num)
			} else {
				f.setText(ch, r[i].text)
			}
		}
	}
	return records
}
