// Package labels turns loosely structured spreadsheet exports into a
// canonical SubjectID -> (age, sex) mapping. The sources are human-authored:
// delimiters vary by locale, ages may use decimal commas, sex appears as
// numeric codes under two incompatible conventions or as German/English
// words, and section-header rows reappear mid-file. Row-level problems never
// fail a parse; they are skipped and tallied in Diagnostics.
package labels

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"brainprep/internal/logging"
	"brainprep/internal/subject"
)

// HeaderMode controls header-row handling. Auto detection treats the first
// row as a header when none of its cells satisfies the ID grammar, which has
// a false-negative risk if a header label happens to look like an ID; the
// explicit modes exist to override that heuristic.
type HeaderMode int

const (
	HeaderAuto HeaderMode = iota
	HeaderPresent
	HeaderAbsent
)

// ParseHeaderMode reads the config spelling of a header mode.
func ParseHeaderMode(value string) (HeaderMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return HeaderAuto, nil
	case "present":
		return HeaderPresent, nil
	case "absent":
		return HeaderAbsent, nil
	default:
		return HeaderAuto, fmt.Errorf("header mode: unsupported value %q (use auto, present, or absent)", value)
	}
}

// Record is one normalized label row.
type Record struct {
	ID  subject.ID
	Age int
	Sex Sex
}

// Diagnostics tallies row-level problems from one parse. It is returned
// alongside the mapping instead of accumulating in shared state, so callers
// decide how to surface it.
type Diagnostics struct {
	DataRows   int
	ShortRows  int
	BadID      int
	BadAge     int
	BadSex     int
	Overwrites int
}

// Skipped is the aggregate count of rows that produced no record.
func (d Diagnostics) Skipped() int {
	return d.ShortRows + d.BadID + d.BadAge + d.BadSex
}

// Options configures one parse. Columns is required; the zero values of the
// remaining fields mean auto header detection, convention 0=f,1=m, semicolon
// fallback delimiter, and an age range of 0-120.
type Options struct {
	Columns           ColumnSpec
	Convention        Convention
	Header            HeaderMode
	FallbackDelimiter rune
	MinAge            int
	MaxAge            int
	Logger            *slog.Logger
}

func (o *Options) fill() {
	if o.FallbackDelimiter == 0 {
		o.FallbackDelimiter = ';'
	}
	if o.MaxAge == 0 {
		o.MaxAge = 120
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
}

// Parse reads a delimited label source into a SubjectID -> Record mapping
// keyed by the ID's string form. Configuration problems (bad column spec,
// unmatched named column, empty source, zero usable rows) return an error;
// everything row-level degrades to skip-and-count.
func Parse(source io.Reader, opts Options) (map[string]Record, Diagnostics, error) {
	opts.fill()
	logger := opts.Logger.With(logging.String(logging.FieldComponent, "labels"))

	var diags Diagnostics

	if err := opts.Columns.validate(); err != nil {
		return nil, diags, err
	}

	raw, err := io.ReadAll(source)
	if err != nil {
		return nil, diags, fmt.Errorf("read label source: %w", err)
	}
	text, err := decodeSource(raw)
	if err != nil {
		return nil, diags, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, diags, ErrEmptySource
	}

	delimiter := inferDelimiter(text, opts.FallbackDelimiter)
	logger.Debug("label source prepared",
		logging.String("delimiter", strconv.QuoteRune(delimiter)),
		logging.String("sex_convention", opts.Convention.String()),
	)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, diags, fmt.Errorf("read label source: %w", err)
	}
	if len(rows) == 0 {
		return nil, diags, ErrEmptySource
	}

	hasHeader := headerDetected(rows[0], opts.Header)
	if opts.Columns.ByName() && !hasHeader {
		return nil, diags, fmt.Errorf("%w: named columns requested but the source has no header row", ErrColumnNotFound)
	}
	columns, err := opts.Columns.resolve(rows[0])
	if err != nil {
		return nil, diags, err
	}

	data := rows
	if hasHeader {
		data = rows[1:]
	}

	records := make(map[string]Record, len(data))
	for _, row := range data {
		diags.DataRows++
		record, reason := normalizeRow(row, columns, opts)
		if reason != rowOK {
			diags.count(reason)
			continue
		}
		key := record.ID.String()
		if previous, ok := records[key]; ok {
			diags.Overwrites++
			logger.Warn("duplicate subject row, keeping the later one",
				logging.Subject(key),
				logging.Int("previous_age", previous.Age),
				logging.Int("age", record.Age),
			)
		}
		records[key] = record
	}

	if len(records) == 0 {
		return nil, diags, fmt.Errorf("%w: %d row(s) read, %d skipped", ErrNoUsableRecords, diags.DataRows, diags.Skipped())
	}
	if skipped := diags.Skipped(); skipped > 0 {
		logger.Warn("skipped unusable label rows",
			logging.Int("skipped", skipped),
			logging.Int("bad_id", diags.BadID),
			logging.Int("bad_age", diags.BadAge),
			logging.Int("bad_sex", diags.BadSex),
			logging.Int("short", diags.ShortRows),
		)
	}
	return records, diags, nil
}

type rowReason int

const (
	rowOK rowReason = iota
	rowShort
	rowBadID
	rowBadAge
	rowBadSex
)

func (d *Diagnostics) count(reason rowReason) {
	switch reason {
	case rowShort:
		d.ShortRows++
	case rowBadID:
		d.BadID++
	case rowBadAge:
		d.BadAge++
	case rowBadSex:
		d.BadSex++
	}
}

func normalizeRow(row []string, columns columnIndexes, opts Options) (Record, rowReason) {
	limit := max(columns.id, max(columns.age, columns.sex))
	if limit >= len(row) {
		return Record{}, rowShort
	}

	token := strings.TrimSpace(row[columns.id])
	id, err := subject.Parse(token)
	if err != nil {
		// Typically a section-header row repeated mid-file.
		return Record{}, rowBadID
	}

	ageCell := strings.ReplaceAll(strings.TrimSpace(row[columns.age]), ",", ".")
	ageValue, err := strconv.ParseFloat(ageCell, 64)
	if err != nil || math.IsNaN(ageValue) || math.IsInf(ageValue, 0) {
		return Record{}, rowBadAge
	}
	age := int(math.Round(ageValue))
	if age < opts.MinAge || age > opts.MaxAge {
		return Record{}, rowBadAge
	}

	sex, ok := resolveSex(row[columns.sex], opts.Convention)
	if !ok {
		return Record{}, rowBadSex
	}

	return Record{ID: id, Age: age, Sex: sex}, rowOK
}

func headerDetected(first []string, mode HeaderMode) bool {
	switch mode {
	case HeaderPresent:
		return true
	case HeaderAbsent:
		return false
	}
	for _, cell := range first {
		if subject.Valid(strings.TrimSpace(cell)) {
			return false
		}
	}
	return true
}
