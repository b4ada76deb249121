package regulation

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Source produces a table. Implementations report failures as *LoadError.
type Source interface {
	// ID identifies the source for error messages and memoization.
	ID() string
	// Open reads the full table.
	Open(ctx context.Context) (*Table, error)
}

// Load reads a table from src. Any failure is returned as a *LoadError;
// callers must stop processing when err is non-nil.
func Load(ctx context.Context, src Source) (*Table, error) {
	if src == nil {
		return nil, NotFoundError("<nil>", errors.New("no source configured"))
	}
	if err := ctx.Err(); err != nil {
		return nil, ParseError(src.ID(), err)
	}

	t, err := src.Open(ctx)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, le
		}
		return nil, ParseError(src.ID(), err)
	}
	if t == nil {
		return nil, ParseError(src.ID(), errors.New("source returned no table"))
	}
	return t, nil
}

// FileSource reads a delimited text file with a header row.
type FileSource struct {
	Path string
	// Delimiter defaults to ',' or to '\t' for .tsv files.
	Delimiter rune
}

// ID returns the file path.
func (s FileSource) ID() string {
	return s.Path
}

func (s FileSource) delimiter() rune {
	if s.Delimiter != 0 {
		return s.Delimiter
	}
	if strings.EqualFold(filepath.Ext(s.Path), ".tsv") {
		return '\t'
	}
	return ','
}

// Open reads and parses the file.
func (s FileSource) Open(_ context.Context) (*Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NotFoundError(s.Path, err)
		}
		return nil, ParseError(s.Path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadDelimited(s.Path, f, s.delimiter())
}

// ReadDelimited parses delimited text with a header row into a table.
func ReadDelimited(source string, r io.Reader, delimiter rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1

	all, err := cr.ReadAll()
	if err != nil {
		return nil, ParseError(source, err)
	}
	if len(all) == 0 {
		return nil, ParseError(source, errors.New("missing header row"))
	}
	return FromRows(source, all[0], all[1:])
}

// RowsSource injects raw cells, parsed exactly like a file.
type RowsSource struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ID returns the configured name.
func (s RowsSource) ID() string {
	if s.Name == "" {
		return "rows"
	}
	return s.Name
}

// Open parses the injected rows.
func (s RowsSource) Open(_ context.Context) (*Table, error) {
	return FromRows(s.ID(), s.Header, s.Rows)
}

// FromRows builds a table from a header and raw cell rows. A row may be
// shorter than the header; trailing cells are then missing.
func FromRows(source string, header []string, rows [][]string) (*Table, error) {
	columns, err := normalizeHeader(header)
	if err != nil {
		return nil, ParseError(source, err)
	}

	t := &Table{
		Source:  source,
		Columns: columns,
		Records: make([]Record, 0, len(rows)),
	}
	for i, row := range rows {
		rec, err := parseRow(columns, row, i+1)
		if err != nil {
			return nil, ParseError(source, err)
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// NewTable validates typed records and wraps them in a table with the
// required columns plus any optional column a record uses.
func NewTable(source string, records []Record) (*Table, error) {
	columns := append([]string{}, RequiredColumns...)
	var hasLink, hasStart, hasEnd bool
	extras := []string{}
	seenExtra := map[string]struct{}{}

	out := make([]Record, 0, len(records))
	for i, r := range records {
		r = r.clone()
		r.Country = NormalizeCountry(r.Country)
		if r.Country == "" {
			return nil, ParseError(source, &RowError{Row: i + 1, Column: ColCountry, Err: errors.New("country is required")})
		}
		if r.EnforcementLevel != 0 && !validLevel(r.EnforcementLevel) {
			return nil, ParseError(source, &RowError{Row: i + 1, Column: ColEnforcementLevel, Err: errLevelRange(r.EnforcementLevel)})
		}
		hasLink = hasLink || r.LawLink != ""
		hasStart = hasStart || r.StartYear != 0
		hasEnd = hasEnd || r.EndYear != 0
		for k := range r.Extra {
			if _, ok := seenExtra[k]; !ok {
				seenExtra[k] = struct{}{}
				extras = append(extras, k)
			}
		}
		out = append(out, r)
	}

	if hasLink {
		columns = append(columns, ColLawLink)
	}
	if hasStart {
		columns = append(columns, ColStartYear)
	}
	if hasEnd {
		columns = append(columns, ColEndYear)
	}
	columns = append(columns, extras...)

	return &Table{Source: source, Columns: columns, Records: out}, nil
}

// NormalizeCountry trims a country key and converts it to Unicode NFC so
// that visually identical names compare equal.
func NormalizeCountry(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

var knownColumns = append(append([]string{}, RequiredColumns...), optionalColumns...)

// canonicalColumn maps a header cell onto a known column name, matching
// case-insensitively. Unknown names are returned trimmed.
func canonicalColumn(name string) string {
	name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	for _, known := range knownColumns {
		if strings.EqualFold(name, known) {
			return known
		}
	}
	return name
}

func normalizeHeader(header []string) ([]string, error) {
	if len(header) == 0 {
		return nil, errors.New("missing header row")
	}

	columns := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		c := canonicalColumn(h)
		if c == "" {
			return nil, fmt.Errorf("header column %d is empty", i+1)
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("duplicate header column %q", c)
		}
		seen[c] = struct{}{}
		columns[i] = c
	}

	var missing []string
	for _, req := range RequiredColumns {
		if _, ok := seen[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func parseRow(columns, row []string, rowNum int) (Record, error) {
	var rec Record
	for i, col := range columns {
		var raw string
		if i < len(row) {
			raw = row[i]
		}
		cell := strings.TrimSpace(raw)

		switch col {
		case ColCountry:
			rec.Country = NormalizeCountry(cell)
		case ColRegulationName:
			rec.RegulationName = cell
		case ColEnforcementLevel:
			level, err := parseLevel(cell)
			if err != nil {
				return Record{}, &RowError{Row: rowNum, Column: col, Err: err}
			}
			rec.EnforcementLevel = level
		case ColPenalties:
			rec.Penalties = cell
		case ColComplianceSteps:
			rec.ComplianceSteps = cell
		case ColLawLink:
			rec.LawLink = cell
		case ColStartYear, ColEndYear:
			year, err := parseOptionalInt(cell)
			if err != nil {
				return Record{}, &RowError{Row: rowNum, Column: col, Err: err}
			}
			if col == ColStartYear {
				rec.StartYear = year
			} else {
				rec.EndYear = year
			}
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[col] = raw
		}
	}

	if rec.Country == "" {
		return Record{}, &RowError{Row: rowNum, Column: ColCountry, Err: errors.New("country is required")}
	}
	return rec, nil
}

// parseLevel accepts integers and integral floats ("3.0"), the way
// spreadsheet exports often write them.
func parseLevel(cell string) (int, error) {
	if cell == "" {
		return 0, nil
	}
	level, err := strconv.Atoi(cell)
	if err != nil {
		f, ferr := strconv.ParseFloat(cell, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("enforcement level %q is not an integer", cell)
		}
		level = int(f)
	}
	if !validLevel(level) {
		return 0, errLevelRange(level)
	}
	return level, nil
}

func validLevel(level int) bool {
	return level >= MinEnforcementLevel && level <= MaxEnforcementLevel
}

func errLevelRange(level int) error {
	return fmt.Errorf("enforcement level %d outside %d-%d", level, MinEnforcementLevel, MaxEnforcementLevel)
}

func parseOptionalInt(cell string) (int, error) {
	if cell == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(cell)
	if err != nil {
		f, ferr := strconv.ParseFloat(cell, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("%q is not an integer", cell)
		}
		n = int(f)
	}
	return n, nil
}
