package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/regdash/pkg/regulation"

	// database/sql drivers for SQL sources.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func validateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// quoteTable double-quotes each part of a possibly schema-qualified name.
func quoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + p + `"`
	}
	return strings.Join(parts, ".")
}

// SQLSource reads every column of one table through database/sql. Column
// names are treated like a file header.
type SQLSource struct {
	Driver string
	DSN    string
	Table  string

	// DB, when set, is used instead of opening DSN and is not closed.
	DB     *sql.DB
	Logger *slog.Logger
}

// ID identifies the source without credentials.
func (s *SQLSource) ID() string {
	dsn := s.DSN
	if s.Driver == DriverPostgres {
		dsn = redactDSN(dsn)
	}
	return fmt.Sprintf("%s:%s#%s", s.Driver, dsn, s.Table)
}

// Open queries the table and parses the result like a delimited file.
// An unreachable database or a missing SQLite file is reported as NotFound.
func (s *SQLSource) Open(ctx context.Context) (*regulation.Table, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := validateTableName(s.Table); err != nil {
		return nil, regulation.ParseError(s.ID(), err)
	}

	db := s.DB
	if db == nil {
		opened, err := s.open(ctx)
		if err != nil {
			return nil, err
		}
		defer func() { _ = opened.Close() }()
		db = opened
	}

	logger.Debug("reading regulation table", slog.String("driver", s.Driver), slog.String("table", s.Table))

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteTable(s.Table))
	if err != nil {
		return nil, regulation.ParseError(s.ID(), fmt.Errorf("failed to query table: %w", err))
	}
	defer func() { _ = rows.Close() }()

	header, cells, err := scanAll(rows)
	if err != nil {
		return nil, regulation.ParseError(s.ID(), err)
	}
	return regulation.FromRows(s.ID(), header, cells)
}

func (s *SQLSource) open(ctx context.Context) (*sql.DB, error) {
	dsn := s.DSN
	if s.Driver == DriverSQLite {
		if _, err := os.Stat(s.DSN); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, regulation.NotFoundError(s.ID(), err)
			}
			return nil, regulation.ParseError(s.ID(), err)
		}
		dsn = "file:" + s.DSN + "?mode=ro"
	}

	db, err := sql.Open(s.Driver, dsn)
	if err != nil {
		return nil, regulation.NotFoundError(s.ID(), fmt.Errorf("failed to open database: %w", err))
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, regulation.NotFoundError(s.ID(), fmt.Errorf("failed to ping database: %w", err))
	}
	return db, nil
}

func scanAll(rows *sql.Rows) ([]string, [][]string, error) {
	header, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out [][]string
	values := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return header, out, nil
}

// formatValue renders a scanned value the way it would appear in a CSV
// export. NULL becomes the empty (missing) cell.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

var passwordPattern = regexp.MustCompile(`(://[^:/@]+:)[^@]*@`)

func redactDSN(dsn string) string {
	return passwordPattern.ReplaceAllString(dsn, "${1}xxxxx@")
}
