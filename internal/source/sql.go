package source

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/resilience"
)

// SQLiteSource reads leads from a table in a SQLite database file.
type SQLiteSource struct {
	db    *sql.DB
	table string
}

// NewSQLite opens the database at path.
func NewSQLite(path, table string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "sqlite: exec PRAGMA busy_timeout")
	}
	return &SQLiteSource{db: db, table: table}, nil
}

// Load selects every row of the table.
func (s *SQLiteSource) Load(ctx context.Context) (model.Table, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(s.table))
	if err != nil {
		return model.Table{}, eris.Wrapf(err, "sqlite: query %s", s.table)
	}
	defer rows.Close() //nolint:errcheck

	header, err := rows.Columns()
	if err != nil {
		return model.Table{}, eris.Wrap(err, "sqlite: columns")
	}

	var records [][]string
	for rows.Next() {
		vals := make([]any, len(header))
		ptrs := make([]any, len(header))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return model.Table{}, eris.Wrap(err, "sqlite: scan row")
		}
		records = append(records, cellStrings(vals))
	}
	if err := rows.Err(); err != nil {
		return model.Table{}, eris.Wrap(err, "sqlite: iterate rows")
	}

	t, err := Decode(header, records)
	if err != nil {
		return model.Table{}, err
	}
	zap.L().Info("sqlite: loaded leads",
		zap.String("table", s.table),
		zap.Int("rows", t.Len()),
	)
	return t, nil
}

// Close closes the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Querier is the subset of pgxpool.Pool used by PostgresSource.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads leads from a Postgres table.
type PostgresSource struct {
	pool  Querier
	table string
	close func()
}

// NewPostgres connects a pool to databaseURL, retrying transient connection
// failures according to b.
func NewPostgres(ctx context.Context, databaseURL, table string, b resilience.Backoff) (*PostgresSource, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse database url")
	}

	pool, err := resilience.Retry(ctx, b, "postgres: connect", func(ctx context.Context) (*pgxpool.Pool, error) {
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresSource{pool: pool, table: table, close: pool.Close}, nil
}

// NewPostgresFromQuerier wraps an existing pool or mock.
func NewPostgresFromQuerier(q Querier, table string) *PostgresSource {
	return &PostgresSource{pool: q, table: table}
}

// Load selects every row of the table.
func (s *PostgresSource) Load(ctx context.Context) (model.Table, error) {
	ident := pgx.Identifier(strings.Split(s.table, "."))
	rows, err := s.pool.Query(ctx, "SELECT * FROM "+ident.Sanitize())
	if err != nil {
		return model.Table{}, eris.Wrapf(err, "postgres: query %s", s.table)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, fd := range fields {
		header[i] = fd.Name
	}

	var records [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return model.Table{}, eris.Wrap(err, "postgres: read row")
		}
		records = append(records, cellStrings(vals))
	}
	if err := rows.Err(); err != nil {
		return model.Table{}, eris.Wrap(err, "postgres: iterate rows")
	}

	t, err := Decode(header, records)
	if err != nil {
		return model.Table{}, err
	}
	zap.L().Info("postgres: loaded leads",
		zap.String("table", s.table),
		zap.Int("rows", t.Len()),
	)
	return t, nil
}

// Close closes the pool when this source opened it.
func (s *PostgresSource) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

func quoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

func cellStrings(vals []any) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = cellString(v)
	}
	return out
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
