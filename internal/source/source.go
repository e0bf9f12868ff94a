// Package source loads the lead table from CSV, XLSX, SQLite or Postgres.
// Every driver reads a header plus string records, which are decoded into
// model.Lead values by one shared decoder.
package source

import (
	"context"
	"errors"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/config"
	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/resilience"
)

// ErrMissingColumn is returned when a source lacks a required column.
var ErrMissingColumn = errors.New("source: missing required column")

// Source loads the lead table. Sources are read-only.
type Source interface {
	Load(ctx context.Context) (model.Table, error)
	Close() error
}

// Open returns the Source selected by cfg.
func Open(ctx context.Context, cfg config.SourceConfig) (Source, error) {
	switch driver := cfg.SourceDriver(); driver {
	case "csv":
		return &CSVSource{Path: cfg.Path}, nil
	case "xlsx":
		return &XLSXSource{Path: cfg.Path, Sheet: cfg.Sheet}, nil
	case "sqlite":
		return NewSQLite(cfg.Path, cfg.Table)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, cfg.Table,
			resilience.FromConfig(cfg.ConnectAttempts, cfg.ConnectBackoffMs))
	default:
		return nil, eris.Errorf("source: unknown driver %q", driver)
	}
}

// Decode checks header for the required columns and decodes records into a
// table. Columns outside the lead schema are ignored; optional columns that
// are absent are left empty.
func Decode(header []string, records [][]string) (model.Table, error) {
	header = trimAll(header)

	var missing []string
	for _, col := range model.RequiredColumns {
		if !slices.Contains(header, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return model.Table{}, eris.Wrapf(ErrMissingColumn, "%s", strings.Join(missing, ", "))
	}

	for _, col := range []string{model.ColGrowthPct, model.ColEmployees, model.ColYearFounded, model.ColKeywords} {
		if !slices.Contains(header, col) {
			zap.L().Warn("source: column not found, treating as empty", zap.String("column", col))
		}
	}

	dec, err := csvutil.NewDecoder(&recordReader{records: records, width: len(header)}, header...)
	if err != nil {
		return model.Table{}, eris.Wrap(err, "source: create decoder")
	}

	leads := make([]model.Lead, 0, len(records))
	for {
		var l model.Lead
		if err := dec.Decode(&l); err != nil {
			if err == io.EOF {
				break
			}
			return model.Table{}, eris.Wrapf(err, "source: decode row %d", len(leads)+1)
		}
		if err := checkFinite(l); err != nil {
			return model.Table{}, eris.Wrapf(err, "source: decode row %d", len(leads)+1)
		}
		leads = append(leads, l)
	}

	return model.Table{
		Leads:      leads,
		HasCity:    slices.Contains(header, model.ColCity),
		HasWebsite: slices.Contains(header, model.ColWebsite),
	}, nil
}

// checkFinite rejects NaN and Inf, which strconv accepts but no score can use.
func checkFinite(l model.Lead) error {
	for _, f := range []struct {
		col string
		v   float64
	}{
		{model.ColRevenue, l.Revenue},
		{model.ColGrowthPct, l.GrowthPct},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return eris.Errorf("column %s: non-finite value %v", f.col, f.v)
		}
	}
	return nil
}

// recordReader feeds in-memory records to csvutil, skipping blank rows and
// padding or truncating each record to the header width.
type recordReader struct {
	records [][]string
	width   int
	pos     int
}

func (r *recordReader) Read() ([]string, error) {
	for r.pos < len(r.records) {
		rec := r.records[r.pos]
		r.pos++
		if isBlank(rec) {
			continue
		}
		rec = trimAll(rec)
		if len(rec) < r.width {
			rec = append(rec, make([]string, r.width-len(rec))...)
		}
		return rec[:r.width], nil
	}
	return nil, io.EOF
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
