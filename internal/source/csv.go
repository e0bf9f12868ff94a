package source

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/model"
)

// CSVSource reads leads from a comma-separated file with a header row.
type CSVSource struct {
	Path string
}

// Load reads and decodes the whole file.
func (s *CSVSource) Load(ctx context.Context) (model.Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return model.Table{}, eris.Wrapf(err, "csv: open %s", s.Path)
	}
	defer f.Close() //nolint:errcheck

	header, records, err := ReadCSV(ctx, f)
	if err != nil {
		return model.Table{}, eris.Wrapf(err, "csv: read %s", s.Path)
	}

	t, err := Decode(header, records)
	if err != nil {
		return model.Table{}, err
	}
	zap.L().Info("csv: loaded leads",
		zap.String("path", s.Path),
		zap.Int("rows", t.Len()),
	)
	return t, nil
}

// Close is a no-op; the file is closed after Load.
func (s *CSVSource) Close() error { return nil }

// ReadCSV reads a header row followed by data records. Rows may have a
// variable number of fields and quotes are parsed leniently.
func ReadCSV(ctx context.Context, r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	var header []string
	var records [][]string
	for {
		if ctx.Err() != nil {
			return nil, nil, eris.Wrap(ctx.Err(), "csv: context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "csv: read row")
		}

		if header == nil {
			// Spreadsheet exports often start with a UTF-8 byte order mark.
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
			header = record
			continue
		}
		records = append(records, record)
	}

	if header == nil {
		return nil, nil, eris.New("csv: file is empty")
	}
	return header, records, nil
}
