package source

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/model"
)

// XLSXSource reads leads from one sheet of an Excel workbook. The first row
// is the header.
type XLSXSource struct {
	Path  string
	Sheet string // default: first sheet
}

// Load reads and decodes the sheet.
func (s *XLSXSource) Load(ctx context.Context) (model.Table, error) {
	rows, err := ReadXLSX(s.Path, s.Sheet)
	if err != nil {
		return model.Table{}, err
	}
	if ctx.Err() != nil {
		return model.Table{}, eris.Wrap(ctx.Err(), "xlsx: context cancelled")
	}
	if len(rows) == 0 {
		return model.Table{}, eris.Errorf("xlsx: sheet in %s is empty", s.Path)
	}

	t, err := Decode(rows[0], rows[1:])
	if err != nil {
		return model.Table{}, err
	}
	zap.L().Info("xlsx: loaded leads",
		zap.String("path", s.Path),
		zap.String("sheet", s.Sheet),
		zap.Int("rows", t.Len()),
	)
	return t, nil
}

// Close is a no-op; the workbook is released after Load.
func (s *XLSXSource) Close() error { return nil }

// ReadXLSX returns every row of the named sheet (or the first sheet when
// sheetName is empty) as string slices.
func ReadXLSX(path, sheetName string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, sheetName)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func getSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cellText(cell)
	}
	return cells
}

// cellText returns the stored number for numeric cells so display formats
// such as "#,##0" do not leak separators into the decoder.
func cellText(cell *xlsx.Cell) string {
	if cell.Type() == xlsx.CellTypeNumeric && !cell.IsTime() {
		if f, err := cell.Float(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return cell.String()
}
