// Package export writes a scored lead table as CSV or XLSX and renders the
// human summary of the criteria that produced it.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadscore/internal/model"
)

// Download file names offered to users.
const (
	CSVFileName  = "filtered_leads.csv"
	XLSXFileName = "filtered_leads.xlsx"
)

// derivedColumns follow the source columns in every export.
var derivedColumns = []string{
	"RevenueScore",
	"GrowthScore",
	"EmployeesScore",
	"AgeScore",
	"KeywordScore",
	"LeadScore",
	"Email",
}

// NewID returns an identifier for one export, used in logs and response headers.
func NewID() string {
	return uuid.New().String()
}

// Columns returns the ordered export header for t. City and Website are
// included only when the source carried them.
func Columns(t model.Table) []string {
	cols := []string{model.ColCompany, model.ColIndustry}
	if t.HasCity {
		cols = append(cols, model.ColCity)
	}
	cols = append(cols,
		model.ColRevenue,
		model.ColGrowthPct,
		model.ColEmployees,
		model.ColYearFounded,
		model.ColKeywords,
	)
	if t.HasWebsite {
		cols = append(cols, model.ColWebsite)
	}
	return append(cols, derivedColumns...)
}

// cell is one export value. Numbers stay numeric in XLSX output.
type cell struct {
	s     string
	f     float64
	isNum bool
}

func str(s string) cell { return cell{s: s} }

func num(f float64) cell {
	return cell{s: strconv.FormatFloat(f, 'f', -1, 64), f: f, isNum: true}
}

func integer(n int) cell {
	return cell{s: strconv.Itoa(n), f: float64(n), isNum: true}
}

func row(t model.Table, l model.Lead) []cell {
	out := []cell{str(l.Company), str(l.Industry)}
	if t.HasCity {
		out = append(out, str(l.City))
	}
	out = append(out,
		num(l.Revenue),
		num(l.GrowthPct),
		integer(l.Employees),
		integer(l.YearFounded),
		str(l.Keywords),
	)
	if t.HasWebsite {
		out = append(out, str(l.Website))
	}
	return append(out,
		num(l.RevenueScore),
		num(l.GrowthScore),
		num(l.EmployeesScore),
		num(l.AgeScore),
		num(l.KeywordScore),
		num(l.LeadScore),
		str(l.Email),
	)
}

// WriteCSV writes t with a header row to w.
func WriteCSV(w io.Writer, t model.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns(t)); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	for _, l := range t.Leads {
		cells := row(t, l)
		record := make([]string, len(cells))
		for i, c := range cells {
			record[i] = c.s
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrapf(err, "export: write csv row %q", l.Company)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

// WriteXLSX writes t as a single-sheet workbook to w.
func WriteXLSX(w io.Writer, t model.Table) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns(t) {
		header.AddCell().SetString(col)
	}

	for _, l := range t.Leads {
		r := sheet.AddRow()
		for _, c := range row(t, l) {
			xc := r.AddCell()
			if c.isNum {
				xc.SetFloat(c.f)
			} else {
				xc.SetString(c.s)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}
