package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadscore/internal/lead"
	"github.com/sells-group/leadscore/internal/model"
)

func scoredTable() model.Table {
	return model.Table{
		HasCity:    true,
		HasWebsite: true,
		Leads: []model.Lead{
			{
				Company: "Acme Co", Industry: "Software", City: "Austin",
				Revenue: 12.5, GrowthPct: 30, Employees: 120, YearFounded: 2018,
				Keywords: "B2B SaaS", Website: "https://acme.io",
				RevenueScore: 1, GrowthScore: 0.3, EmployeesScore: 1, AgeScore: 1, KeywordScore: 0.1,
				LeadScore: 80, Email: "info@acme.io",
			},
			{
				Company: "Globex", Industry: "Fintech", City: "Denver",
				Revenue: 5, Employees: 900, YearFounded: 1999,
				RevenueScore: 0.4, EmployeesScore: 0.5, AgeScore: 0.7,
				LeadScore: 30, Email: "globex@example.com",
			},
		},
	}
}

func TestColumns(t *testing.T) {
	full := Columns(model.Table{HasCity: true, HasWebsite: true})
	assert.Equal(t, []string{
		"Company", "Industry", "City", "Revenue", "GrowthPct", "Employees", "YearFounded", "Keywords", "Website",
		"RevenueScore", "GrowthScore", "EmployeesScore", "AgeScore", "KeywordScore", "LeadScore", "Email",
	}, full)

	bare := Columns(model.Table{})
	assert.NotContains(t, bare, "City")
	assert.NotContains(t, bare, "Website")
	assert.Len(t, bare, len(full)-2)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, scoredTable()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Columns(scoredTable()), records[0])
	assert.Equal(t, []string{
		"Acme Co", "Software", "Austin", "12.5", "30", "120", "2018", "B2B SaaS", "https://acme.io",
		"1", "0.3", "1", "1", "0.1", "80", "info@acme.io",
	}, records[1])
	assert.Equal(t, "globex@example.com", records[2][len(records[2])-1])
}

func TestWriteCSV_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, model.Table{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Company", records[0][0])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, scoredTable()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Leads", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Company", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Acme Co", sheet.Rows[1].Cells[0].String())

	score, err := sheet.Rows[1].Cells[14].Float()
	require.NoError(t, err)
	assert.InDelta(t, 80, score, 0.0001)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestSummary(t *testing.T) {
	src := model.Table{HasCity: true, Leads: []model.Lead{{Company: "A", Revenue: 3}, {Company: "B", Revenue: 40}}}
	noCity := src
	noCity.HasCity = false
	lo, hi := 5.0, 40.0

	tests := []struct {
		name string
		c    lead.Criteria
		src  model.Table
		want string
	}{
		{
			name: "industries and cities",
			c:    lead.Criteria{Industries: []string{"Software", "Fintech"}, Cities: []string{"Austin"}, RevenueMin: &lo, RevenueMax: &hi, MinScore: 50},
			src:  src,
			want: "Showing leads in Software, Fintech from Austin with revenue between $5M and $40M and lead score >= 50.",
		},
		{
			name: "open bounds use table range",
			c:    lead.Criteria{MinScore: 0},
			src:  src,
			want: "Showing leads in all industries with revenue between $3M and $40M and lead score >= 0.",
		},
		{
			name: "cities ignored without city column",
			c:    lead.Criteria{Industries: []string{"Software"}, Cities: []string{"Austin"}, MinScore: 62.5},
			src:  noCity,
			want: "Showing leads in Software with revenue between $3M and $40M and lead score >= 62.5.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(tt.c, tt.src))
		})
	}
}

func TestSummary_ThousandsSeparator(t *testing.T) {
	hi := 2500.0
	got := Summary(lead.Criteria{RevenueMax: &hi}, model.Table{})
	assert.Contains(t, got, "$2,500M")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$12.5M", Money(12.5))
	assert.Equal(t, "$1,200.0M", Money(1200))
}
