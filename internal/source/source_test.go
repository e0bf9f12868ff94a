package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/config"
	"github.com/sells-group/leadscore/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var fullHeader = []string{"Company", "Industry", "City", "Revenue", "GrowthPct", "Employees", "YearFounded", "Keywords", "Website"}

func TestDecode_AllColumns(t *testing.T) {
	tbl, err := Decode(fullHeader, [][]string{
		{"Acme Co", "Software", "Austin", "12.5", "30", "120", "2018", "B2B SaaS", "https://www.acme.io"},
		{"Globex", "Fintech", "", "40", "-5", "900", "1999", "Payments", ""},
	})
	require.NoError(t, err)

	assert.True(t, tbl.HasCity)
	assert.True(t, tbl.HasWebsite)
	require.Len(t, tbl.Leads, 2)

	acme := tbl.Leads[0]
	assert.Equal(t, "Acme Co", acme.Company)
	assert.Equal(t, "Software", acme.Industry)
	assert.Equal(t, "Austin", acme.City)
	assert.InDelta(t, 12.5, acme.Revenue, 0.0001)
	assert.InDelta(t, 30, acme.GrowthPct, 0.0001)
	assert.Equal(t, 120, acme.Employees)
	assert.Equal(t, 2018, acme.YearFounded)
	assert.Equal(t, "B2B SaaS", acme.Keywords)
	assert.Equal(t, "https://www.acme.io", acme.Website)

	globex := tbl.Leads[1]
	assert.Empty(t, globex.City)
	assert.Empty(t, globex.Website)
	assert.InDelta(t, -5, globex.GrowthPct, 0.0001)
}

func TestDecode_OptionalColumnsAbsent(t *testing.T) {
	tbl, err := Decode([]string{"Company", "Industry", "Revenue"}, [][]string{
		{"Acme", "Software", "10"},
	})
	require.NoError(t, err)

	assert.False(t, tbl.HasCity)
	assert.False(t, tbl.HasWebsite)
	require.Len(t, tbl.Leads, 1)
	assert.Zero(t, tbl.Leads[0].Employees)
	assert.Empty(t, tbl.Leads[0].Keywords)
}

func TestDecode_MissingRequiredColumn(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   string
	}{
		{"no revenue", []string{"Company", "Industry"}, "Revenue"},
		{"no industry", []string{"Company", "Revenue"}, "Industry"},
		{"no company", []string{"Industry", "Revenue", "Website"}, "Company"},
		{"case sensitive", []string{"company", "industry", "revenue"}, "Company, Industry, Revenue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.header, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingColumn))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecode_EmptyNumericCellsAreZero(t *testing.T) {
	tbl, err := Decode(fullHeader, [][]string{
		{"Acme", "Software", "Austin", "", "", "", "", "", ""},
	})
	require.NoError(t, err)
	require.Len(t, tbl.Leads, 1)
	assert.Zero(t, tbl.Leads[0].Revenue)
	assert.Zero(t, tbl.Leads[0].YearFounded)
}

func TestDecode_InvalidNumber(t *testing.T) {
	_, err := Decode([]string{"Company", "Industry", "Revenue"}, [][]string{
		{"Acme", "Software", "lots"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode row 1")
}

func TestDecode_NonFiniteNumber(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		col  string
	}{
		{"nan revenue", []string{"Bad", "Software", "NaN", "10"}, "Revenue"},
		{"inf revenue", []string{"Bad", "Software", "Inf", "10"}, "Revenue"},
		{"nan growth", []string{"Bad", "Software", "100", "nan"}, "GrowthPct"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]string{"Company", "Industry", "Revenue", "GrowthPct"}, [][]string{
				{"Good", "Software", "100", "5"},
				tt.row,
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "decode row 2")
			assert.Contains(t, err.Error(), tt.col)
		})
	}
}

func TestDecode_TrimsAndPads(t *testing.T) {
	tbl, err := Decode([]string{" Company ", "Industry", "Revenue", "Website"}, [][]string{
		{"  Acme  ", "Software", " 7 "},        // short row
		{"", "", "", ""},                        // blank row skipped
		{"Globex", "Fintech", "3", "x", "extra"}, // long row
	})
	require.NoError(t, err)
	require.Len(t, tbl.Leads, 2)
	assert.Equal(t, "Acme", tbl.Leads[0].Company)
	assert.InDelta(t, 7, tbl.Leads[0].Revenue, 0.0001)
	assert.Empty(t, tbl.Leads[0].Website)
	assert.Equal(t, "x", tbl.Leads[1].Website)
}

func TestDecode_UnknownColumnsIgnored(t *testing.T) {
	tbl, err := Decode([]string{"Company", "Industry", "Revenue", "Notes"}, [][]string{
		{"Acme", "Software", "1", "call back"},
	})
	require.NoError(t, err)
	assert.Len(t, tbl.Leads, 1)
}

func TestDecode_NoRows(t *testing.T) {
	tbl, err := Decode(fullHeader, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.NotNil(t, tbl.Leads)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	src, err := Open(ctx, config.SourceConfig{Path: "leads.csv"})
	require.NoError(t, err)
	assert.IsType(t, &CSVSource{}, src)

	src, err = Open(ctx, config.SourceConfig{Path: "leads.xlsx", Sheet: "Leads"})
	require.NoError(t, err)
	require.IsType(t, &XLSXSource{}, src)
	assert.Equal(t, "Leads", src.(*XLSXSource).Sheet)

	_, err = Open(ctx, config.SourceConfig{Driver: "parquet"})
	assert.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	path := createTestDB(t, []model.Lead{{Company: "Acme", Industry: "Software", Revenue: 1}})

	src, err := Open(context.Background(), config.SourceConfig{Path: path, Table: "leads"})
	require.NoError(t, err)
	defer src.Close() //nolint:errcheck

	tbl, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
