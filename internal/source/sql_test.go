package source

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/resilience"
)

func createTestDB(t *testing.T, leads []model.Lead) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leads.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	_, err = db.Exec(`CREATE TABLE leads (
		Company TEXT NOT NULL,
		Industry TEXT,
		City TEXT,
		Revenue REAL,
		GrowthPct REAL,
		Employees INTEGER,
		YearFounded INTEGER,
		Keywords TEXT,
		Website TEXT
	)`)
	require.NoError(t, err)

	for _, l := range leads {
		var website any
		if l.Website != "" {
			website = l.Website
		}
		_, err := db.Exec(`INSERT INTO leads VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.Company, l.Industry, l.City, l.Revenue, l.GrowthPct, l.Employees, l.YearFounded, l.Keywords, website)
		require.NoError(t, err)
	}
	return path
}

func TestSQLiteSource_Load(t *testing.T) {
	path := createTestDB(t, []model.Lead{
		{Company: "Acme Co", Industry: "Software", City: "Austin", Revenue: 12.5, GrowthPct: 30, Employees: 120, YearFounded: 2018, Keywords: "SaaS", Website: "https://acme.io"},
		{Company: "Globex", Industry: "Fintech", Revenue: 40, Employees: 900, YearFounded: 1999},
	})

	src, err := NewSQLite(path, "leads")
	require.NoError(t, err)
	defer src.Close() //nolint:errcheck

	tbl, err := src.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, tbl.Leads, 2)
	assert.True(t, tbl.HasCity)
	assert.True(t, tbl.HasWebsite)
	assert.Equal(t, "Acme Co", tbl.Leads[0].Company)
	assert.InDelta(t, 12.5, tbl.Leads[0].Revenue, 0.0001)
	assert.Equal(t, 120, tbl.Leads[0].Employees)
	assert.Equal(t, "https://acme.io", tbl.Leads[0].Website)
	assert.Empty(t, tbl.Leads[1].Website)
}

func TestSQLiteSource_MissingTable(t *testing.T) {
	path := createTestDB(t, nil)

	src, err := NewSQLite(path, "prospects")
	require.NoError(t, err)
	defer src.Close() //nolint:errcheck

	_, err = src.Load(context.Background())
	assert.Error(t, err)
}

func TestPostgresSource_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"Company", "Industry", "City", "Revenue", "Employees", "YearFounded", "Website"}).
		AddRow("Acme Co", "Software", "Austin", 12.5, int64(120), int32(2018), "https://acme.io").
		AddRow("Globex", "Fintech", nil, float64(40), int64(900), int32(1999), nil)
	mock.ExpectQuery(`SELECT \* FROM "crm"."leads"`).WillReturnRows(rows)

	src := NewPostgresFromQuerier(mock, "crm.leads")
	tbl, err := src.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, src.Close())

	require.Len(t, tbl.Leads, 2)
	assert.True(t, tbl.HasCity)
	assert.Equal(t, "Acme Co", tbl.Leads[0].Company)
	assert.InDelta(t, 12.5, tbl.Leads[0].Revenue, 0.0001)
	assert.Equal(t, 2018, tbl.Leads[0].YearFounded)
	assert.Empty(t, tbl.Leads[1].City)
	assert.Empty(t, tbl.Leads[1].Website)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_MissingColumn(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT \* FROM "leads"`).
		WillReturnRows(pgxmock.NewRows([]string{"Company", "Revenue"}).AddRow("Acme", 1.0))

	_, err = NewPostgresFromQuerier(mock, "leads").Load(context.Background())
	require.ErrorIs(t, err, ErrMissingColumn)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT \* FROM "leads"`).WillReturnError(assert.AnError)

	_, err = NewPostgresFromQuerier(mock, "leads").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: query leads")
}

func TestCellString(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{[]byte("y"), "y"},
		{12.5, "12.5"},
		{float32(2.5), "2.5"},
		{int64(42), "42"},
		{int32(7), "7"},
		{3, "3"},
		{true, "true"},
		{ts, "2024-01-02T03:04:05Z"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cellString(tt.in))
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"leads"`, quoteIdent("leads"))
	assert.Equal(t, `"crm"."leads"`, quoteIdent("crm.leads"))
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}

func TestNewPostgres_BadURL(t *testing.T) {
	_, err := NewPostgres(context.Background(), "postgres://%zz", "leads", resilience.Backoff{Attempts: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: parse database url")
}
