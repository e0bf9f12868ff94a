package model

// Source column keys. Header names must match exactly.
const (
	ColCompany     = "Company"
	ColIndustry    = "Industry"
	ColCity        = "City"
	ColRevenue     = "Revenue"
	ColGrowthPct   = "GrowthPct"
	ColEmployees   = "Employees"
	ColYearFounded = "YearFounded"
	ColKeywords    = "Keywords"
	ColWebsite     = "Website"
)

// RequiredColumns lists the columns a lead source must carry.
var RequiredColumns = []string{ColCompany, ColIndustry, ColRevenue}

// Lead is a single prospective business contact plus the values derived
// from it by the scoring and enrichment stages.
type Lead struct {
	Company     string  `json:"company" csv:"Company"`
	Industry    string  `json:"industry" csv:"Industry"`
	City        string  `json:"city,omitempty" csv:"City"`
	Revenue     float64 `json:"revenue" csv:"Revenue,omitempty"` // millions
	GrowthPct   float64 `json:"growth_pct" csv:"GrowthPct,omitempty"`
	Employees   int     `json:"employees" csv:"Employees,omitempty"`
	YearFounded int     `json:"year_founded" csv:"YearFounded,omitempty"`
	Keywords    string  `json:"keywords" csv:"Keywords"`
	Website     string  `json:"website,omitempty" csv:"Website"`

	// Derived. Recomputed on every pipeline run.
	RevenueScore   float64 `json:"revenue_score" csv:"-"`
	GrowthScore    float64 `json:"growth_score" csv:"-"`
	EmployeesScore float64 `json:"employees_score" csv:"-"`
	AgeScore       float64 `json:"age_score" csv:"-"`
	KeywordScore   float64 `json:"keyword_score" csv:"-"`
	LeadScore      float64 `json:"lead_score" csv:"-"`
	Email          string  `json:"email,omitempty" csv:"-"`
}

// Table is an ordered set of leads plus the optional columns its source carried.
// Pipeline stages treat a Table as immutable and return a new one.
type Table struct {
	Leads      []Lead `json:"leads"`
	HasCity    bool   `json:"has_city"`
	HasWebsite bool   `json:"has_website"`
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Leads) }

// WithLeads returns a table carrying the same column flags over a new row set.
func (t Table) WithLeads(leads []Lead) Table {
	if leads == nil {
		leads = []Lead{}
	}
	return Table{Leads: leads, HasCity: t.HasCity, HasWebsite: t.HasWebsite}
}

// Clone returns a deep copy of the row slice so callers can modify rows freely.
func (t Table) Clone() Table {
	leads := make([]Lead, len(t.Leads))
	copy(leads, t.Leads)
	return t.WithLeads(leads)
}
