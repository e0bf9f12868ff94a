package lead

import (
	"slices"

	"github.com/sells-group/leadscore/internal/config"
	"github.com/sells-group/leadscore/internal/model"
)

// Criteria holds the user-chosen constraints. An empty Industries or Cities
// selection means "no constraint", not "exclude all". A nil revenue bound is
// open.
type Criteria struct {
	Industries []string `json:"industries"`
	Cities     []string `json:"cities"`
	RevenueMin *float64 `json:"revenue_min,omitempty"`
	RevenueMax *float64 `json:"revenue_max,omitempty"`
	Dedupe     bool     `json:"dedupe"`
	MinScore   float64  `json:"min_score"`
}

// CriteriaFromConfig builds the default criteria from configuration.
func CriteriaFromConfig(c config.FilterConfig) Criteria {
	return Criteria{
		Industries: slices.Clone(c.Industries),
		Cities:     slices.Clone(c.Cities),
		RevenueMin: c.RevenueMin,
		RevenueMax: c.RevenueMax,
		Dedupe:     c.Dedupe,
		MinScore:   c.MinScore,
	}
}

// Filter keeps the leads matching the industry, city and revenue constraints.
// The city constraint is ignored when t has no City column.
func Filter(t model.Table, c Criteria) model.Table {
	out := make([]model.Lead, 0, t.Len())
	for _, l := range t.Leads {
		if c.match(l, t.HasCity) {
			out = append(out, l)
		}
	}
	return t.WithLeads(out)
}

// Threshold keeps the leads whose LeadScore is at least minScore.
func Threshold(t model.Table, minScore float64) model.Table {
	out := make([]model.Lead, 0, t.Len())
	for _, l := range t.Leads {
		if l.LeadScore >= minScore {
			out = append(out, l)
		}
	}
	return t.WithLeads(out)
}

func (c Criteria) match(l model.Lead, hasCity bool) bool {
	if len(c.Industries) > 0 && !slices.Contains(c.Industries, l.Industry) {
		return false
	}
	if hasCity && len(c.Cities) > 0 && !slices.Contains(c.Cities, l.City) {
		return false
	}
	if c.RevenueMin != nil && l.Revenue < *c.RevenueMin {
		return false
	}
	if c.RevenueMax != nil && l.Revenue > *c.RevenueMax {
		return false
	}
	return true
}
