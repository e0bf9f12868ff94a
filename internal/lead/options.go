package lead

import (
	"github.com/sells-group/leadscore/internal/model"
)

// Options are the choices offered to a user building Criteria. They are
// computed from the unfiltered table.
type Options struct {
	Industries []string `json:"industries" yaml:"industries"`
	Cities     []string `json:"cities,omitempty" yaml:"cities,omitempty"`
	HasCity    bool     `json:"has_city" yaml:"has_city"`
	RevenueMin float64  `json:"revenue_min" yaml:"revenue_min"`
	RevenueMax float64  `json:"revenue_max" yaml:"revenue_max"`
}

// OptionsOf lists distinct non-empty industries and cities in first-seen
// order, and the revenue bounds of t. Cities is nil when t has no City column.
func OptionsOf(t model.Table) Options {
	o := Options{Industries: []string{}, HasCity: t.HasCity}
	if t.HasCity {
		o.Cities = []string{}
	}

	seenInd := make(map[string]bool)
	seenCity := make(map[string]bool)
	for i, l := range t.Leads {
		if l.Industry != "" && !seenInd[l.Industry] {
			seenInd[l.Industry] = true
			o.Industries = append(o.Industries, l.Industry)
		}
		if t.HasCity && l.City != "" && !seenCity[l.City] {
			seenCity[l.City] = true
			o.Cities = append(o.Cities, l.City)
		}
		if i == 0 || l.Revenue < o.RevenueMin {
			o.RevenueMin = l.Revenue
		}
		if i == 0 || l.Revenue > o.RevenueMax {
			o.RevenueMax = l.Revenue
		}
	}
	return o
}

// Companies returns the company names of t in row order. It returns an empty,
// non-nil slice for an empty table.
func Companies(t model.Table) []string {
	out := make([]string, 0, t.Len())
	for _, l := range t.Leads {
		out = append(out, l.Company)
	}
	return out
}

// Find returns the first lead in t with the given company name.
func Find(t model.Table, company string) (model.Lead, bool) {
	for _, l := range t.Leads {
		if l.Company == company {
			return l, true
		}
	}
	return model.Lead{}, false
}
