package lead

import (
	"strings"

	"github.com/sells-group/leadscore/internal/model"
)

const placeholderEmailDomain = "example.com"

// Enrich sets a placeholder Email on every lead. Nothing is looked up or
// verified: leads with a usable website get info@<domain>, the rest get an
// address built from the company name.
func Enrich(t model.Table) model.Table {
	out := t.Clone()
	for i := range out.Leads {
		out.Leads[i].Email = PlaceholderEmail(out.Leads[i].Company, out.Leads[i].Website)
	}
	return out
}

// PlaceholderEmail builds the synthetic address for one lead.
func PlaceholderEmail(company, website string) string {
	if d, ok := Domain(website); ok {
		return "info@" + d
	}
	local := strings.ReplaceAll(strings.ToLower(company), " ", "")
	return local + "@" + placeholderEmailDomain
}
