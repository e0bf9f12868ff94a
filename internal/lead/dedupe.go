package lead

import (
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/model"
)

// Dedupe keeps the first lead per identity key, in input order. The key is
// the website domain, falling back to the company name for rows whose
// website is missing or malformed.
func Dedupe(t model.Table) model.Table {
	seen := make(map[string]bool, t.Len())
	out := make([]model.Lead, 0, t.Len())

	for _, l := range t.Leads {
		key := identityKey(l.Website, l.Company)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}

	if dropped := t.Len() - len(out); dropped > 0 {
		zap.L().Debug("lead: dropped duplicates",
			zap.Int("input", t.Len()),
			zap.Int("dropped", dropped),
		)
	}
	return t.WithLeads(out)
}
