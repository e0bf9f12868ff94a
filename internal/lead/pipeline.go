package lead

import (
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/config"
	"github.com/sells-group/leadscore/internal/model"
)

// Result holds the outputs of one pipeline run.
type Result struct {
	// Enriched is every lead that passed the filters, scored and enriched,
	// before the score threshold.
	Enriched model.Table `json:"-"`
	// Leads is Enriched restricted to LeadScore >= Criteria.MinScore.
	Leads    model.Table `json:"leads"`
	Criteria Criteria    `json:"criteria"`
}

// Run executes filter → dedupe → score → enrich → threshold over t.
// t is not modified.
func Run(t model.Table, c Criteria, sc config.ScoringConfig) Result {
	filtered := Filter(t, c)
	if c.Dedupe {
		filtered = Dedupe(filtered)
	}
	enriched := Enrich(Score(filtered, sc))
	qualified := Threshold(enriched, c.MinScore)

	zap.L().Debug("lead: pipeline complete",
		zap.Int("input", t.Len()),
		zap.Int("filtered", filtered.Len()),
		zap.Int("qualified", qualified.Len()),
		zap.Float64("min_score", c.MinScore),
	)

	return Result{Enriched: enriched, Leads: qualified, Criteria: c}
}
