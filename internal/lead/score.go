package lead

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/sells-group/leadscore/internal/config"
	"github.com/sells-group/leadscore/internal/model"
)

// DefaultScoringConfig returns the standard lead score weights and rules.
// Weights sum to 1.
func DefaultScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		// Weights (sum = 1).
		RevenueWeight:   0.4,
		GrowthWeight:    0.3,
		EmployeesWeight: 0.1,
		AgeWeight:       0.1,
		KeywordWeight:   0.1,

		MinEmployees:      50,
		MaxEmployees:      150,
		EmployeesFallback: 0.5,
		FoundedSince:      2015,
		AgeFallback:       0.7,
		Keyword:           "SaaS",
		KeywordMatch:      0.1,
	}
}

// Score computes the sub-scores and LeadScore of every lead and returns the
// rows sorted by LeadScore, highest first. Ties keep their input order.
//
// RevenueScore is relative to the highest revenue in t, so the same lead can
// score differently under different filters.
func Score(t model.Table, c config.ScoringConfig) model.Table {
	out := t.Clone()
	top := maxRevenue(t)

	for i := range out.Leads {
		l := &out.Leads[i]
		l.RevenueScore = scoreRevenue(l.Revenue, top)
		l.GrowthScore = scoreGrowth(l.GrowthPct)
		l.EmployeesScore = scoreEmployees(l.Employees, c)
		l.AgeScore = scoreAge(l.YearFounded, c)
		l.KeywordScore = scoreKeywords(l.Keywords, c)
		l.LeadScore = 100 * (l.RevenueScore*c.RevenueWeight +
			l.GrowthScore*c.GrowthWeight +
			l.EmployeesScore*c.EmployeesWeight +
			l.AgeScore*c.AgeWeight +
			l.KeywordScore*c.KeywordWeight)
	}

	slices.SortStableFunc(out.Leads, func(a, b model.Lead) int {
		return cmp.Compare(b.LeadScore, a.LeadScore)
	})
	return out
}

// maxRevenue ignores NaN and Inf so one bad row cannot poison the rest.
func maxRevenue(t model.Table) float64 {
	var m float64
	seen := false
	for _, l := range t.Leads {
		if !finite(l.Revenue) {
			continue
		}
		if !seen || l.Revenue > m {
			m = l.Revenue
			seen = true
		}
	}
	return m
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// scoreRevenue is 0 when there is no positive maximum to scale against.
func scoreRevenue(revenue, top float64) float64 {
	if top <= 0 || !finite(revenue) {
		return 0
	}
	return revenue / top
}

// scoreGrowth is not clamped to [0,1].
func scoreGrowth(pct float64) float64 {
	return pct / 100
}

func scoreEmployees(n int, c config.ScoringConfig) float64 {
	if n >= c.MinEmployees && n <= c.MaxEmployees {
		return 1
	}
	return c.EmployeesFallback
}

func scoreAge(founded int, c config.ScoringConfig) float64 {
	if founded >= c.FoundedSince {
		return 1
	}
	return c.AgeFallback
}

func scoreKeywords(keywords string, c config.ScoringConfig) float64 {
	if c.Keyword != "" && strings.Contains(keywords, c.Keyword) {
		return c.KeywordMatch
	}
	return 0
}
