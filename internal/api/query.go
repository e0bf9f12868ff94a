package api

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscore/internal/lead"
)

// ParseCriteria overlays the criteria in q onto base. industry and city may
// repeat or hold comma-separated values; an explicitly empty value clears the
// selection. Numeric and boolean values that fail to parse are errors.
func ParseCriteria(q url.Values, base lead.Criteria) (lead.Criteria, error) {
	c := base
	c.Industries = slices.Clone(base.Industries)
	c.Cities = slices.Clone(base.Cities)

	if vals, ok := q["industry"]; ok {
		c.Industries = splitValues(vals)
	}
	if vals, ok := q["city"]; ok {
		c.Cities = splitValues(vals)
	}

	if q.Has("min_revenue") {
		v, err := parseFloat(q, "min_revenue")
		if err != nil {
			return lead.Criteria{}, err
		}
		c.RevenueMin = v
	}
	if q.Has("max_revenue") {
		v, err := parseFloat(q, "max_revenue")
		if err != nil {
			return lead.Criteria{}, err
		}
		c.RevenueMax = v
	}
	if c.RevenueMin != nil && c.RevenueMax != nil && *c.RevenueMin > *c.RevenueMax {
		return lead.Criteria{}, eris.New("min_revenue must not exceed max_revenue")
	}

	if raw := q.Get("dedupe"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return lead.Criteria{}, eris.Errorf("invalid dedupe %q", raw)
		}
		c.Dedupe = b
	}

	if q.Has("min_score") {
		v, err := parseFloat(q, "min_score")
		if err != nil {
			return lead.Criteria{}, err
		}
		if v == nil {
			c.MinScore = base.MinScore
		} else {
			if *v < 0 || *v > 100 {
				return lead.Criteria{}, eris.Errorf("min_score must be between 0 and 100, got %g", *v)
			}
			c.MinScore = *v
		}
	}

	return c, nil
}

// parseFloat returns nil for an empty value, which leaves a revenue bound open.
func parseFloat(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, eris.Errorf("invalid %s %q", key, raw)
	}
	return &f, nil
}

func splitValues(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
