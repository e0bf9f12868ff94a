package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/config"
	"github.com/sells-group/leadscore/internal/lead"
	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/source"
)

// addFilterFlags registers the criteria flags shared by every command that
// runs the pipeline.
func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("industry", nil, "industries to keep (repeatable or comma-separated; default all)")
	f.StringSlice("city", nil, "cities to keep (repeatable or comma-separated; default all)")
	f.Float64("min-revenue", 0, "minimum revenue in millions (inclusive)")
	f.Float64("max-revenue", 0, "maximum revenue in millions (inclusive)")
	f.Bool("dedupe", true, "collapse leads sharing a website domain")
	f.Float64("min-score", 0, "minimum lead score 0-100 (overrides config)")
}

// buildCriteria layers config defaults, the --preset file and explicit flags,
// in that order.
func buildCriteria(cmd *cobra.Command, base config.FilterConfig) (lead.Criteria, error) {
	c := lead.CriteriaFromConfig(base)

	if path, _ := cmd.Flags().GetString("preset"); path != "" {
		p, err := lead.LoadPreset(path)
		if err != nil {
			return lead.Criteria{}, err
		}
		c = p.Apply(c)
	}

	f := cmd.Flags()
	if f.Changed("industry") {
		v, _ := f.GetStringSlice("industry")
		c.Industries = splitAndTrim(v)
	}
	if f.Changed("city") {
		v, _ := f.GetStringSlice("city")
		c.Cities = splitAndTrim(v)
	}
	if f.Changed("min-revenue") {
		v, _ := f.GetFloat64("min-revenue")
		c.RevenueMin = &v
	}
	if f.Changed("max-revenue") {
		v, _ := f.GetFloat64("max-revenue")
		c.RevenueMax = &v
	}
	if f.Changed("dedupe") {
		c.Dedupe, _ = f.GetBool("dedupe")
	}
	if f.Changed("min-score") {
		c.MinScore, _ = f.GetFloat64("min-score")
	}

	if c.MinScore < 0 || c.MinScore > 100 {
		return lead.Criteria{}, eris.Errorf("--min-score must be between 0 and 100 (got %g)", c.MinScore)
	}
	if c.RevenueMin != nil && c.RevenueMax != nil && *c.RevenueMin > *c.RevenueMax {
		return lead.Criteria{}, eris.Errorf("--min-revenue %g exceeds --max-revenue %g", *c.RevenueMin, *c.RevenueMax)
	}
	return c, nil
}

// scoringConfig returns the validated scoring settings.
func scoringConfig(c *config.Config) (config.ScoringConfig, error) {
	if err := config.ValidateScoring(c.Scoring); err != nil {
		return config.ScoringConfig{}, err
	}
	return c.Scoring, nil
}

// loadTable opens the configured source and reads the whole table.
func loadTable(ctx context.Context, sc config.SourceConfig) (model.Table, error) {
	src, err := source.Open(ctx, sc)
	if err != nil {
		return model.Table{}, eris.Wrap(err, "open source")
	}
	defer src.Close() //nolint:errcheck

	t, err := src.Load(ctx)
	if err != nil {
		if eris.Is(err, source.ErrMissingColumn) {
			zap.L().Error("lead source is missing required columns",
				zap.String("driver", sc.SourceDriver()),
				zap.Strings("required", model.RequiredColumns),
				zap.Error(err),
			)
		}
		return model.Table{}, err
	}
	return t, nil
}

// runPipeline loads the table and runs the pipeline with the command's criteria.
func runPipeline(cmd *cobra.Command) (model.Table, lead.Result, error) {
	c, err := buildCriteria(cmd, cfg.Filter)
	if err != nil {
		return model.Table{}, lead.Result{}, err
	}
	sc, err := scoringConfig(cfg)
	if err != nil {
		return model.Table{}, lead.Result{}, err
	}
	t, err := loadTable(cmd.Context(), cfg.Source)
	if err != nil {
		return model.Table{}, lead.Result{}, err
	}
	return t, lead.Run(t, c, sc), nil
}

func splitAndTrim(vals []string) []string {
	var result []string
	for _, p := range vals {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
