package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/export"
	"github.com/sells-group/leadscore/internal/lead"
	"github.com/sells-group/leadscore/internal/model"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Filter, score and enrich leads",
	Long: `Run the lead pipeline: filter by industry, city and revenue, optionally
collapse duplicate website domains, score each lead 0-100, attach a contact
email and keep leads at or above the minimum score.

Examples:
  # Software leads in Austin with at least $10M revenue
  score --industry Software --city Austin --min-revenue 10

  # Every lead, including the ones below the threshold
  score --min-score 0 --raw

  # Export the result as a workbook
  score --format xlsx --output filtered_leads.xlsx

  # Write the configured export file as well as printing the table
  score --export`,
	RunE: runScore,
}

func init() {
	addFilterFlags(scoreCmd)
	f := scoreCmd.Flags()
	f.String("format", "table", "output format: table, csv, json or xlsx")
	f.String("output", "", "output file path (default: stdout)")
	f.Bool("raw", false, "output every filtered lead before the score threshold")
	f.Bool("export", false, "also write the export file from config (export.path, export.format)")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	raw, _ := cmd.Flags().GetBool("raw")
	doExport, _ := cmd.Flags().GetBool("export")

	switch format {
	case "table", "csv", "json":
	case "xlsx":
		if outputPath == "" {
			return eris.New("score: --format xlsx requires --output")
		}
	default:
		return eris.Errorf("score: --format must be table, csv, json or xlsx (got %q)", format)
	}

	log := zap.L().With(zap.String("command", "score"))

	tbl, res, err := runPipeline(cmd)
	if err != nil {
		return err
	}

	out := res.Leads
	if raw {
		out = res.Enriched
	}
	summary := export.Summary(res.Criteria, tbl)

	log.Info("scoring complete",
		zap.Int("source_rows", tbl.Len()),
		zap.Int("filtered", res.Enriched.Len()),
		zap.Int("qualified", res.Leads.Len()),
	)

	if err := outputLeads(cmd.OutOrStdout(), cmd.ErrOrStderr(), out, res, summary, format, outputPath); err != nil {
		return err
	}

	if doExport {
		if err := writeExportFile(out, cfg.Export.Format, cfg.Export.Path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d leads to %s\n", out.Len(), cfg.Export.Path)
	}
	return nil
}

func outputLeads(stdout, stderr io.Writer, t model.Table, res lead.Result, summary, format, outputPath string) error {
	if outputPath != "" {
		if err := writeExportFile(t, exportFormat(format, outputPath), outputPath); err != nil {
			return err
		}
		fmt.Fprintln(stderr, summary)
		fmt.Fprintf(stderr, "Wrote %d leads to %s\n", t.Len(), outputPath)
		return nil
	}

	switch format {
	case "csv":
		fmt.Fprintln(stderr, summary)
		return export.WriteCSV(stdout, t)
	case "json":
		return writeScoreJSON(stdout, t, res, summary)
	default:
		fmt.Fprintln(stdout, summary)
		fmt.Fprintln(stdout)
		fmt.Fprintf(stdout, "Leads with score >= %g (Total: %d)\n", res.Criteria.MinScore, t.Len())
		return writeLeadTable(stdout, t)
	}
}

// exportFormat picks the file format for --output: xlsx when asked for or
// implied by the extension, csv otherwise.
func exportFormat(format, path string) string {
	if format == "xlsx" || strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return "xlsx"
	}
	return "csv"
}

func writeExportFile(t model.Table, format, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "score: create output file %s", path)
	}
	defer f.Close() //nolint:errcheck

	id := export.NewID()
	switch format {
	case "xlsx":
		err = export.WriteXLSX(f, t)
	default:
		err = export.WriteCSV(f, t)
	}
	if err != nil {
		return eris.Wrapf(err, "score: write %s", path)
	}

	zap.L().Info("export written",
		zap.String("export_id", id),
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("rows", t.Len()),
	)
	return f.Close()
}

func writeScoreJSON(w io.Writer, t model.Table, res lead.Result, summary string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(struct {
		Summary  string        `json:"summary"`
		Total    int           `json:"total"`
		Criteria lead.Criteria `json:"criteria"`
		Leads    []model.Lead  `json:"leads"`
	}{
		Summary:  summary,
		Total:    t.Len(),
		Criteria: res.Criteria,
		Leads:    t.Leads,
	})
	if err != nil {
		return eris.Wrap(err, "score: encode json")
	}
	return nil
}

// writeLeadTable prints the dashboard columns.
func writeLeadTable(w io.Writer, t model.Table) error {
	header := fmt.Sprintf("%-30s %-15s %12s %8s %9s %7s %7s  %s\n",
		"Company", "Industry", "Revenue", "Growth", "Employees", "Founded", "Score", "Email")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "score: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 120)); err != nil {
		return eris.Wrap(err, "score: write table separator")
	}

	for _, l := range t.Leads {
		line := fmt.Sprintf("%-30s %-15s %12s %7.1f%% %9d %7d %7.2f  %s\n",
			truncate(l.Company, 30), truncate(l.Industry, 15), export.Money(l.Revenue),
			l.GrowthPct, l.Employees, l.YearFounded, l.LeadScore, l.Email)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "score: write table row")
		}
	}
	if t.Len() == 0 {
		if _, err := fmt.Fprintln(w, "No leads match the current filters."); err != nil {
			return eris.Wrap(err, "score: write table row")
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
