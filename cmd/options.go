package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadscore/internal/export"
	"github.com/sells-group/leadscore/internal/lead"
)

// optionsView is the facet listing printed by the options command.
type optionsView struct {
	lead.Options `yaml:",inline"`
	Companies    []string `json:"companies" yaml:"companies"`
	Summary      string   `json:"summary" yaml:"summary"`
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List filter choices and the companies in the current result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "table", "json", "yaml":
		default:
			return eris.Errorf("options: --format must be table, json or yaml (got %q)", format)
		}

		tbl, res, err := runPipeline(cmd)
		if err != nil {
			return err
		}

		view := optionsView{
			Options:   lead.OptionsOf(tbl),
			Companies: lead.Companies(res.Leads),
			Summary:   export.Summary(res.Criteria, tbl),
		}
		return writeOptions(cmd.OutOrStdout(), view, format)
	},
}

func init() {
	addFilterFlags(optionsCmd)
	optionsCmd.Flags().String("format", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(optionsCmd)
}

func writeOptions(w io.Writer, v optionsView, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "options: encode json")
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "options: encode yaml")
		}
		if err := enc.Close(); err != nil {
			return eris.Wrap(err, "options: encode yaml")
		}
		return nil
	}

	fmt.Fprintf(w, "Industries: %s\n", joinOrNone(v.Industries))
	if v.HasCity {
		fmt.Fprintf(w, "Cities:     %s\n", joinOrNone(v.Cities))
	}
	fmt.Fprintf(w, "Revenue:    %s - %s\n", export.Money(v.RevenueMin), export.Money(v.RevenueMax))
	fmt.Fprintln(w)
	fmt.Fprintln(w, v.Summary)
	fmt.Fprintf(w, "Companies (%d):\n", len(v.Companies))
	for _, c := range v.Companies {
		fmt.Fprintf(w, "  %s\n", c)
	}
	return nil
}

func joinOrNone(vals []string) string {
	if len(vals) == 0 {
		return "(none)"
	}
	return strings.Join(vals, ", ")
}
