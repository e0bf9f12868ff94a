package main

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadscore/internal/export"
	"github.com/sells-group/leadscore/internal/lead"
	"github.com/sells-group/leadscore/internal/model"
)

var showCmd = &cobra.Command{
	Use:   "show <company>",
	Short: "Show the details of one lead in the current result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, res, err := runPipeline(cmd)
		if err != nil {
			return err
		}

		l, ok := lead.Find(res.Leads, args[0])
		if !ok {
			if res.Leads.Len() == 0 {
				return eris.Errorf("show: no leads match the current filters")
			}
			return eris.Errorf("show: %q is not in the current result (%d leads; see 'leadscore options')",
				args[0], res.Leads.Len())
		}

		printLeadDetail(cmd.OutOrStdout(), l, tbl.HasCity)
		return nil
	},
}

func init() {
	addFilterFlags(showCmd)
	rootCmd.AddCommand(showCmd)
}

func printLeadDetail(w io.Writer, l model.Lead, hasCity bool) {
	fmt.Fprintf(w, "Company:      %s\n", l.Company)
	fmt.Fprintf(w, "Industry:     %s\n", l.Industry)
	if hasCity {
		fmt.Fprintf(w, "City:         %s\n", l.City)
	}
	fmt.Fprintf(w, "Revenue:      %s\n", export.Money(l.Revenue))
	fmt.Fprintf(w, "Growth %%:     %g%%\n", l.GrowthPct)
	fmt.Fprintf(w, "Employees:    %d\n", l.Employees)
	fmt.Fprintf(w, "Year Founded: %d\n", l.YearFounded)
	fmt.Fprintf(w, "Lead Score:   %.2f\n", l.LeadScore)
	fmt.Fprintf(w, "Email:        %s\n", l.Email)
	if l.Website != "" {
		fmt.Fprintf(w, "Website:      %s\n", l.Website)
	}

	fmt.Fprintln(w, "\nComponents:")
	fmt.Fprintf(w, "  %-10s %.2f\n", "revenue", l.RevenueScore)
	fmt.Fprintf(w, "  %-10s %.2f\n", "growth", l.GrowthScore)
	fmt.Fprintf(w, "  %-10s %.2f\n", "employees", l.EmployeesScore)
	fmt.Fprintf(w, "  %-10s %.2f\n", "age", l.AgeScore)
	fmt.Fprintf(w, "  %-10s %.2f\n", "keywords", l.KeywordScore)
}
