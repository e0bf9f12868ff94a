package export

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/leadscore/internal/lead"
	"github.com/sells-group/leadscore/internal/model"
)

var printer = message.NewPrinter(language.English)

// Summary describes criteria c in one sentence, e.g.
//
//	Showing leads in Software, Fintech from Austin with revenue between $5M and $40M and lead score >= 50.
//
// Open revenue bounds fall back to the bounds of source, the unfiltered table.
func Summary(c lead.Criteria, source model.Table) string {
	opts := lead.OptionsOf(source)

	industries := "all industries"
	if len(c.Industries) > 0 {
		industries = strings.Join(c.Industries, ", ")
	}

	lo, hi := opts.RevenueMin, opts.RevenueMax
	if c.RevenueMin != nil {
		lo = *c.RevenueMin
	}
	if c.RevenueMax != nil {
		hi = *c.RevenueMax
	}

	var b strings.Builder
	b.WriteString("Showing leads in ")
	b.WriteString(industries)
	if source.HasCity && len(c.Cities) > 0 {
		b.WriteString(" from ")
		b.WriteString(strings.Join(c.Cities, ", "))
	}
	b.WriteString(printer.Sprintf(" with revenue between $%.0fM and $%.0fM", lo, hi))
	b.WriteString(" and lead score >= ")
	b.WriteString(strconv.FormatFloat(c.MinScore, 'f', -1, 64))
	b.WriteString(".")
	return b.String()
}

// Money formats a revenue figure in millions with thousands separators.
func Money(m float64) string {
	return printer.Sprintf("$%.1fM", m)
}
