package renderer

import (
	"fmt"
	"strings"

	"github.com/mlens/capgains"
)

// GainsMarkdown renders the realized gain/loss summary of one tax year as
// the short-term and long-term totals a tax return asks for.
func GainsMarkdown(s capgains.GainLossSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Capital Gains Report for Tax Year %d\n\n", s.TaxYear)

	fmt.Fprintln(&b, "| Term | Proceeds | Cost Basis | Gain/Loss |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	fmt.Fprintf(&b, "| Short-Term | %s | %s | %s |\n",
		s.ShortTermProceeds,
		s.ShortTermCostBasis,
		s.ShortTermGainLoss.SignedString(),
	)
	fmt.Fprintf(&b, "| Long-Term | %s | %s | %s |\n",
		s.LongTermProceeds,
		s.LongTermCostBasis,
		s.LongTermGainLoss.SignedString(),
	)
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", s.TotalGainLoss.SignedString())

	if !s.WashSaleDisallowed.IsZero() {
		fmt.Fprintf(&b, "\nWash sale losses disallowed: %s\n", s.WashSaleDisallowed)
	}

	return b.String()
}
