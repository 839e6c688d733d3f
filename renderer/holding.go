package renderer

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mlens/capgains"
)

// HoldingMarkdown renders the current positions of the portfolio, one row
// per held symbol. Market value and unrealized gain columns stay blank for
// symbols without a recorded price.
func HoldingMarkdown(p capgains.Portfolio) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Holdings\n\n")
	fmt.Fprintln(&b, "| Symbol | Shares | Avg Cost | Cost Basis | Price | Unrealized |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")

	for _, symbol := range slices.Sorted(maps.Keys(p.Investments)) {
		inv := p.Investments[symbol]
		if inv.TotalShares.IsZero() {
			continue
		}
		price, unrealized := " ", " "
		if !inv.CurrentPrice.IsZero() {
			price = inv.CurrentPrice.String()
			unrealized = inv.UnrealizedGainLoss.SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			symbol,
			inv.TotalShares,
			inv.AverageCostPerShare,
			inv.TotalCostBasis,
			price,
			unrealized,
		)
	}

	return b.String()
}
