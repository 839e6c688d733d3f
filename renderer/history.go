package renderer

import (
	"fmt"
	"strings"

	"github.com/mlens/capgains"
)

// HistoryMarkdown renders the full transaction ledger of one investment in
// recorded order, with the realized outcome of each sale.
func HistoryMarkdown(inv capgains.Investment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Transactions for %s\n\n", inv.Symbol)
	fmt.Fprintln(&b, "| Date | Type | Shares | Price | Gain/Loss | Term | Wash |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|:---|:---|")

	for _, tx := range inv.Transactions {
		gain, term, wash := " ", " ", " "
		if tx.Type == capgains.Sell {
			gain = tx.GainLoss.SignedString()
			if tx.IsShortTerm {
				term = "short"
			} else {
				term = "long"
			}
			if tx.IsWashSale {
				wash = fmt.Sprintf("%s disallowed", tx.WashSaleDisallowedLoss)
			}
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			tx.Date,
			tx.Type,
			tx.Shares,
			tx.PricePerShare,
			gain,
			term,
			wash,
		)
	}

	return b.String()
}
