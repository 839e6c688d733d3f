package renderer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mlens/capgains"
)

// LotsMarkdown renders the open tax lots of one investment, oldest first,
// the view used to pick lots for a specific identification sale.
func LotsMarkdown(inv capgains.Investment) string {
	var b strings.Builder

	title := inv.Symbol
	if inv.Name != "" {
		title = fmt.Sprintf("%s (%s)", inv.Symbol, inv.Name)
	}
	fmt.Fprintf(&b, "# Tax Lots for %s\n\n", title)
	fmt.Fprintf(&b, "Default method: %s\n\n", inv.DefaultCostBasisMethod)

	fmt.Fprintln(&b, "| Lot ID | Purchased | Remaining | Cost/Share | Adjusted Basis | Wash Adj. |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")

	for _, l := range sortedLots(inv.Lots) {
		if l.RemainingShares.IsZero() {
			continue
		}
		washAdj := " "
		if !l.WashSaleAdjustment.IsZero() {
			washAdj = l.WashSaleAdjustment.SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			shortID(l.ID),
			l.PurchaseDate,
			l.RemainingShares,
			l.CostPerShare,
			l.AdjustedCostBasis,
			washAdj,
		)
	}
	fmt.Fprintf(&b, "| **Total** | | **%s** | | **%s** | |\n",
		inv.TotalShares,
		inv.TotalCostBasis,
	)

	return b.String()
}

// shortID keeps the first uuid group, enough to designate a lot on the
// command line.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func sortedLots(lots []capgains.TaxLot) []capgains.TaxLot {
	sorted := make([]capgains.TaxLot, len(lots))
	copy(sorted, lots)
	slices.SortStableFunc(sorted, func(a, b capgains.TaxLot) int {
		switch {
		case a.PurchaseDate.Before(b.PurchaseDate):
			return -1
		case a.PurchaseDate.After(b.PurchaseDate):
			return 1
		}
		return 0
	})
	return sorted
}
