package capgains

import (
	"fmt"
	"slices"
)

// selectLots picks lots to satisfy a sale of the given share count, returning
// an ordered list of selections that consume each lot fully before advancing
// to the next.
//
// FIFO walks lots in ascending purchase-date order, LIFO descending. Average
// cost identifies lots in FIFO order for record keeping; its pricing is the
// gain/loss calculator's concern. SpecificID never auto-selects: the caller
// must designate lots explicitly. Any other method value falls back to FIFO.
//
// If the lots cannot cover the requested shares the selection comes back
// short; callers that care must check the total.
func selectLots(lots []TaxLot, method CostBasisMethod, shares Quantity) ([]TaxLotSelection, error) {
	if method == SpecificID {
		return nil, fmt.Errorf("%w: specific identification requires explicit lot selections", ErrInvalidOperation)
	}

	active := make([]TaxLot, 0, len(lots))
	for _, l := range lots {
		if l.isActive() {
			active = append(active, l)
		}
	}

	// The sort is stable so that same-day lots drain in acquisition order.
	switch method {
	case LIFO:
		slices.SortStableFunc(active, func(a, b TaxLot) int {
			return compareDates(b.PurchaseDate, a.PurchaseDate)
		})
	default: // FIFO, AverageCost, and anything unrecognized
		slices.SortStableFunc(active, func(a, b TaxLot) int {
			return compareDates(a.PurchaseDate, b.PurchaseDate)
		})
	}

	var selections []TaxLotSelection
	remaining := shares
	for _, l := range active {
		if !remaining.IsPositive() {
			break
		}
		take := remaining.Min(l.RemainingShares)
		selections = append(selections, TaxLotSelection{LotID: l.ID, SharesFromLot: take})
		remaining = remaining.Sub(take)
	}
	return selections, nil
}

func compareDates(a, b Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// selectedShares sums the shares across a list of selections.
func selectedShares(selections []TaxLotSelection) Quantity {
	var total Quantity
	for _, s := range selections {
		total = total.Add(s.SharesFromLot)
	}
	return total
}
