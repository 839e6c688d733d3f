package capgains

// longTermHoldingDays is the holding period beyond which a gain is long-term.
// A fixed day count approximating the IRS "more than one year" rule: a lot
// held exactly 365 days is still short-term.
const longTermHoldingDays = 365

// GainLossBreakdown splits a sale's realized outcome into short-term and
// long-term buckets. Wash-sale status is not decided here; the portfolio
// merges it in from detection.
type GainLossBreakdown struct {
	ShortTermProceeds  Money
	ShortTermCostBasis Money
	ShortTermGain      Money
	LongTermProceeds   Money
	LongTermCostBasis  Money
	LongTermGain       Money
	TotalGain          Money
}

// isLongTerm reports whether a lot purchased on the given date is long-term
// when sold on the sale date.
func isLongTerm(purchase, sale Date) bool {
	return DaysBetween(purchase, sale) > longTermHoldingDays
}

// calculateGainLoss computes the short/long-term breakdown of a sale.
//
// Lots are the pre-sale lots; selections identify the shares sold; proceeds
// is the total sale amount net of fees. Under AverageCost every selected
// share is priced at the weighted average basis of the active lots and the
// whole sale is classified by the earliest active lot's holding period (a
// single bucket, not a weighted split). Under the other methods each
// selection carries its own lot's per-share adjusted basis and holding
// period. Proceeds are allocated to the buckets in proportion to shares sold
// in each, since a single sale has one price per share.
func calculateGainLoss(lots []TaxLot, selections []TaxLotSelection, saleDate Date, proceeds Money, method CostBasisMethod) GainLossBreakdown {
	currency := proceeds.Currency()
	byID := make(map[string]TaxLot, len(lots))
	for _, l := range lots {
		byID[l.ID] = l
	}

	var shortShares, longShares Quantity
	shortCost := M(0, currency)
	longCost := M(0, currency)

	if method == AverageCost {
		// Weighted average basis per share over all currently active lots.
		var totalShares Quantity
		totalBasis := M(0, currency)
		earliest := Date{}
		for _, l := range lots {
			if !l.isActive() {
				continue
			}
			totalShares = totalShares.Add(l.Shares)
			totalBasis = totalBasis.Add(l.AdjustedCostBasis)
			if earliest.IsZero() || l.PurchaseDate.Before(earliest) {
				earliest = l.PurchaseDate
			}
		}
		sold := selectedShares(selections)
		cost := M(0, currency)
		if totalShares.IsPositive() {
			cost = totalBasis.Div(totalShares).Mul(sold)
		}
		if isLongTerm(earliest, saleDate) {
			longShares, longCost = sold, cost
		} else {
			shortShares, shortCost = sold, cost
		}
	} else {
		for _, sel := range selections {
			lot, ok := byID[sel.LotID]
			if !ok {
				continue
			}
			cost := lot.adjustedCostPerShare().Mul(sel.SharesFromLot)
			if isLongTerm(lot.PurchaseDate, saleDate) {
				longShares = longShares.Add(sel.SharesFromLot)
				longCost = longCost.Add(cost)
			} else {
				shortShares = shortShares.Add(sel.SharesFromLot)
				shortCost = shortCost.Add(cost)
			}
		}
	}

	totalShares := shortShares.Add(longShares)
	shortProceeds := M(0, currency)
	longProceeds := M(0, currency)
	if totalShares.IsPositive() {
		shortProceeds = proceeds.Mul(shortShares).Div(totalShares)
		longProceeds = proceeds.Mul(longShares).Div(totalShares)
	}

	b := GainLossBreakdown{
		ShortTermProceeds:  shortProceeds,
		ShortTermCostBasis: shortCost,
		ShortTermGain:      shortProceeds.Sub(shortCost),
		LongTermProceeds:   longProceeds,
		LongTermCostBasis:  longCost,
		LongTermGain:       longProceeds.Sub(longCost),
	}
	b.TotalGain = b.ShortTermGain.Add(b.LongTermGain)
	return b
}
