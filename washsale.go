package capgains

// washSaleWindowDays is the one-sided width of the IRS wash-sale window: a
// replacement purchase within 30 days before or after a loss sale (61 days
// inclusive) disallows the loss.
const washSaleWindowDays = 30

// WashSale describes the outcome of wash-sale detection for a loss sale.
type WashSale struct {
	// DisallowedLoss is the portion of the sale's loss denied as a deduction.
	DisallowedLoss Money
	// ReplacementLotID is the lot whose basis absorbs the disallowed loss.
	ReplacementLotID string
}

// detectWashSale checks a sale against the symbol's full transaction history
// (including the sale itself) and current lots. It returns the wash-sale
// outcome and true when the sale realizes a loss with a replacement purchase
// inside the window, without mutating anything; applyWashSale shifts the
// basis.
func detectWashSale(sale StockTransaction, history []StockTransaction, lots []TaxLot) (WashSale, bool) {
	lossAmount := sale.CostBasis.Sub(sale.Proceeds)
	if !lossAmount.IsPositive() {
		return WashSale{}, false
	}

	// Replacement candidates: purchases of the same security within the
	// window, excluding the sale itself.
	lotByTx := make(map[string]TaxLot, len(lots))
	for _, l := range lots {
		if l.isActive() {
			lotByTx[l.SourceTransactionID] = l
		}
	}

	matched := false
	var matchLot TaxLot
	var matchOffset int
	for _, tx := range history {
		if tx.ID == sale.ID || tx.Symbol != sale.Symbol || !tx.isPurchase() {
			continue
		}
		offset := DaysBetween(sale.Date, tx.Date)
		if abs(offset) > washSaleWindowDays {
			continue
		}
		lot, ok := lotByTx[tx.ID]
		if !ok {
			continue
		}
		if !matched || betterReplacement(offset, matchOffset) {
			matched, matchLot, matchOffset = true, lot, offset
		}
	}
	if !matched {
		return WashSale{}, false
	}

	sharesReplaced := sale.Shares.Min(matchLot.RemainingShares)
	proportionalLoss := lossAmount.Mul(sharesReplaced).Div(sale.Shares)
	disallowed := lossAmount.Min(proportionalLoss)

	return WashSale{DisallowedLoss: disallowed, ReplacementLotID: matchLot.ID}, true
}

// betterReplacement reports whether a candidate purchase at day offset a
// beats the current best at offset b. Purchases on or after the sale date win
// over earlier ones; within the same side the nearest in time wins. Numeric
// expectations downstream depend on this exact tie-break.
func betterReplacement(a, b int) bool {
	if (a >= 0) != (b >= 0) {
		return a >= 0
	}
	return abs(a) < abs(b)
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// applyWashSale shifts the disallowed loss onto the replacement lot and
// returns the adjusted lots. The adjustment is cumulative: a lot can absorb
// disallowed losses from several wash sales over its life, and its adjusted
// basis only ever grows.
func applyWashSale(lots []TaxLot, ws WashSale) []TaxLot {
	adjusted := make([]TaxLot, len(lots))
	for i, l := range lots {
		if l.ID == ws.ReplacementLotID {
			l.AdjustedCostBasis = l.AdjustedCostBasis.Add(ws.DisallowedLoss)
			l.WashSaleAdjustment = l.WashSaleAdjustment.Add(ws.DisallowedLoss)
		}
		adjusted[i] = l
	}
	return adjusted
}

// WouldTriggerWashSale reports whether buying the given symbol on the given
// date would disallow the loss of a recent sale. It scans the history for
// losing sells of the symbol within the wash-sale window of the hypothetical
// purchase and returns the first one found. Meant for pre-trade warnings.
func WouldTriggerWashSale(history []StockTransaction, symbol string, purchase Date) (StockTransaction, bool) {
	for _, tx := range history {
		if tx.Symbol != symbol || tx.Type != Sell {
			continue
		}
		if !tx.GainLoss.IsNegative() {
			continue
		}
		if abs(DaysBetween(tx.Date, purchase)) <= washSaleWindowDays {
			return tx, true
		}
	}
	return StockTransaction{}, false
}
