package capgains

// Investment is the full per-security record: the lot ledger, the
// transaction history, and a summary freshly derived from them after every
// mutation.
type Investment struct {
	Symbol       string             `json:"symbol"`
	Name         string             `json:"name,omitempty"`
	IsMutualFund bool               `json:"isMutualFund,omitempty"`
	Lots         []TaxLot           `json:"lots"`
	Transactions []StockTransaction `json:"transactions"`

	// Derived summary.
	TotalShares         Quantity `json:"totalShares"`
	TotalCostBasis      Money    `json:"totalCostBasis"`
	AverageCostPerShare Money    `json:"averageCostPerShare"`
	CurrentPrice        Money    `json:"currentPrice,omitzero"`
	UnrealizedGainLoss  Money    `json:"unrealizedGainLoss,omitzero"`

	DefaultCostBasisMethod CostBasisMethod `json:"defaultCostBasisMethod"`
}

// refresh derives the summary fields from the lots. It is a full
// recomputation, not an incremental update. The basis of a partially sold
// lot is pro-rated over its remaining shares.
func (inv *Investment) refresh() {
	var shares Quantity
	var basis Money
	for _, l := range inv.Lots {
		if !l.isActive() {
			continue
		}
		shares = shares.Add(l.RemainingShares)
		basis = basis.Add(l.AdjustedCostBasis.Mul(l.RemainingShares).Div(l.Shares))
	}
	inv.TotalShares = shares
	inv.TotalCostBasis = basis
	if shares.IsPositive() {
		inv.AverageCostPerShare = basis.Div(shares)
	} else {
		inv.AverageCostPerShare = M(0, basis.Currency())
	}
	if !inv.CurrentPrice.IsZero() {
		inv.UnrealizedGainLoss = inv.CurrentPrice.Mul(shares).Sub(basis)
	} else {
		inv.UnrealizedGainLoss = Money{}
	}
}

// clone returns a deep enough copy for copy-on-write updates: the lot and
// transaction slices are fresh so mutating the copy never leaks into a
// previous Portfolio snapshot.
func (inv Investment) clone() Investment {
	c := inv
	c.Lots = make([]TaxLot, len(inv.Lots))
	copy(c.Lots, inv.Lots)
	c.Transactions = make([]StockTransaction, len(inv.Transactions))
	copy(c.Transactions, inv.Transactions)
	return c
}

// decrementLots consumes shares from the lots named by the selections and
// returns the updated lots. Lots are never removed, a drained lot stays with
// zero remaining shares.
func decrementLots(lots []TaxLot, selections []TaxLotSelection) []TaxLot {
	take := make(map[string]Quantity, len(selections))
	for _, s := range selections {
		take[s.LotID] = take[s.LotID].Add(s.SharesFromLot)
	}
	updated := make([]TaxLot, len(lots))
	for i, l := range lots {
		if q, ok := take[l.ID]; ok {
			l.RemainingShares = l.RemainingShares.Sub(q)
		}
		updated[i] = l
	}
	return updated
}
