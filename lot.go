package capgains

import (
	"github.com/google/uuid"
)

// TaxLot is a discrete block of shares from one acquisition, tracked
// separately for cost basis.
//
// Lots are never deleted: a fully sold lot stays in the ledger with
// RemainingShares at zero, which keeps the record of any wash-sale
// adjustments that were shifted onto it. Invariants:
// 0 <= RemainingShares <= Shares and AdjustedCostBasis >= TotalCost
// (wash-sale adjustments only ever add basis).
type TaxLot struct {
	ID                  string   `json:"id"`
	Symbol              string   `json:"symbol"`
	PurchaseDate        Date     `json:"purchaseDate"`
	Shares              Quantity `json:"shares"`
	CostPerShare        Money    `json:"costPerShare"`
	Fees                Money    `json:"fees"`
	TotalCost           Money    `json:"totalCost"`
	RemainingShares     Quantity `json:"remainingShares"`
	AdjustedCostBasis   Money    `json:"adjustedCostBasis"`
	WashSaleAdjustment  Money    `json:"washSaleAdjustment"`
	SourceTransactionID string   `json:"sourceTransactionId"`
}

// newLot creates the tax lot recording a purchase transaction.
func newLot(tx StockTransaction) TaxLot {
	totalCost := tx.PricePerShare.Mul(tx.Shares).Add(tx.Fees)
	return TaxLot{
		ID:                  uuid.NewString(),
		Symbol:              tx.Symbol,
		PurchaseDate:        tx.Date,
		Shares:              tx.Shares,
		CostPerShare:        tx.PricePerShare,
		Fees:                tx.Fees,
		TotalCost:           totalCost,
		RemainingShares:     tx.Shares,
		AdjustedCostBasis:   totalCost,
		WashSaleAdjustment:  M(0, tx.PricePerShare.Currency()),
		SourceTransactionID: tx.ID,
	}
}

// adjustedCostPerShare is the lot's per-share basis including wash-sale
// add-backs, over the original lot size.
func (l TaxLot) adjustedCostPerShare() Money {
	return l.AdjustedCostBasis.Div(l.Shares)
}

// isActive reports whether the lot still holds shares.
func (l TaxLot) isActive() bool {
	return l.RemainingShares.IsPositive()
}

// applySplit applies a stock split to every lot of the given symbol and
// returns the adjusted lots. Share counts scale by the ratio and the
// per-share cost scales inversely; the total dollar basis of each lot is
// invariant under a split, so TotalCost and AdjustedCostBasis are untouched.
func applySplit(lots []TaxLot, symbol string, ratio Quantity) []TaxLot {
	adjusted := make([]TaxLot, len(lots))
	for i, l := range lots {
		if l.Symbol == symbol {
			l.Shares = l.Shares.Mul(ratio)
			l.RemainingShares = l.RemainingShares.Mul(ratio)
			l.CostPerShare = l.CostPerShare.Div(ratio)
		}
		adjusted[i] = l
	}
	return adjusted
}
