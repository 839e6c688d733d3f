package capgains

import (
	"fmt"
	"time"
)

// Portfolio is the root record: one Investment per held symbol.
//
// Every mutating operation returns a new Portfolio value derived from the
// previous one; nothing is shared mutably between snapshots. The engine has
// no internal locking, so callers issuing concurrent operations against the
// same portfolio must serialize writes.
type Portfolio struct {
	Investments   map[string]Investment `json:"investments"`
	DefaultMethod CostBasisMethod       `json:"defaultMethod"`
	LastUpdated   time.Time             `json:"lastUpdated"`
}

// New creates an empty portfolio with the given default cost basis method.
func New(method CostBasisMethod) Portfolio {
	return Portfolio{
		Investments:   make(map[string]Investment),
		DefaultMethod: method,
	}
}

// with returns a copy of the portfolio with the given investment replaced
// and the update time bumped.
func (p Portfolio) with(inv Investment) Portfolio {
	investments := make(map[string]Investment, len(p.Investments)+1)
	for k, v := range p.Investments {
		investments[k] = v
	}
	investments[inv.Symbol] = inv
	return Portfolio{
		Investments:   investments,
		DefaultMethod: p.DefaultMethod,
		LastUpdated:   time.Now(),
	}
}

// investment returns a deep copy of the named investment, or a new empty one
// when create is set and the symbol is unseen.
func (p Portfolio) investment(symbol string, create bool) (Investment, error) {
	inv, ok := p.Investments[symbol]
	if !ok {
		if !create {
			return Investment{}, fmt.Errorf("%w: no position in %q", ErrNotFound, symbol)
		}
		method := p.DefaultMethod
		return Investment{Symbol: symbol, DefaultCostBasisMethod: method}, nil
	}
	return inv.clone(), nil
}

// Declare registers a security under its symbol with a display name and
// fund classification, before any trade references it. Mutual funds default
// to average cost; everything else inherits the portfolio default method.
// Declaring an already-held symbol updates the name and classification only.
func (p Portfolio) Declare(symbol, name string, mutualFund bool) Portfolio {
	inv, err := p.investment(symbol, true)
	if err != nil {
		panic("unreachable") // create was set
	}
	inv.Name = name
	inv.IsMutualFund = mutualFund
	if len(inv.Transactions) == 0 {
		if mutualFund {
			inv.DefaultCostBasisMethod = AverageCost
		} else {
			inv.DefaultCostBasisMethod = p.DefaultMethod
		}
	}
	return p.with(inv)
}

// ProcessBuy records a purchase (or dividend reinvestment): it creates the
// tax lot, appends the transaction, and rederives the investment summary. A
// new investment is created if the symbol is unseen.
func (p Portfolio) ProcessBuy(tx StockTransaction) (Portfolio, error) {
	if err := tx.Validate(); err != nil {
		return p, err
	}
	if tx.Type == Sell {
		return p, fmt.Errorf("%w: ProcessBuy cannot record a sell", ErrInvalidInput)
	}

	inv, err := p.investment(tx.Symbol, true)
	if err != nil {
		return p, err
	}

	inv.Lots = append(inv.Lots, newLot(tx))
	inv.Transactions = append(inv.Transactions, tx)
	inv.refresh()
	return p.with(inv), nil
}

// ProcessSell records a sale: it resolves the cost basis method and the lot
// selections, computes the realized gain/loss split by holding period, runs
// wash-sale detection over the full history including this sale, annotates
// the transaction, consumes shares from the selected lots, and shifts any
// disallowed loss onto the replacement lot.
//
// Pass UnspecifiedMethod to use the investment's default method, and nil
// selections to auto-select lots. Specific identification always requires
// explicit selections.
func (p Portfolio) ProcessSell(tx StockTransaction, method CostBasisMethod, selections []TaxLotSelection) (Portfolio, error) {
	if err := tx.Validate(); err != nil {
		return p, err
	}
	if tx.Type != Sell {
		return p, fmt.Errorf("%w: ProcessSell requires a sell transaction, got %q", ErrInvalidInput, tx.Type)
	}

	inv, err := p.investment(tx.Symbol, false)
	if err != nil {
		return p, err
	}

	if method == UnspecifiedMethod {
		// The investment default: average cost for mutual funds, otherwise
		// the method it inherited from the portfolio.
		method = inv.DefaultCostBasisMethod
	}

	if selections == nil {
		selections, err = selectLots(inv.Lots, method, tx.Shares)
		if err != nil {
			return p, err
		}
	} else if err := validateSelections(inv.Lots, selections, tx.Shares); err != nil {
		return p, err
	}

	proceeds := tx.PricePerShare.Mul(tx.Shares).Sub(tx.Fees)
	breakdown := calculateGainLoss(inv.Lots, selections, tx.Date, proceeds, method)

	tx.Proceeds = proceeds
	tx.CostBasis = breakdown.ShortTermCostBasis.Add(breakdown.LongTermCostBasis)
	tx.GainLoss = breakdown.TotalGain
	tx.IsShortTerm = !breakdown.ShortTermCostBasis.IsZero() && breakdown.LongTermCostBasis.IsZero()
	tx.LotSelections = selections

	history := append(append([]StockTransaction{}, inv.Transactions...), tx)
	ws, isWash := detectWashSale(tx, history, inv.Lots)
	tx.IsWashSale = isWash
	if isWash {
		tx.WashSaleDisallowedLoss = ws.DisallowedLoss
	}

	inv.Lots = decrementLots(inv.Lots, selections)
	if isWash {
		inv.Lots = applyWashSale(inv.Lots, ws)
	}
	inv.Transactions = append(inv.Transactions, tx)
	inv.refresh()
	return p.with(inv), nil
}

// validateSelections checks explicitly designated lots: every lot must exist
// with enough remaining shares, and the selections must cover the sale
// exactly.
func validateSelections(lots []TaxLot, selections []TaxLotSelection, shares Quantity) error {
	byID := make(map[string]TaxLot, len(lots))
	for _, l := range lots {
		byID[l.ID] = l
	}
	for _, s := range selections {
		lot, ok := byID[s.LotID]
		if !ok {
			return fmt.Errorf("%w: unknown lot %q in selection", ErrInvalidInput, s.LotID)
		}
		if lot.RemainingShares.LessThan(s.SharesFromLot) {
			return fmt.Errorf("%w: lot %q has %s shares remaining, selection wants %s",
				ErrInvalidInput, s.LotID, lot.RemainingShares, s.SharesFromLot)
		}
	}
	if total := selectedShares(selections); !total.Equal(shares) {
		return fmt.Errorf("%w: selections cover %s shares, sale is for %s", ErrInvalidInput, total, shares)
	}
	return nil
}

// ApplyStockSplit applies a forward split (ratio > 1) or reverse split
// (ratio < 1) to every lot of the symbol. The dollar basis of each lot is
// unchanged.
func (p Portfolio) ApplyStockSplit(symbol string, ratio Quantity) (Portfolio, error) {
	if !ratio.IsPositive() {
		return p, fmt.Errorf("%w: split ratio must be positive, got %s", ErrInvalidInput, ratio)
	}
	inv, err := p.investment(symbol, false)
	if err != nil {
		return p, err
	}
	inv.Lots = applySplit(inv.Lots, symbol, ratio)
	inv.refresh()
	return p.with(inv), nil
}

// SetCurrentPrice records the externally supplied market price for a symbol
// and refreshes its unrealized gain/loss.
func (p Portfolio) SetCurrentPrice(symbol string, price Money) (Portfolio, error) {
	if !price.IsPositive() {
		return p, fmt.Errorf("%w: price must be positive, got %s", ErrInvalidInput, price)
	}
	inv, err := p.investment(symbol, false)
	if err != nil {
		return p, err
	}
	inv.CurrentPrice = price
	inv.refresh()
	return p.with(inv), nil
}

// Transactions returns every transaction across all investments. Ordering
// follows per-investment history; callers needing a global order sort by
// date.
func (p Portfolio) Transactions() []StockTransaction {
	var txs []StockTransaction
	for _, inv := range p.Investments {
		txs = append(txs, inv.Transactions...)
	}
	return txs
}
