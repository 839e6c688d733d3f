package capgains

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// TransactionType identifies the kind of a stock transaction.
type TransactionType string

// Transaction types.
const (
	Buy                  TransactionType = "buy"
	Sell                 TransactionType = "sell"
	DividendReinvestment TransactionType = "dividend-reinvestment"
)

// TaxLotSelection designates how many shares of a sale are drawn from a
// single lot. For a sell the selections sum to the transaction's share count.
type TaxLotSelection struct {
	LotID         string   `json:"lotId"`
	SharesFromLot Quantity `json:"sharesFromLot"`
}

// StockTransaction is a single buy, sell, or dividend reinvestment.
//
// For sells, the engine computes and annotates the realized outcome
// (proceeds, cost basis, gain/loss, holding-period and wash-sale flags, and
// the lot selections that satisfied the sale). A transaction is immutable
// once computed; reprocessing produces a new value.
type StockTransaction struct {
	ID            string
	Symbol        string
	Type          TransactionType
	Date          Date
	Shares        Quantity
	PricePerShare Money
	Fees          Money

	// Computed on sells.
	Proceeds               Money
	CostBasis              Money
	GainLoss               Money
	IsShortTerm            bool
	IsWashSale             bool
	WashSaleDisallowedLoss Money
	LotSelections          []TaxLotSelection
}

// NewBuy creates a buy transaction.
func NewBuy(day Date, symbol string, shares Quantity, price, fees Money) StockTransaction {
	return StockTransaction{
		ID:            uuid.NewString(),
		Symbol:        symbol,
		Type:          Buy,
		Date:          day,
		Shares:        shares,
		PricePerShare: price,
		Fees:          fees,
	}
}

// NewSell creates a sell transaction. The realized outcome fields are blank
// until the portfolio processes it.
func NewSell(day Date, symbol string, shares Quantity, price, fees Money) StockTransaction {
	return StockTransaction{
		ID:            uuid.NewString(),
		Symbol:        symbol,
		Type:          Sell,
		Date:          day,
		Shares:        shares,
		PricePerShare: price,
		Fees:          fees,
	}
}

// NewDividendReinvestment creates a dividend reinvestment transaction. It is
// processed like a buy and counts as a replacement purchase for wash sales.
func NewDividendReinvestment(day Date, symbol string, shares Quantity, price Money) StockTransaction {
	return StockTransaction{
		ID:            uuid.NewString(),
		Symbol:        symbol,
		Type:          DividendReinvestment,
		Date:          day,
		Shares:        shares,
		PricePerShare: price,
	}
}

// isPurchase reports whether the transaction acquires shares.
func (t StockTransaction) isPurchase() bool {
	return t.Type == Buy || t.Type == DividendReinvestment
}

// Validate checks the transaction fields the engine depends on. Nonsensical
// numeric inputs are rejected here rather than propagated into silently
// wrong cost bases.
func (t StockTransaction) Validate() error {
	if t.Symbol == "" {
		return fmt.Errorf("%w: transaction symbol is missing", ErrInvalidInput)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: transaction date is missing", ErrInvalidInput)
	}
	switch t.Type {
	case Buy, Sell, DividendReinvestment:
	default:
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, t.Type)
	}
	if !t.Shares.IsPositive() {
		return fmt.Errorf("%w: %s shares must be positive, got %s", ErrInvalidInput, t.Type, t.Shares)
	}
	if !t.PricePerShare.IsPositive() {
		return fmt.Errorf("%w: %s price per share must be positive, got %s", ErrInvalidInput, t.Type, t.PricePerShare)
	}
	if t.Fees.IsNegative() {
		return fmt.Errorf("%w: %s fees must not be negative, got %s", ErrInvalidInput, t.Type, t.Fees)
	}
	return nil
}

// Equal reports whether two transactions are the same value, computed
// annotations included.
func (t StockTransaction) Equal(o StockTransaction) bool {
	if t.ID != o.ID || t.Symbol != o.Symbol || t.Type != o.Type || t.Date != o.Date ||
		!t.Shares.Equal(o.Shares) || !t.PricePerShare.Equal(o.PricePerShare) || !t.Fees.Equal(o.Fees) {
		return false
	}
	if !t.Proceeds.Equal(o.Proceeds) || !t.CostBasis.Equal(o.CostBasis) || !t.GainLoss.Equal(o.GainLoss) ||
		t.IsShortTerm != o.IsShortTerm || t.IsWashSale != o.IsWashSale ||
		!t.WashSaleDisallowedLoss.Equal(o.WashSaleDisallowedLoss) {
		return false
	}
	if len(t.LotSelections) != len(o.LotSelections) {
		return false
	}
	for i := range t.LotSelections {
		if t.LotSelections[i].LotID != o.LotSelections[i].LotID ||
			!t.LotSelections[i].SharesFromLot.Equal(o.LotSelections[i].SharesFromLot) {
			return false
		}
	}
	return true
}

// MarshalJSON implements the json.Marshaler interface for StockTransaction.
// Fields are written in a stable order, computed sale annotations only when
// present.
func (t StockTransaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("symbol", t.Symbol)
	w.Append("type", t.Type)
	w.Append("date", t.Date)
	w.Append("shares", t.Shares)
	w.Append("pricePerShare", t.PricePerShare)
	w.Optional("fees", t.Fees)
	if t.Type == Sell {
		w.Append("proceeds", t.Proceeds)
		w.Append("costBasis", t.CostBasis)
		w.Append("gainLoss", t.GainLoss)
		w.Append("isShortTerm", t.IsShortTerm)
		w.Optional("isWashSale", t.IsWashSale)
		w.Optional("washSaleDisallowedLoss", t.WashSaleDisallowedLoss)
		w.Optional("lotSelections", t.LotSelections)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for StockTransaction.
func (t *StockTransaction) UnmarshalJSON(data []byte) error {
	// Use a temporary type that has all possible fields.
	var temp struct {
		ID                     string            `json:"id"`
		Symbol                 string            `json:"symbol"`
		Type                   TransactionType   `json:"type"`
		Date                   Date              `json:"date"`
		Shares                 Quantity          `json:"shares"`
		PricePerShare          Money             `json:"pricePerShare"`
		Fees                   Money             `json:"fees"`
		Proceeds               Money             `json:"proceeds"`
		CostBasis              Money             `json:"costBasis"`
		GainLoss               Money             `json:"gainLoss"`
		IsShortTerm            bool              `json:"isShortTerm"`
		IsWashSale             bool              `json:"isWashSale"`
		WashSaleDisallowedLoss Money             `json:"washSaleDisallowedLoss"`
		LotSelections          []TaxLotSelection `json:"lotSelections"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = StockTransaction{
		ID:                     temp.ID,
		Symbol:                 temp.Symbol,
		Type:                   temp.Type,
		Date:                   temp.Date,
		Shares:                 temp.Shares,
		PricePerShare:          temp.PricePerShare,
		Fees:                   temp.Fees,
		Proceeds:               temp.Proceeds,
		CostBasis:              temp.CostBasis,
		GainLoss:               temp.GainLoss,
		IsShortTerm:            temp.IsShortTerm,
		IsWashSale:             temp.IsWashSale,
		WashSaleDisallowedLoss: temp.WashSaleDisallowedLoss,
		LotSelections:          temp.LotSelections,
	}
	return nil
}
