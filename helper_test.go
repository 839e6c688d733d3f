package capgains

// USD is a helper for tests to create dollar money from const
func USD(v float64) Money { return M(v, "USD") }

// buyOn is a helper to record a purchase and fail the test on error.
func buyOn(t interface{ Fatalf(string, ...any) }, p Portfolio, date, symbol string, shares, price, fees float64) Portfolio {
	p, err := p.ProcessBuy(NewBuy(MustParse(date), symbol, Q(shares), USD(price), USD(fees)))
	if err != nil {
		t.Fatalf("ProcessBuy(%s %s) error = %v", date, symbol, err)
	}
	return p
}

// sellOn is a helper to record a sale with the default method and automatic
// lot selection.
func sellOn(t interface{ Fatalf(string, ...any) }, p Portfolio, date, symbol string, shares, price, fees float64) Portfolio {
	p, err := p.ProcessSell(NewSell(MustParse(date), symbol, Q(shares), USD(price), USD(fees)), UnspecifiedMethod, nil)
	if err != nil {
		t.Fatalf("ProcessSell(%s %s) error = %v", date, symbol, err)
	}
	return p
}

// lastTx returns the most recent transaction recorded for a symbol.
func lastTx(p Portfolio, symbol string) StockTransaction {
	txs := p.Investments[symbol].Transactions
	return txs[len(txs)-1]
}
