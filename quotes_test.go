package capgains

import "testing"

func TestExtractPricesDefaultSpec(t *testing.T) {
	doc := []byte(`{
		"quotes": [
			{"symbol": "ABC", "price": 12.5},
			{"symbol": "XYZ", "price": 101},
			{"symbol": "IDL", "price": 0}
		]
	}`)

	prices, err := ExtractPrices(doc, DefaultQuoteSpec)
	if err != nil {
		t.Fatalf("ExtractPrices() error = %v", err)
	}
	want := map[string]float64{"ABC": 12.5, "XYZ": 101}
	if len(prices) != len(want) {
		t.Fatalf("prices = %v, want %v", prices, want)
	}
	for sym, p := range want {
		if prices[sym] != p {
			t.Errorf("prices[%q] = %v, want %v", sym, prices[sym], p)
		}
	}
	if _, ok := prices["IDL"]; ok {
		t.Error("zero-price entry was not skipped")
	}
}

func TestExtractPricesCustomSpec(t *testing.T) {
	// a shape with string prices using a decimal comma
	doc := []byte(`{
		"data": {
			"instruments": [
				{"isin": "DE0007100000", "ticker": "MBG", "last": "58,12"},
				{"isin": "DE0007164600", "ticker": "SAP", "last": "201,90"}
			]
		}
	}`)
	spec := QuoteSpec{
		Entries: "$.data.instruments",
		Symbol:  "$.ticker",
		Price:   "$.last",
	}

	prices, err := ExtractPrices(doc, spec)
	if err != nil {
		t.Fatalf("ExtractPrices() error = %v", err)
	}
	if prices["MBG"] != 58.12 {
		t.Errorf("prices[MBG] = %v, want 58.12", prices["MBG"])
	}
	if prices["SAP"] != 201.90 {
		t.Errorf("prices[SAP] = %v, want 201.90", prices["SAP"])
	}
}

func TestExtractPricesSingleEntry(t *testing.T) {
	doc := []byte(`{"quote": {"symbol": "ABC", "price": 9.75}}`)
	spec := QuoteSpec{Entries: "$.quote", Symbol: "$.symbol", Price: "$.price"}

	prices, err := ExtractPrices(doc, spec)
	if err != nil {
		t.Fatalf("ExtractPrices() error = %v", err)
	}
	if prices["ABC"] != 9.75 {
		t.Errorf("prices[ABC] = %v, want 9.75", prices["ABC"])
	}
}

func TestExtractPricesErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		spec QuoteSpec
	}{
		{"invalid json", `{`, DefaultQuoteSpec},
		{"bad entries path", `{"quotes": []}`, QuoteSpec{Entries: "$.[", Symbol: "$.symbol", Price: "$.price"}},
		{"non numeric price", `{"quotes": [{"symbol": "ABC", "price": "n/a"}]}`, DefaultQuoteSpec},
		{"non string symbol", `{"quotes": [{"symbol": 7, "price": 1.0}]}`, DefaultQuoteSpec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExtractPrices([]byte(tt.doc), tt.spec); err == nil {
				t.Error("ExtractPrices() error = nil, want an error")
			}
		})
	}
}
