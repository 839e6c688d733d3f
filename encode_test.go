package capgains

import (
	"bytes"
	"testing"
)

func TestEncodeDecodePortfolioRoundTrip(t *testing.T) {
	p := New(FIFO)
	p = p.Declare("FUND", "Total Market Index", true)
	p = buyOn(t, p, "2024-01-10", "ABC", 100, 10, 5)
	p = buyOn(t, p, "2024-06-05", "ABC", 100, 8, 0)
	p = sellOn(t, p, "2024-06-01", "ABC", 100, 8, 5) // a wash sale
	p = buyOn(t, p, "2024-02-10", "FUND", 50, 10, 0)

	var buf bytes.Buffer
	if err := EncodePortfolio(&buf, p); err != nil {
		t.Fatalf("EncodePortfolio() error = %v", err)
	}

	back, err := DecodePortfolio(&buf)
	if err != nil {
		t.Fatalf("DecodePortfolio() error = %v", err)
	}

	if len(back.Investments) != len(p.Investments) {
		t.Fatalf("investments = %d, want %d", len(back.Investments), len(p.Investments))
	}
	for symbol, inv := range p.Investments {
		got, ok := back.Investments[symbol]
		if !ok {
			t.Fatalf("missing investment %q after round trip", symbol)
		}
		if len(got.Lots) != len(inv.Lots) || len(got.Transactions) != len(inv.Transactions) {
			t.Fatalf("%s: lots/txs = %d/%d, want %d/%d",
				symbol, len(got.Lots), len(got.Transactions), len(inv.Lots), len(inv.Transactions))
		}
		for i := range inv.Lots {
			if got.Lots[i].ID != inv.Lots[i].ID ||
				!got.Lots[i].AdjustedCostBasis.Equal(inv.Lots[i].AdjustedCostBasis) ||
				!got.Lots[i].RemainingShares.Equal(inv.Lots[i].RemainingShares) {
				t.Errorf("%s lot %d changed in round trip:\n got %+v\nwant %+v",
					symbol, i, got.Lots[i], inv.Lots[i])
			}
		}
		for i := range inv.Transactions {
			if !got.Transactions[i].Equal(inv.Transactions[i]) {
				t.Errorf("%s tx %d changed in round trip:\n got %+v\nwant %+v",
					symbol, i, got.Transactions[i], inv.Transactions[i])
			}
		}
		if got.DefaultCostBasisMethod != inv.DefaultCostBasisMethod {
			t.Errorf("%s method = %v, want %v", symbol, got.DefaultCostBasisMethod, inv.DefaultCostBasisMethod)
		}
	}
	if back.DefaultMethod != p.DefaultMethod {
		t.Errorf("DefaultMethod = %v, want %v", back.DefaultMethod, p.DefaultMethod)
	}
}

func TestDecodePortfolioEmptyObject(t *testing.T) {
	p, err := DecodePortfolio(bytes.NewBufferString(`{}`))
	if err != nil {
		t.Fatalf("DecodePortfolio() error = %v", err)
	}
	if p.Investments == nil {
		t.Error("Investments map is nil, want empty map")
	}
}

func TestDecodePortfolioGarbage(t *testing.T) {
	if _, err := DecodePortfolio(bytes.NewBufferString(`not json`)); err == nil {
		t.Error("DecodePortfolio(garbage) error = nil, want an error")
	}
}
