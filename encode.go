package capgains

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodePortfolio writes the portfolio as indented JSON. The engine owns no
// file format of its own; this is the caller-side serialization, kept
// deterministic (investments sort by symbol) so encoded portfolios diff
// cleanly under version control.
func EncodePortfolio(w io.Writer, p Portfolio) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("could not encode portfolio: %w", err)
	}
	return nil
}

// DecodePortfolio reads a portfolio previously written by EncodePortfolio.
func DecodePortfolio(r io.Reader) (Portfolio, error) {
	var p Portfolio
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return Portfolio{}, fmt.Errorf("could not decode portfolio: %w", err)
	}
	if p.Investments == nil {
		p.Investments = make(map[string]Investment)
	}
	return p, nil
}
