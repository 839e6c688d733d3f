package capgains

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// QuoteSpec describes where quotes live in a broker JSON export. Every
// export has its own shape, so the paths are jsonpath expressions supplied
// by the caller.
type QuoteSpec struct {
	Entries string // selects the list of quote entries in the document
	Symbol  string // selects the ticker symbol inside one entry
	Price   string // selects the last price inside one entry
}

// DefaultQuoteSpec matches the simple export shape
// {"quotes":[{"symbol":...,"price":...}]}.
var DefaultQuoteSpec = QuoteSpec{
	Entries: "$.quotes",
	Symbol:  "$.symbol",
	Price:   "$.price",
}

// ExtractPrices pulls symbol to price pairs out of a broker JSON export.
// Prices come back as float64: market quotes are display inputs for
// unrealized gains, not part of the exact cost basis arithmetic.
func ExtractPrices(doc []byte, spec QuoteSpec) (map[string]float64, error) {
	var jobj any
	if err := json.Unmarshal(doc, &jobj); err != nil {
		return nil, fmt.Errorf("invalid quote document: %w", err)
	}

	jval, err := jsonpath.Get(spec.Entries, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating entries path %q: %w", spec.Entries, err)
	}
	entries, ok := jval.([]any)
	if !ok {
		// a single entry document
		entries = []any{jval}
	}

	prices := make(map[string]float64, len(entries))
	for i, entry := range entries {
		symbol, err := stringAt(entry, spec.Symbol)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		price, err := floatAt(entry, spec.Price)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, symbol, err)
		}
		if price == 0 {
			// some exports blank out symbols without a trade today
			continue
		}
		prices[symbol] = price
	}
	return prices, nil
}

func stringAt(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error evaluating %q: %w", path, err)
	}
	jval = unwrap(jval)
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("path %q is not a string: %v", path, jval)
	}
	return s, nil
}

func floatAt(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	jval = unwrap(jval)
	val, ok := jval.(float64)
	if ok {
		return val, nil
	}
	// some APIs return the value as a string, possibly with a decimal comma
	sval, ok := jval.(string)
	if !ok {
		return 0, fmt.Errorf("path %q is neither a float nor a string: %v", path, jval)
	}
	sval = strings.ReplaceAll(sval, ",", ".")
	sval = strings.ReplaceAll(sval, " ", "")
	val, err = strconv.ParseFloat(sval, 64)
	if err != nil {
		return 0, fmt.Errorf("path %q is an invalid number %q: %w", path, sval, err)
	}
	return val, nil
}

// unwrap keeps the first element when jsonpath returns a list of one answer,
// because jsonpath is never clear about whether it returns a list of 1
// answer or a single answer.
func unwrap(jval any) any {
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		return jlist[0]
	}
	return jval
}
