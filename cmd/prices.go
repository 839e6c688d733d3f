package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mlens/capgains"
)

// pricesCmd imports market prices from a broker JSON export.
type pricesCmd struct {
	file    string
	entries string
	symbol  string
	price   string
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "import market prices from a broker JSON export" }
func (*pricesCmd) Usage() string {
	return `prices -f <file> [-entries <path>] [-symbol <path>] [-price <path>]

  Reads quotes from a broker JSON export and records the market price of
  every matching position. The paths are jsonpath expressions, since every
  broker export has its own shape.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Path to the JSON export file")
	f.StringVar(&c.entries, "entries", capgains.DefaultQuoteSpec.Entries, "jsonpath to the list of quote entries")
	f.StringVar(&c.symbol, "symbol", capgains.DefaultQuoteSpec.Symbol, "jsonpath to the symbol inside one entry")
	f.StringVar(&c.price, "price", capgains.DefaultQuoteSpec.Price, "jsonpath to the price inside one entry")
}

func (c *pricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	doc, err := os.ReadFile(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading quotes file %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}

	spec := capgains.QuoteSpec{Entries: c.entries, Symbol: c.symbol, Price: c.price}
	prices, err := capgains.ExtractPrices(doc, spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting prices: %v\n", err)
		return subcommands.ExitFailure
	}

	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	updated := 0
	for symbol, price := range prices {
		next, err := p.SetCurrentPrice(symbol, capgains.M(price, "USD"))
		if errors.Is(err, capgains.ErrNotFound) {
			// the export covers more symbols than the portfolio holds
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error setting price of %s: %v\n", symbol, err)
			return subcommands.ExitFailure
		}
		p = next
		updated++
	}

	return save(p, fmt.Sprintf("prices for %d position(s)", updated))
}
