package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/mlens/capgains"
)

// --- Buy Command ---

type buyCmd struct {
	date     string
	symbol   string
	quantity float64
	price    float64
	fees     float64
	currency string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `buy -d <date> -s <symbol> -q <quantity> -p <price> [-fees <fees>]

  Purchases shares of a security. A new tax lot is created for the purchase.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", capgains.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Security symbol")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.Float64Var(&c.fees, "fees", 0, "Transaction fees, added to the lot's cost basis")
	f.StringVar(&c.currency, "c", "USD", "Currency of the price and fees")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity <= 0 || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := capgains.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	tx := capgains.NewBuy(day, c.symbol, capgains.Q(c.quantity),
		capgains.M(c.price, c.currency), capgains.M(c.fees, c.currency))
	p, err = p.ProcessBuy(tx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording buy: %v\n", err)
		return subcommands.ExitFailure
	}

	return save(p, fmt.Sprintf("buy of %s %s", tx.Shares, tx.Symbol))
}

// --- Sell Command ---

type sellCmd struct {
	date     string
	symbol   string
	quantity float64
	price    float64
	fees     float64
	currency string
	method   string
	lots     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares to trim or close a position" }
func (*sellCmd) Usage() string {
	return `sell -d <date> -s <symbol> -q <quantity> -p <price> [-fees <fees>] [-method <method>] [-lots <id:shares,...>]

  Sells shares of a security and reports the realized outcome. Lots are
  selected by the cost basis method, or designated explicitly with -lots
  for specific identification.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", capgains.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Security symbol")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.Float64Var(&c.fees, "fees", 0, "Transaction fees, deducted from the proceeds")
	f.StringVar(&c.currency, "c", "USD", "Currency of the price and fees")
	f.StringVar(&c.method, "method", "", "Cost basis method (fifo, lifo, average, specific). Defaults to the investment's method.")
	f.StringVar(&c.lots, "lots", "", "Explicit lot selections as <lotID>:<shares> pairs, comma separated")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity <= 0 || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := capgains.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	method := capgains.UnspecifiedMethod
	if c.method != "" {
		method, err = capgains.ParseCostBasisMethod(c.method)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}

	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	selections, err := parseSelections(c.lots, p, c.symbol)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	tx := capgains.NewSell(day, c.symbol, capgains.Q(c.quantity),
		capgains.M(c.price, c.currency), capgains.M(c.fees, c.currency))
	p, err = p.ProcessSell(tx, method, selections)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording sell: %v\n", err)
		return subcommands.ExitFailure
	}

	// Report the realized outcome of this sale.
	sold := lastTransaction(p, c.symbol)
	term := "long-term"
	if sold.IsShortTerm {
		term = "short-term"
	}
	fmt.Printf("Realized %s %s gain/loss (proceeds %s, cost basis %s)\n",
		sold.GainLoss.SignedString(), term, sold.Proceeds, sold.CostBasis)
	if sold.IsWashSale {
		fmt.Printf("Wash sale: %s of the loss is disallowed and added to the replacement lot's basis\n",
			sold.WashSaleDisallowedLoss)
	}

	return save(p, fmt.Sprintf("sell of %s %s", sold.Shares, sold.Symbol))
}

// parseSelections parses the -lots flag. Lot IDs may be abbreviated to a
// unique prefix, as printed by the lots report.
func parseSelections(s string, p capgains.Portfolio, symbol string) ([]capgains.TaxLotSelection, error) {
	if s == "" {
		return nil, nil
	}
	inv, ok := p.Investments[symbol]
	if !ok {
		return nil, fmt.Errorf("no position in %q", symbol)
	}

	var selections []capgains.TaxLotSelection
	for _, pair := range strings.Split(s, ",") {
		id, shares, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("invalid lot selection %q, want <lotID>:<shares>", pair)
		}
		q, err := strconv.ParseFloat(shares, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid share count in selection %q: %w", pair, err)
		}
		full, err := resolveLotID(inv, id)
		if err != nil {
			return nil, err
		}
		selections = append(selections, capgains.TaxLotSelection{LotID: full, SharesFromLot: capgains.Q(q)})
	}
	return selections, nil
}

func resolveLotID(inv capgains.Investment, prefix string) (string, error) {
	var match string
	for _, l := range inv.Lots {
		if strings.HasPrefix(l.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("lot ID prefix %q is ambiguous", prefix)
			}
			match = l.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no lot of %s matches ID prefix %q", inv.Symbol, prefix)
	}
	return match, nil
}

func lastTransaction(p capgains.Portfolio, symbol string) capgains.StockTransaction {
	txs := p.Investments[symbol].Transactions
	return txs[len(txs)-1]
}

// --- Dividend Reinvestment Command ---

type dripCmd struct {
	date     string
	symbol   string
	quantity float64
	price    float64
	currency string
}

func (*dripCmd) Name() string     { return "drip" }
func (*dripCmd) Synopsis() string { return "record a dividend reinvestment" }
func (*dripCmd) Usage() string {
	return `drip -d <date> -s <symbol> -q <quantity> -p <price>

  Records a dividend reinvestment. It creates a tax lot like a buy, and
  counts as a replacement purchase for wash sales.
`
}

func (c *dripCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", capgains.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Security symbol")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares acquired")
	f.Float64Var(&c.price, "p", 0, "Reinvestment price per share")
	f.StringVar(&c.currency, "c", "USD", "Currency of the price")
}

func (c *dripCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity <= 0 || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := capgains.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	tx := capgains.NewDividendReinvestment(day, c.symbol, capgains.Q(c.quantity), capgains.M(c.price, c.currency))

	// Warn before the basis quietly absorbs a recent loss.
	if sale, triggered := capgains.WouldTriggerWashSale(p.Investments[c.symbol].Transactions, c.symbol, day); triggered {
		fmt.Printf("Note: this reinvestment is within 30 days of the %s loss sale and may disallow part of that loss\n", sale.Date)
	}

	p, err = p.ProcessBuy(tx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording reinvestment: %v\n", err)
		return subcommands.ExitFailure
	}

	return save(p, fmt.Sprintf("dividend reinvestment of %s %s", tx.Shares, tx.Symbol))
}
