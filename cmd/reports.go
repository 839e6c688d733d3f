package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mlens/capgains"
	"github.com/mlens/capgains/renderer"
)

type holdingCmd struct{}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the current positions" }
func (*holdingCmd) Usage() string {
	return `holding

  Displays every held position with its share count, average cost, and
  unrealized gain when a market price is known.
`
}
func (*holdingCmd) SetFlags(_ *flag.FlagSet) {}

func (c *holdingCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HoldingMarkdown(p))
	return subcommands.ExitSuccess
}

type lotsCmd struct {
	symbol string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "display the open tax lots of a symbol" }
func (*lotsCmd) Usage() string {
	return `lots -s <symbol>

  Displays the open tax lots of the symbol with their remaining shares and
  adjusted cost basis, the view used to designate lots for a specific
  identification sale.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Security symbol")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	inv, ok := p.Investments[c.symbol]
	if !ok {
		fmt.Fprintf(os.Stderr, "No position in %q\n", c.symbol)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.LotsMarkdown(inv))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	symbol string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the transaction history of a symbol" }
func (*historyCmd) Usage() string {
	return `history -s <symbol>

  Displays the full transaction ledger of the symbol with the realized
  outcome of each sale.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Security symbol")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	inv, ok := p.Investments[c.symbol]
	if !ok {
		fmt.Fprintf(os.Stderr, "No position in %q\n", c.symbol)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HistoryMarkdown(inv))
	return subcommands.ExitSuccess
}

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	taxYear int
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized gain analysis for a tax year" }
func (*gainsCmd) Usage() string {
	return `gains [-year <year>]

  Calculates and displays the realized gains of a tax year, split into
  short-term and long-term totals.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.taxYear, "year", capgains.Today().Year(), "Tax year to report on")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.GainsMarkdown(p.TaxYearSummary(c.taxYear)))
	return subcommands.ExitSuccess
}
