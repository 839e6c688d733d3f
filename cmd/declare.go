package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mlens/capgains"
)

type declareCmd struct {
	symbol     string
	name       string
	mutualFund bool
}

func (*declareCmd) Name() string     { return "declare" }
func (*declareCmd) Synopsis() string { return "declare a security before trading it" }
func (*declareCmd) Usage() string {
	return `declare -s <symbol> [-name <name>] [-fund]

  Declares a security under its symbol. Mutual funds default to the
  average cost basis method.
`
}

func (c *declareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Security symbol")
	f.StringVar(&c.name, "name", "", "Display name of the security")
	f.BoolVar(&c.mutualFund, "fund", false, "Declare the security as a mutual fund")
}

func (c *declareCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	p = p.Declare(c.symbol, c.name, c.mutualFund)
	return save(p, fmt.Sprintf("declaration of %s", c.symbol))
}

type splitCmd struct {
	symbol string
	ratio  float64
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "apply a stock split to a position" }
func (*splitCmd) Usage() string {
	return `split -s <symbol> -r <ratio>

  Applies a stock split to every lot of the symbol: 2 for a 2:1 forward
  split, 0.1 for a 1:10 reverse split. The dollar basis of each lot is
  unchanged.
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Security symbol")
	f.Float64Var(&c.ratio, "r", 0, "Split ratio (new shares per old share)")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.ratio <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	p, err = p.ApplyStockSplit(c.symbol, capgains.Q(c.ratio))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error applying split: %v\n", err)
		return subcommands.ExitFailure
	}

	return save(p, fmt.Sprintf("%g:1 split of %s", c.ratio, c.symbol))
}
