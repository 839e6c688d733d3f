// Package cmd implements the CLI application to track cost basis and
// capital gains.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/mlens/capgains"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&declareCmd{}, "portfolio")
	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&dripCmd{}, "transactions")
	c.Register(&splitCmd{}, "transactions")

	c.Register(&holdingCmd{}, "reports")
	c.Register(&lotsCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")

	c.Register(&pricesCmd{}, "prices")
	c.Register(&assistCmd{}, "assistant")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioFile = flag.String("portfolio-file", "portfolio.json", "Path to the portfolio file (JSON format)")
var defaultMethod = flag.String("default-method", "fifo", "Default cost basis method for new portfolios (fifo, lifo, average, specific)")

// DecodePortfolio loads the portfolio from the app portfolio file.
// If the file does not exist, it returns a new empty portfolio.
func DecodePortfolio() (capgains.Portfolio, error) {
	f, err := os.Open(*portfolioFile)
	if errors.Is(err, fs.ErrNotExist) {
		method, perr := capgains.ParseCostBasisMethod(*defaultMethod)
		if perr != nil {
			return capgains.Portfolio{}, perr
		}
		log.Println("warning, portfolio file does not exist, starting an empty portfolio instead")
		return capgains.New(method), nil
	}
	if err != nil {
		return capgains.Portfolio{}, fmt.Errorf("could not open portfolio file %q: %w", *portfolioFile, err)
	}
	defer f.Close()
	return capgains.DecodePortfolio(f)
}

// EncodePortfolio writes the portfolio back into the app portfolio file.
func EncodePortfolio(p capgains.Portfolio) error {
	f, err := os.Create(*portfolioFile)
	if err != nil {
		return fmt.Errorf("could not create portfolio file %q: %w", *portfolioFile, err)
	}
	defer f.Close()
	return capgains.EncodePortfolio(f, p)
}

// save persists the updated portfolio and reports the outcome the
// subcommands way.
func save(p capgains.Portfolio, action string) subcommands.ExitStatus {
	if err := EncodePortfolio(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing portfolio file %q: %v\n", *portfolioFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully recorded %s in %s\n", action, *portfolioFile)
	return subcommands.ExitSuccess
}

// printMarkdown renders a markdown report for the terminal, falling back to
// the raw text when rendering fails (e.g. output is not a tty).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
