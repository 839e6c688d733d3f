package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"

	"github.com/mlens/capgains"
)

// usePortfolioFile points the global portfolio file at a temp location for
// the duration of the test.
func usePortfolioFile(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "portfolio.json")

	oldFile := portfolioFile
	portfolioFile = &file
	t.Cleanup(func() { portfolioFile = oldFile })
	return file
}

func run(t *testing.T, cmd subcommands.Command, flags ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	for i := 0; i+1 < len(flags); i += 2 {
		if err := f.Set(flags[i], flags[i+1]); err != nil {
			t.Fatalf("setting flag -%s: %v", flags[i], err)
		}
	}
	return cmd.Execute(context.Background(), f)
}

func loadPortfolio(t *testing.T, file string) capgains.Portfolio {
	t.Helper()
	f, err := os.Open(file)
	if err != nil {
		t.Fatalf("opening portfolio file: %v", err)
	}
	defer f.Close()
	p, err := capgains.DecodePortfolio(f)
	if err != nil {
		t.Fatalf("decoding portfolio file: %v", err)
	}
	return p
}

func TestBuyThenSellRoundTrip(t *testing.T) {
	file := usePortfolioFile(t)

	if status := run(t, &buyCmd{}, "d", "2024-01-10", "s", "ABC", "q", "100", "p", "10", "fees", "5"); status != subcommands.ExitSuccess {
		t.Fatalf("buy status = %v", status)
	}
	if status := run(t, &sellCmd{}, "d", "2024-06-01", "s", "ABC", "q", "60", "p", "13.25", "fees", "0"); status != subcommands.ExitSuccess {
		t.Fatalf("sell status = %v", status)
	}

	p := loadPortfolio(t, file)
	inv, ok := p.Investments["ABC"]
	if !ok {
		t.Fatal("no ABC investment after buy and sell")
	}
	if !inv.TotalShares.Equal(capgains.Q(40)) {
		t.Errorf("TotalShares = %s, want 40", inv.TotalShares)
	}
	sold := inv.Transactions[len(inv.Transactions)-1]
	if sold.Type != capgains.Sell || !sold.IsShortTerm {
		t.Errorf("sale annotation: type = %q, shortTerm = %v", sold.Type, sold.IsShortTerm)
	}
}

func TestBuyRejectsMissingSymbol(t *testing.T) {
	usePortfolioFile(t)
	if status := run(t, &buyCmd{}, "d", "2024-01-10", "q", "100", "p", "10"); status != subcommands.ExitUsageError {
		t.Errorf("status = %v, want ExitUsageError", status)
	}
}

func TestSplitCommand(t *testing.T) {
	file := usePortfolioFile(t)

	run(t, &buyCmd{}, "d", "2024-01-10", "s", "ABC", "q", "100", "p", "10")
	if status := run(t, &splitCmd{}, "s", "ABC", "r", "2"); status != subcommands.ExitSuccess {
		t.Fatalf("split status = %v", status)
	}

	p := loadPortfolio(t, file)
	inv := p.Investments["ABC"]
	if !inv.TotalShares.Equal(capgains.Q(200)) {
		t.Errorf("TotalShares after 2:1 split = %s, want 200", inv.TotalShares)
	}
	if !inv.Lots[0].CostPerShare.Equal(capgains.M(5, "USD")) {
		t.Errorf("CostPerShare after 2:1 split = %s, want $5.00", inv.Lots[0].CostPerShare)
	}
}

func TestParseSelections(t *testing.T) {
	usePortfolioFile(t)

	run(t, &buyCmd{}, "d", "2024-01-10", "s", "ABC", "q", "100", "p", "10")
	run(t, &buyCmd{}, "d", "2024-02-10", "s", "ABC", "q", "50", "p", "12")

	p, err := DecodePortfolio()
	if err != nil {
		t.Fatalf("DecodePortfolio() error = %v", err)
	}
	inv := p.Investments["ABC"]
	lot := inv.Lots[1]

	// a unique prefix resolves to the full lot ID
	selections, err := parseSelections(lot.ID[:8]+":30", p, "ABC")
	if err != nil {
		t.Fatalf("parseSelections() error = %v", err)
	}
	if len(selections) != 1 || selections[0].LotID != lot.ID || !selections[0].SharesFromLot.Equal(capgains.Q(30)) {
		t.Errorf("selections = %+v", selections)
	}

	tests := []struct {
		name string
		in   string
	}{
		{"missing colon", "deadbeef"},
		{"bad share count", lot.ID[:8] + ":many"},
		{"unknown prefix", "zzzzzzzz:10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSelections(tt.in, p, "ABC"); err == nil {
				t.Errorf("parseSelections(%q) error = nil, want an error", tt.in)
			}
		})
	}

	if _, err := parseSelections("a:1", p, "NOPE"); err == nil || !strings.Contains(err.Error(), "no position") {
		t.Errorf("unknown symbol error = %v", err)
	}
}
