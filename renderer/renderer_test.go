package renderer

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/mlens/capgains"
)

func USD(v float64) capgains.Money { return capgains.M(v, "USD") }

// parseReport parses a rendered report and returns its first heading and the
// rows of every table, one slice of cell texts per row. Rendering markdown
// that does not parse back is a bug in the renderer.
func parseReport(t *testing.T, report string) (heading string, rows [][]string) {
	t.Helper()

	source := []byte(report)
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(source))

	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			if heading == "" {
				heading = string(n.Text(source))
			}
		case *east.TableHeader, *east.TableRow:
			var cells []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				cells = append(cells, strings.TrimSpace(string(c.Text(source))))
			}
			rows = append(rows, cells)
		}
		return ast.WalkContinue, nil
	})
	return heading, rows
}

// rowWith returns the first row whose first cell matches.
func rowWith(t *testing.T, rows [][]string, first string) []string {
	t.Helper()
	for _, row := range rows {
		if len(row) > 0 && row[0] == first {
			return row
		}
	}
	t.Fatalf("no table row starting with %q in %v", first, rows)
	return nil
}

func TestGainsMarkdown(t *testing.T) {
	s := capgains.GainLossSummary{
		TaxYear:            2024,
		ShortTermProceeds:  USD(900),
		ShortTermCostBasis: USD(1000),
		ShortTermGainLoss:  USD(-100),
		LongTermProceeds:   USD(1500),
		LongTermCostBasis:  USD(1000),
		LongTermGainLoss:   USD(500),
		TotalGainLoss:      USD(400),
		WashSaleDisallowed: USD(100),
	}

	report := GainsMarkdown(s)
	heading, rows := parseReport(t, report)

	if want := "Capital Gains Report for Tax Year 2024"; heading != want {
		t.Errorf("heading = %q, want %q", heading, want)
	}

	short := rowWith(t, rows, "Short-Term")
	if short[3] != "-$100.00" {
		t.Errorf("short-term gain cell = %q, want %q", short[3], "-$100.00")
	}
	long := rowWith(t, rows, "Long-Term")
	if long[1] != "$1,500.00" || long[3] != "+$500.00" {
		t.Errorf("long-term row = %v", long)
	}
	total := rowWith(t, rows, "Total")
	if total[3] != "+$400.00" {
		t.Errorf("total gain cell = %q, want %q", total[3], "+$400.00")
	}

	if !strings.Contains(report, "Wash sale losses disallowed: $100.00") {
		t.Errorf("report is missing the wash sale note:\n%s", report)
	}
}

func TestGainsMarkdownNoWashNote(t *testing.T) {
	report := GainsMarkdown(capgains.GainLossSummary{TaxYear: 2024})
	if strings.Contains(report, "Wash sale") {
		t.Errorf("report has a wash sale note without disallowed losses:\n%s", report)
	}
}

func TestHoldingMarkdown(t *testing.T) {
	p := capgains.New(capgains.FIFO)
	p = buy(t, p, "2024-01-10", "ABC", 100, 10)
	p = buy(t, p, "2024-02-10", "XYZ", 50, 20)
	p = sell(t, p, "2024-03-01", "XYZ", 50, 22) // fully sold, should not show
	p, err := p.SetCurrentPrice("ABC", USD(12))
	if err != nil {
		t.Fatalf("SetCurrentPrice() error = %v", err)
	}

	_, rows := parseReport(t, HoldingMarkdown(p))

	abc := rowWith(t, rows, "ABC")
	if abc[1] != "100" || abc[2] != "$10.00" || abc[3] != "$1,000.00" {
		t.Errorf("ABC row = %v", abc)
	}
	if abc[4] != "$12.00" || abc[5] != "+$200.00" {
		t.Errorf("ABC price/unrealized = %v", abc)
	}
	for _, row := range rows {
		if len(row) > 0 && row[0] == "XYZ" {
			t.Errorf("fully sold XYZ still listed: %v", row)
		}
	}
}

func TestLotsMarkdown(t *testing.T) {
	p := capgains.New(capgains.FIFO)
	// entered out of date order: the report sorts by purchase date
	p = buy(t, p, "2024-06-05", "ABC", 50, 9)
	p = buy(t, p, "2024-01-10", "ABC", 100, 10)
	p = sell(t, p, "2024-06-01", "ABC", 100, 8) // wash sale against the June lot

	_, rows := parseReport(t, LotsMarkdown(p.Investments["ABC"]))

	// header + the surviving June lot + total: the drained January lot is gone
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3:\n%v", len(rows), rows)
	}
	lot := rows[1]
	if lot[1] != "2024-06-05" || lot[2] != "50" {
		t.Errorf("lot row = %v", lot)
	}
	if lot[5] != "+$100.00" {
		t.Errorf("wash adjustment cell = %q, want %q", lot[5], "+$100.00")
	}
	total := rowWith(t, rows, "Total")
	if total[2] != "50" {
		t.Errorf("total shares cell = %q, want %q", total[2], "50")
	}
}

func TestHistoryMarkdown(t *testing.T) {
	p := capgains.New(capgains.FIFO)
	p = buy(t, p, "2024-01-10", "ABC", 100, 10)
	p = buy(t, p, "2024-06-05", "ABC", 100, 8)
	p = sell(t, p, "2024-06-01", "ABC", 100, 8)

	_, rows := parseReport(t, HistoryMarkdown(p.Investments["ABC"]))

	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4:\n%v", len(rows), rows)
	}
	sale := rowWith(t, rows, "2024-06-01")
	if sale[1] != "sell" {
		t.Errorf("type cell = %q, want %q", sale[1], "sell")
	}
	if sale[4] != "-$200.00" || sale[5] != "short" {
		t.Errorf("sale row = %v", sale)
	}
	if sale[6] != "$200.00 disallowed" {
		t.Errorf("wash cell = %q, want %q", sale[6], "$200.00 disallowed")
	}
}

// buy and sell are shorthands to grow a test portfolio without fees.

func buy(t *testing.T, p capgains.Portfolio, date, symbol string, shares, price float64) capgains.Portfolio {
	t.Helper()
	p, err := p.ProcessBuy(capgains.NewBuy(capgains.MustParse(date), symbol, capgains.Q(shares), USD(price), USD(0)))
	if err != nil {
		t.Fatalf("ProcessBuy(%s %s) error = %v", date, symbol, err)
	}
	return p
}

func sell(t *testing.T, p capgains.Portfolio, date, symbol string, shares, price float64) capgains.Portfolio {
	t.Helper()
	p, err := p.ProcessSell(capgains.NewSell(capgains.MustParse(date), symbol, capgains.Q(shares), USD(price), USD(0)), capgains.UnspecifiedMethod, nil)
	if err != nil {
		t.Fatalf("ProcessSell(%s %s) error = %v", date, symbol, err)
	}
	return p
}
