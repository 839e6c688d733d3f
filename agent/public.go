package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/mlens/capgains"
	"github.com/mlens/capgains/renderer"
)

const model = "gemini-2.5-pro"

// Loader loads the user's portfolio for the accountant's tools. The CLI
// passes its own file-backed loader here.
type Loader func() (capgains.Portfolio, error)

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here to understand the cost basis and tax consequences of his investment
			transactions: realized gains, holding periods, and wash sales.

			Devise a plan of questions to ask to each expert and come up with the best response
			to the user's request.

			The user will assume that you know about his symbols, check the portfolio first to
			understand what they are.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst creates the market analyst expert, grounded on search.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an expert market analyst,
		very well aware of financial products, tax rules, and institutions,
		and of the latest news about companies and funds.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert market analyst. You can search and find about anything related
			to financial institutions, companies, markets, funds, and tax regulation.
			You leverage Google Search to ground your assertions in a solid truth.
				`}}},
		},
	}
}

// NewAccountant creates the expert in charge of reading the user's
// portfolio: positions, tax lots, realized gains, and wash-sale checks.
func NewAccountant(load Loader) *Expert {
	lib := []Function{
		holdingsFunc(load),
		taxLotsFunc(load),
		gainsFunc(load),
		washSaleCheckFunc(load),
	}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He is in charge of reading the user's portfolio.
		He can report positions, tax lots, realized gains per tax year, and check whether a
		planned purchase would trigger a wash sale.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's investment portfolio.
				You know how to use the Tools to extract relevant information about the
				user's positions and tax outcomes. You are part of a team of experts;
				yours is everything about the user's portfolio. They might ask you
				questions in approximative language, figure out what they meant.

				Use the available tools to get information about the user's portfolio:
				  - current holdings
				  - tax lots of one symbol
				  - realized gains of one tax year
				  - wash-sale risk of a planned purchase
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function.
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// markdownFunc wraps a report generator into a Func: the tool's output is
// always a markdown document.
func markdownFunc(decl *genai.FunctionDeclaration, report func(args map[string]any) (string, error)) *Func {
	return &Func{
		Decl: decl,
		Func: func(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
			md, err := report(args)
			if err != nil {
				return &genai.FunctionResponse{
					ID:   id,
					Name: decl.Name,
					Response: map[string]any{
						"error": err.Error(),
					},
				}
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: decl.Name,
				Response: map[string]any{
					"output": md,
				},
			}
		},
	}
}

func holdingsFunc(load Loader) *Func {
	return markdownFunc(&genai.FunctionDeclaration{
		Name: "Holdings",
		Description: `Holdings lists all currently held positions with their share count,
		average cost, total cost basis, and unrealized gain when a market price is known.`,
		Parameters: &genai.Schema{Type: genai.TypeObject},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted table of the held positions.",
		},
	}, func(map[string]any) (string, error) {
		p, err := load()
		if err != nil {
			return "", fmt.Errorf("could not load portfolio: %w", err)
		}
		return renderer.HoldingMarkdown(p), nil
	})
}

func taxLotsFunc(load Loader) *Func {
	return markdownFunc(&genai.FunctionDeclaration{
		Name: "TaxLots",
		Description: `TaxLots lists the open tax lots of one symbol: purchase date, remaining
		shares, cost per share, and the adjusted basis including wash-sale add-backs.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"symbol": {
					Type:        genai.TypeString,
					Description: "The ticker symbol of the investment.",
				},
			},
			Required: []string{"symbol"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted table of the symbol's open tax lots.",
		},
	}, func(args map[string]any) (string, error) {
		symbol, err := stringArg(args, "symbol")
		if err != nil {
			return "", err
		}
		p, err := load()
		if err != nil {
			return "", fmt.Errorf("could not load portfolio: %w", err)
		}
		inv, ok := p.Investments[symbol]
		if !ok {
			return "", fmt.Errorf("no position in %q", symbol)
		}
		return renderer.LotsMarkdown(inv), nil
	})
}

func gainsFunc(load Loader) *Func {
	return markdownFunc(&genai.FunctionDeclaration{
		Name: "Gains",
		Description: `Gains reports the realized gains and losses of one tax year, split into
		short-term and long-term totals, with the wash-sale losses disallowed that year.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"taxYear": {
					Type:        genai.TypeInteger,
					Description: "The tax year to report on, e.g. 2024.",
				},
			},
			Required: []string{"taxYear"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted capital gains report for the tax year.",
		},
	}, func(args map[string]any) (string, error) {
		year, err := intArg(args, "taxYear")
		if err != nil {
			return "", err
		}
		p, err := load()
		if err != nil {
			return "", fmt.Errorf("could not load portfolio: %w", err)
		}
		return renderer.GainsMarkdown(p.TaxYearSummary(year)), nil
	})
}

func washSaleCheckFunc(load Loader) *Func {
	return markdownFunc(&genai.FunctionDeclaration{
		Name: "WashSaleCheck",
		Description: `WashSaleCheck reports whether buying the given symbol on the given date
		would disallow the loss of a recent sale under the wash-sale rule.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"symbol": {
					Type:        genai.TypeString,
					Description: "The ticker symbol of the planned purchase.",
				},
				"date": {
					Type:        genai.TypeString,
					Description: "The planned purchase date (YYYY-MM-DD). Today is the default.",
				},
			},
			Required: []string{"symbol"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A short verdict naming the loss sale at risk, if any.",
		},
	}, func(args map[string]any) (string, error) {
		symbol, err := stringArg(args, "symbol")
		if err != nil {
			return "", err
		}
		day, err := dateArg(args, "date")
		if err != nil {
			return "", err
		}
		p, err := load()
		if err != nil {
			return "", fmt.Errorf("could not load portfolio: %w", err)
		}
		sale, triggered := capgains.WouldTriggerWashSale(p.Transactions(), symbol, day)
		if !triggered {
			return fmt.Sprintf("Buying %s on %s does not trigger a wash sale.", symbol, day), nil
		}
		return fmt.Sprintf("Buying %s on %s triggers a wash sale: the %s sale of %s shares realized a loss of %s within the 61-day window.",
			symbol, day, sale.Date, sale.Shares, sale.GainLoss), nil
	})
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("argument %q is missing", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	return s, nil
}

func intArg(args map[string]any, name string) (int, error) {
	switch v := args[name].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case nil:
		return 0, fmt.Errorf("argument %q is missing", name)
	default:
		return 0, fmt.Errorf("argument %q is not a number as expected but %T", name, v)
	}
}

func dateArg(args map[string]any, name string) (capgains.Date, error) {
	v, hasDate := args[name]
	if !hasDate {
		return capgains.Today(), nil
	}
	s, ok := v.(string)
	if !ok {
		return capgains.Today(), fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	day, err := capgains.ParseDate(s)
	if err != nil {
		return capgains.Today(), fmt.Errorf("argument %q must be a valid date, got %q", name, s)
	}
	return day, nil
}
