package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	gnucash "github.com/biker2000on/gnucash-web-sub002"
	"github.com/biker2000on/gnucash-web-sub002/renderer"
)

// EngineProvider hands a fresh valuation engine to the analyst's tools.
// It is called per tool invocation so the answer reflects the book on disk.
type EngineProvider func() (*gnucash.Engine, error)

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skills that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand his net worth, his investment holdings
			and where his money goes. Check the ledger first to understand what he holds.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher is an expert grounded by Google Search, for questions about
// markets, companies and funds the ledger cannot answer.
func NewResearcher(model string) *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert researcher,
		very well aware of financial products and institutions,
		and of the latest news about funds or companies.
		Ask the Researcher whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert researcher. You can search and find anything related to
			financial institutions, companies, markets, funds etc. You leverage Google Search
			to ground your assertions. You can get the latest news too, and you know how
			to relate them to the user's request.
			`}}},
		},
	}
}

// NewAnalyst is the expert in charge of the user's ledger. Its tools run
// the valuation engine and return rendered markdown reports.
func NewAnalyst(model string, provider EngineProvider) *Expert {
	lib := []Function{
		netWorthTool(provider),
		holdingsTool(provider),
		allocationTool(provider),
		flowTool(provider),
	}
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He is in charge of reading the user's ledger.
		He can compute net worth over time, investment holdings with gains and losses,
		allocation by category, and where income goes.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's ledger.
				You know how to use the Tools to extract relevant information about the
				user's accounts and wealth. You are part of a team of experts; yours is
				everything recorded in the ledger. They might ask you questions with
				approximative language, pardon them and figure out what they meant.

				Use the available tools to get information about
				  - net worth over time
				  - investment holdings and their gains
				  - allocation and un-invested cash
				  - income and expense flows
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

const dateArgDescription = `A date in YYYY-MM-DD format. Today is the default.`

func dateSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: dateArgDescription}
}

func markdownResponse(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func errorResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func outputResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"output": output,
		},
	}
}

func parseDateArg(args map[string]any, key string, fallback gnucash.Date) (gnucash.Date, error) {
	raw, has := args[key]
	if !has {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return fallback, fmt.Errorf("argument %q is not a string as expected but %T", key, raw)
	}
	d, err := gnucash.ParseDate(s)
	if err != nil {
		return fallback, fmt.Errorf("argument %q must be a YYYY-MM-DD date, got %q", key, s)
	}
	return d, nil
}

// parseWindow resolves the optional from/to arguments, defaulting to the
// twelve months ending today.
func parseWindow(args map[string]any) (from, to gnucash.Date, err error) {
	to, err = parseDateArg(args, "to", gnucash.Today())
	if err != nil {
		return from, to, err
	}
	from, err = parseDateArg(args, "from", to.AddMonth(-12))
	return from, to, err
}

func netWorthTool(provider EngineProvider) *Func {
	const name = "NetWorth"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `NetWorth computes the user's net worth, assets and liabilities
			at each month end over a date window.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"from": dateSchema(),
					"to":   dateSchema(),
				},
			},
			Response: markdownResponse("A markdown table of net worth, assets and liabilities per month end."),
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			from, to, err := parseWindow(args)
			if err != nil {
				return errorResponse(id, name, err)
			}
			e, err := provider()
			if err != nil {
				return errorResponse(id, name, err)
			}
			report := &renderer.NetWorth{BaseCurrency: e.BaseCurrency(), Points: e.MonthlySeries(from, to)}
			return outputResponse(id, name, renderer.RenderNetWorth(report))
		},
	}
}

func holdingsTool(provider EngineProvider) *Func {
	const name = "Holdings"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Holdings lists the user's open investment positions on the given day,
			with shares, cost basis, market value and gain/loss.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date": dateSchema(),
				},
			},
			Response: markdownResponse("A markdown table of open investment positions."),
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			on, err := parseDateArg(args, "date", gnucash.Today())
			if err != nil {
				return errorResponse(id, name, err)
			}
			e, err := provider()
			if err != nil {
				return errorResponse(id, name, err)
			}
			report := &renderer.Holdings{Date: on, Summary: e.Summary(on), Holdings: e.Holdings(on)}
			return outputResponse(id, name, renderer.RenderHoldings(report))
		},
	}
}

func allocationTool(provider EngineProvider) *Func {
	const name = "Allocation"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Allocation groups the user's investments by account category and
			reports un-invested cash sitting next to investment accounts.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date": dateSchema(),
				},
			},
			Response: markdownResponse("A markdown report of allocation by category and cash risk."),
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			on, err := parseDateArg(args, "date", gnucash.Today())
			if err != nil {
				return errorResponse(id, name, err)
			}
			e, err := provider()
			if err != nil {
				return errorResponse(id, name, err)
			}
			buckets, cash := e.CashBuckets(on)
			report := &renderer.Allocation{Date: on, Slices: e.Allocation(on), Buckets: buckets, Cash: cash}
			return outputResponse(id, name, renderer.RenderAllocation(report))
		},
	}
}

func flowTool(provider EngineProvider) *Func {
	const name = "Flow"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Flow apportions the user's income across expense categories and
			savings over a date window. The apportionment is proportional, not a trace
			of individual transactions.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"from": dateSchema(),
					"to":   dateSchema(),
				},
			},
			Response: markdownResponse("A markdown table of income-to-expense flows."),
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			from, to, err := parseWindow(args)
			if err != nil {
				return errorResponse(id, name, err)
			}
			e, err := provider()
			if err != nil {
				return errorResponse(id, name, err)
			}
			return outputResponse(id, name, renderer.RenderFlow(e.Flow(from, to)))
		},
	}
}
