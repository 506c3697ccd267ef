package advisor

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/kirilldublin/valutatrade"
	"github.com/kirilldublin/valutatrade/renderer"
)

const model = "gemini-2.5-pro"

// newFacilitator creates the expert that owns the conversation and knows how
// to consult the others.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You facilitate a conversation about the user's currency portfolio.

				Learn about each expert's skill from the Tools and ask them questions.
				They are at your service and 100% dedicated to you, and they keep the
				context of your previous questions.

				The user trades fiat and crypto currencies against a base currency.
				Check the portfolio first so you know what they hold, then devise a
				plan of questions to ask each expert and come up with the best
				response to the user's request.
			`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst returns the market analyst, grounded through search.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is a market analyst,
		very well aware of currencies, crypto assets, central banks and exchanges,
		and of the latest news moving them.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an expert in currency and crypto markets. You can search and
				find anything related to exchange rates, central banks, crypto assets
				and market news. You leverage Google Search to ground your assertions
				in a solid truth, and you know how to relate the latest news to the
				user's request.
			`}}},
		},
	}
}

// NewBookkeeper returns the expert that reads the user's portfolio, the rate
// cache and the fetch history through function tools.
func NewBookkeeper(ex *valutatrade.Exchange, session *valutatrade.Session) *Expert {
	lib := []Function{
		portfolioFunc(ex, session),
		ratesFunc(ex),
		historyFunc(ex),
		asOfFunc(ex),
	}

	return &Expert{
		Name: "Bookkeeper",
		Description: `This is the Bookkeeper. He reads the user's portfolio, the cached
		exchange rates and the fetch history, and computes the relevant figures
		about the user's balances.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the bookkeeper of the user's currency portfolio.
				You know how to use the Tools to extract information about
				  - the wallets and their value in the base currency
				  - the cached exchange rates and where each one came from
				  - the recorded history of a currency pair
				  - what a pair was worth at any past moment
				You are part of a team of experts; pardon their approximate language
				and figure out what they meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"error": err.Error()},
	}
}

func okResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"output": output},
	}
}

func portfolioFunc(ex *valutatrade.Exchange, session *valutatrade.Session) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Portfolio",
			Description: "Portfolio lists the user's wallets with every balance valued in a base currency.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"base": {
						Type:        genai.TypeString,
						Description: "Currency code to value the portfolio in. The configured base currency is the default.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of wallets, balances and values.",
			},
		},
		Fn: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			base, _ := args["base"].(string)
			st, err := ex.Statement(session, base)
			if err != nil {
				return errResponse(id, "Portfolio", err)
			}
			return okResponse(id, "Portfolio", renderer.RenderStatement(renderer.NewStatement(st)))
		},
	}
}

func ratesFunc(ex *valutatrade.Exchange) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Rates",
			Description: "Rates lists the cached exchange rates with their age and source.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"currency": {
						Type:        genai.TypeString,
						Description: "Optional currency code: keep only pairs touching it.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of cached pairs, rates, update times and sources.",
			},
		},
		Fn: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			currency, _ := args["currency"].(string)
			listing, err := ex.Rates(currency, "", 0)
			if err != nil {
				return errResponse(id, "Rates", err)
			}
			return okResponse(id, "Rates", renderer.RatesMarkdown(listing))
		},
	}
}

func historyFunc(ex *valutatrade.Exchange) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "RateHistory",
			Description: "RateHistory lists every recorded fetch of one currency pair, oldest first.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"pair": {
						Type:        genai.TypeString,
						Description: "The pair to look up, like BTC_USD or eur_usd.",
					},
				},
				Required: []string{"pair"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of recorded rates for the pair.",
			},
		},
		Fn: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			raw, _ := args["pair"].(string)
			from, to, err := valutatrade.ParsePair(raw)
			if err != nil {
				return errResponse(id, "RateHistory", err)
			}
			pair := from + "_" + to
			records, err := ex.PairHistory(pair, time.Time{})
			if err != nil {
				return errResponse(id, "RateHistory", err)
			}
			return okResponse(id, "RateHistory", renderer.HistoryMarkdown(pair, records))
		},
	}
}

func asOfFunc(ex *valutatrade.Exchange) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "RateAsOf",
			Description: "RateAsOf answers what a currency pair was worth at a moment in the past, from the recorded fetches.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"pair": {
						Type:        genai.TypeString,
						Description: "The pair to look up, like BTC_USD.",
					},
					"time": {
						Type:        genai.TypeString,
						Description: "RFC 3339 timestamp, like 2025-08-24T15:00:00Z. Now when omitted.",
					},
				},
				Required: []string{"pair"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The recorded rate in effect at that time.",
			},
		},
		Fn: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			raw, _ := args["pair"].(string)
			at := time.Now().UTC()
			if s, ok := args["time"].(string); ok && s != "" {
				parsed, err := time.Parse(time.RFC3339, s)
				if err != nil {
					return errResponse(id, "RateAsOf", err)
				}
				at = parsed
			}
			value, err := ex.PairValueAsOf(raw, at)
			if err != nil {
				return errResponse(id, "RateAsOf", err)
			}
			return okResponse(id, "RateAsOf", fmt.Sprintf("%s = %s at %s", raw, value, at.Format(time.RFC3339)))
		},
	}
}
