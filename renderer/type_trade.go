package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/kirilldublin/valutatrade"
)

// Trade is a struct to represent an executed trade receipt in json.
type Trade struct {
	// Action is "buy" or "sell".
	Action string `json:"action"`
	// Username of the trader.
	Username string `json:"username"`
	// Asset is the traded amount, e.g. "₿0.01000000".
	Asset string `json:"asset"`
	// Price is the rate the trade settled at, e.g. "1 BTC = $50,000.00".
	Price string `json:"price"`
	// Cost is the amount settled against the base wallet.
	Cost string `json:"cost"`
	// AssetCode and BaseCode name the two wallets touched.
	AssetCode string `json:"assetCode"`
	BaseCode  string `json:"baseCode"`
	// AssetBalance and BaseBalance are the wallet balances after the trade.
	AssetBalance string `json:"assetBalance"`
	BaseBalance  string `json:"baseBalance"`
}

// NewTrade creates a new Trade struct from a trade receipt.
func NewTrade(t *valutatrade.Trade) *Trade {
	return &Trade{
		Action:       t.Action,
		Username:     t.Username,
		Asset:        t.Asset.String(),
		Price:        rateString(t.Price),
		Cost:         t.Cost.String(),
		AssetCode:    t.Asset.Currency(),
		BaseCode:     t.Cost.Currency(),
		AssetBalance: t.AssetBalance.String(),
		BaseBalance:  t.BaseBalance.String(),
	}
}

// tradeMarkdownTemplate is the template for rendering a Trade receipt in Markdown.
const tradeMarkdownTemplate = `# {{ if eq .Action "sell" }}Sold{{ else }}Bought{{ end }} {{ .Asset }}

{{ if eq .Action "sell" }}Credited{{ else }}Paid{{ end }} **{{ .Cost }}** at {{ .Price }}.

| Wallet | Balance |
|:---|---:|
| {{ .AssetCode }} | {{ .AssetBalance }} |
| {{ .BaseCode }} | {{ .BaseBalance }} |
`

// RenderTrade renders the Trade struct to a markdown string.
func RenderTrade(t *Trade) string {
	tmpl := template.Must(template.New("trade").Parse(tradeMarkdownTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, t); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}
