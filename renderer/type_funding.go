package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/kirilldublin/valutatrade"
)

// Funding is a struct to represent a deposit or withdrawal receipt in json.
type Funding struct {
	// Action is "deposit" or "withdraw".
	Action string `json:"action"`
	// Code of the wallet touched.
	Code string `json:"code"`
	// Amount moved.
	Amount string `json:"amount"`
	// Balance of the wallet afterwards.
	Balance string `json:"balance"`
}

// NewFunding creates a new Funding struct from a wallet movement.
func NewFunding(action string, amount, balance valutatrade.Money) *Funding {
	return &Funding{
		Action:  action,
		Code:    balance.Currency(),
		Amount:  amount.String(),
		Balance: balance.String(),
	}
}

const fundingMarkdownTemplate = `# {{ if eq .Action "withdraw" }}Withdrew{{ else }}Deposited{{ end }} {{ .Amount }}

| Wallet | Balance |
|:---|---:|
| {{ .Code }} | {{ .Balance }} |
`

// RenderFunding renders the Funding struct to a markdown string.
func RenderFunding(f *Funding) string {
	tmpl := template.Must(template.New("funding").Parse(fundingMarkdownTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, f); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}
