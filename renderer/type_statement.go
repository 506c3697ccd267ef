package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/kirilldublin/valutatrade"
)

// Statement is a struct to represent one valued portfolio in json.
// Amounts are pre-rendered strings, so the struct can be marshaled and
// handed to the advisor as-is.
type Statement struct {
	// Username owning the portfolio.
	Username string `json:"username"`
	// Base is the currency every holding is valued in.
	Base string `json:"base"`
	// AsOf is the valuation time.
	AsOf string `json:"asOf"`
	// Holdings is one line per wallet, in code order.
	Holdings []StatementHolding `json:"holdings"`
	// Total is the sum of all priced holdings.
	Total string `json:"total"`
	// Unpriced counts the holdings no cached rate could value.
	Unpriced int `json:"unpriced,omitempty"`
}

// StatementHolding represents a single wallet line.
type StatementHolding struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Balance string `json:"balance"`
	Value   string `json:"value,omitempty"`
}

// NewStatement creates a new Statement struct from a valued portfolio.
func NewStatement(st *valutatrade.Statement) *Statement {
	v := &Statement{
		Username: st.Username,
		Base:     st.Base,
		AsOf:     st.AsOf.Format(timeLayout),
		Holdings: make([]StatementHolding, 0, len(st.Holdings)),
		Total:    st.Total.String(),
	}
	for _, h := range st.Holdings {
		line := StatementHolding{
			Code:    h.Currency.Code,
			Name:    h.Currency.Name,
			Kind:    string(h.Currency.Kind),
			Balance: h.Balance.String(),
		}
		if h.Converted {
			line.Value = h.Value.String()
		} else {
			v.Unpriced++
		}
		v.Holdings = append(v.Holdings, line)
	}
	return v
}

// statementMarkdownTemplate is the template for rendering a Statement in Markdown.
const statementMarkdownTemplate = `# Portfolio of {{ .Username }}

Valued in {{ .Base }} on {{ .AsOf }}
{{- if .Holdings }}

| Currency | Kind | Balance | Value |
|:---|:---|---:|---:|
{{- range .Holdings }}
| {{ .Code }} ({{ .Name }}) | {{ .Kind }} | {{ .Balance }} | {{ if .Value }}{{ .Value }}{{ else }}n/a{{ end }} |
{{- end }}
| **Total** | | | **{{ .Total }}** |
{{- if .Unpriced }}

{{ .Unpriced }} holding(s) have no cached rate and are left out of the total.
{{- end }}
{{- else }}

The portfolio is empty. Deposit funds to start trading.
{{- end }}
`

// RenderStatement renders the Statement struct to a markdown string using a text/template.
func RenderStatement(s *Statement) string {
	tmpl := template.Must(template.New("statement").Parse(statementMarkdownTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, s); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}
