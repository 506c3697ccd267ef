package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/kirilldublin/valutatrade"
)

// CurrenciesMarkdown lists the catalog, fiat first, with the columns that
// matter for each kind. A kind with no currencies is omitted entirely.
func CurrenciesMarkdown(cat *valutatrade.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Currencies\n\n")

	fiat := NewSection(func(w io.Writer) {
		fmt.Fprintf(w, "## Fiat\n\n")
		fmt.Fprintln(w, "| Code | Name | Country |")
		fmt.Fprintln(w, "|:---|:---|:---|")
	}).Footer(func(w io.Writer) {
		fmt.Fprintln(w)
	})
	for _, cur := range cat.Currencies() {
		if cur.IsCrypto() {
			continue
		}
		fiat.PrintHeader(&b)
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cur.Code, cur.Name, cur.IssuingCountry)
	}
	fiat.PrintFooter(&b)

	crypto := NewSection(func(w io.Writer) {
		fmt.Fprintf(w, "## Crypto\n\n")
		fmt.Fprintln(w, "| Code | Name | Algorithm | Market Cap |")
		fmt.Fprintln(w, "|:---|:---|:---|---:|")
	})
	for _, cur := range cat.Currencies() {
		if !cur.IsCrypto() {
			continue
		}
		crypto.PrintHeader(&b)
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cur.Code, cur.Name, cur.Algorithm, marketCap(cur.MarketCap))
	}
	crypto.PrintFooter(&b)

	return b.String()
}

// marketCap renders a market cap in short form, empty when unknown.
func marketCap(v float64) string {
	switch {
	case v <= 0:
		return ""
	case v >= 1e12:
		return fmt.Sprintf("%.1fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
