package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/kirilldublin/valutatrade"
)

// timeLayout is how timestamps show up in listings. Stored timestamps are
// UTC and are rendered as stored.
const timeLayout = "2006-01-02 15:04:05"

// rateString renders a rate as a price: one unit of From in To money.
func rateString(r valutatrade.Rate) string {
	return fmt.Sprintf("1 %s = %s", r.From, valutatrade.M(r.Value, r.To))
}

// RatesMarkdown renders a rates listing as a markdown table.
func RatesMarkdown(l *valutatrade.RatesListing) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Exchange Rates")
	if !l.LastRefresh.IsZero() {
		doc.PlainText(fmt.Sprintf("Last refresh: %s", l.LastRefresh.Format(timeLayout)))
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: []string{"Pair", "Rate", "Updated", "Source"},
		Rows:   [][]string{},
	}
	for _, r := range l.Rates {
		table.Rows = append(table.Rows, []string{
			r.Pair(),
			r.Value.String(),
			r.UpdatedAt.Format(timeLayout),
			r.Source,
		})
	}
	doc.Table(table)

	return doc.String()
}

// RateMarkdown renders one pair lookup together with its reverse.
func RateMarkdown(info *valutatrade.RateInfo) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Rate %s", info.Rate.Pair()))
	doc.PlainText(md.Bold(rateString(info.Rate)))
	doc.PlainText(fmt.Sprintf("Reverse: %s", rateString(info.Reverse)))
	doc.PlainText(fmt.Sprintf("Source: %s, updated %s", info.Rate.Source, info.Rate.UpdatedAt.Format(timeLayout)))

	return doc.String()
}
