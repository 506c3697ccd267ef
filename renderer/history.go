package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/kirilldublin/valutatrade"
)

// HistoryMarkdown renders the recorded fetches of one pair as a markdown table.
func HistoryMarkdown(pair string, records []valutatrade.Record) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("History for %s", pair))

	if len(records) == 0 {
		doc.PlainText("No recorded fetches for this pair.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Time", "Rate", "Source", "Fetch"},
		Rows:   [][]string{},
	}
	for _, rec := range records {
		table.Rows = append(table.Rows, []string{
			rec.Timestamp.Format(timeLayout),
			rec.Value.String(),
			rec.Source,
			fmt.Sprintf("%dms/%d", rec.Meta.RequestMS, rec.Meta.StatusCode),
		})
	}
	doc.Table(table)

	return doc.String()
}
