package renderer

import (
	"bytes"
	"strconv"

	md "github.com/nao1215/markdown"

	"github.com/kirilldublin/valutatrade"
)

// UpdateMarkdown renders the outcome of one updater run.
func UpdateMarkdown(r *valutatrade.UpdateReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Rates Update")

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Result", "Count"},
		Rows: [][]string{
			{"Quotes fetched", strconv.Itoa(r.Fetched)},
			{"Cache entries updated", strconv.Itoa(r.Updated)},
			{"Skipped as stale", strconv.Itoa(r.Skipped)},
			{"History records appended", strconv.Itoa(r.Appended)},
		},
	})

	if len(r.Errors) > 0 {
		doc.H2("Provider Failures")
		failures := make([]string, 0, len(r.Errors))
		for _, err := range r.Errors {
			failures = append(failures, err.Error())
		}
		doc.BulletList(failures...)
	}

	return doc.String()
}
