package renderer

import (
	"bytes"
	"slices"

	"github.com/etnz/folio/date"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// SamplesMarkdown renders a sampled series as a two columns table, most
// recent first. Values are formatted as dollars when dollars is true.
func SamplesMarkdown(title string, samples *date.History[decimal.Decimal], dollars bool) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	if samples.Len() == 0 {
		doc.PlainText("No data.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Date", "Value"},
		Rows:   [][]string{},
	}
	for on, v := range samples.Values() {
		cell := v.String()
		if dollars {
			cell = USD(v)
		}
		table.Rows = append(table.Rows, []string{on.String(), cell})
	}
	slices.Reverse(table.Rows)
	doc.Table(table)
	return doc.String()
}
