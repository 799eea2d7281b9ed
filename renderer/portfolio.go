package renderer

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// Summary is the valuation of a portfolio on a given day.
type Summary struct {
	Portfolio string
	Date      date.Date
	Value     decimal.Decimal
	CostBasis decimal.Decimal
}

// Gain returns the value minus the cost basis.
func (s Summary) Gain() decimal.Decimal { return s.Value.Sub(s.CostBasis) }

// SummaryMarkdown renders the valuation of a portfolio.
func SummaryMarkdown(s Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio %s on %s", s.Portfolio, s.Date))
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{md.Bold("Market Value"), md.Bold(USD(s.Value))},
		Rows: [][]string{
			{"Cost Basis", USD(s.CostBasis)},
			{"Gain / Loss", SignedUSD(s.Gain())},
		},
	}
	if !s.CostBasis.IsZero() {
		table.Rows = append(table.Rows, []string{"Return", Percent(s.Gain().DivRound(s.CostBasis, 6))})
	}
	doc.Table(table)
	return doc.String()
}

// CompositionMarkdown renders the transactions of a portfolio, and its
// recurring investment schedule if any.
func CompositionMarkdown(p *folio.Portfolio, txs []folio.StockTransaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Composition of %s", p.Name()))
	if len(txs) == 0 {
		doc.PlainText("No transactions.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
			},
			Header: []string{"Date", "Ticker", "Quantity"},
			Rows:   [][]string{},
		}
		for _, tx := range txs {
			table.Rows = append(table.Rows, []string{tx.Date.String(), tx.Ticker, tx.Quantity.String()})
		}
		doc.Table(table)
	}

	var sb strings.Builder
	sb.WriteString(doc.String())
	ConditionalBlock(&sb, func(w io.Writer) bool {
		s := p.Schedule()
		if s == nil {
			return false
		}
		var buf bytes.Buffer
		doc := md.NewMarkdown(&buf)
		title := fmt.Sprintf("Recurring Investment every %d %s from %s", s.Length, s.Unit, s.Start)
		if s.Repetitions != folio.Unbounded {
			title += fmt.Sprintf(", %d times", s.Repetitions)
		}
		doc.H2(title)
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Ticker", "Amount"},
			Rows:      [][]string{},
		}
		for _, ticker := range slices.Sorted(maps.Keys(s.Weights)) {
			table.Rows = append(table.Rows, []string{ticker, USD(s.Weights[ticker])})
		}
		doc.Table(table)
		fmt.Fprintf(w, "\n\n%s", doc.String())
		return true
	})
	return sb.String()
}

// PortfoliosMarkdown renders the list of portfolios of a ledger.
func PortfoliosMarkdown(l *folio.Ledger) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolios")
	table := md.TableSet{
		Header: []string{"Name", "Mutable", "Recurring"},
		Rows:   [][]string{},
	}
	for _, name := range l.Names() {
		p, err := l.Portfolio(name)
		if err != nil {
			continue
		}
		recurring := ""
		if s := p.Schedule(); s != nil {
			recurring = fmt.Sprintf("every %d %s", s.Length, s.Unit)
		}
		table.Rows = append(table.Rows, []string{name, fmt.Sprint(p.Mutable()), recurring})
	}
	doc.Table(table)
	return doc.String()
}
