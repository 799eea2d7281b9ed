package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// summary values the portfolio name of l on day.
func summary(l *folio.Ledger, name string, on date.Date) (renderer.Summary, error) {
	value, err := l.Value(name, on)
	if err != nil {
		return renderer.Summary{}, err
	}
	basis, err := l.CostBasis(name, on)
	if err != nil {
		return renderer.Summary{}, err
	}
	return renderer.Summary{Portfolio: name, Date: on, Value: value, CostBasis: basis}, nil
}

type valueCmd struct {
	app       *App
	portfolio string
	date      string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "display the value of a portfolio on a date" }
func (*valueCmd) Usage() string {
	return `stk value -p <portfolio> [-d <date>]

  Displays the market value of the portfolio at the close of a trading day,
  with its cost basis and gain.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "portfolio name")
	f.StringVar(&c.date, "d", "", "valuation date, defaults to today")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := c.app.parseDate(c.date)
	if err != nil {
		return c.app.usage("%v", err)
	}
	l, err := c.app.open()
	if err != nil {
		return c.app.fail("could not load portfolios: %v", err)
	}
	s, err := summary(l, c.portfolio, on)
	if err != nil {
		return c.app.fail("%v", err)
	}
	c.app.printMarkdown(renderer.SummaryMarkdown(s))
	return subcommands.ExitSuccess
}

type basisCmd struct {
	app       *App
	portfolio string
	date      string
}

func (*basisCmd) Name() string     { return "basis" }
func (*basisCmd) Synopsis() string { return "display the cost basis of a portfolio on a date" }
func (*basisCmd) Usage() string {
	return `stk basis -p <portfolio> [-d <date>]

  Prints the amount paid for all the purchases made up to the date.
  Sales do not reduce the cost basis.
`
}

func (c *basisCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "portfolio name")
	f.StringVar(&c.date, "d", "", "date, defaults to today")
}

func (c *basisCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := c.app.parseDate(c.date)
	if err != nil {
		return c.app.usage("%v", err)
	}
	l, err := c.app.open()
	if err != nil {
		return c.app.fail("could not load portfolios: %v", err)
	}
	basis, err := l.CostBasis(c.portfolio, on)
	if err != nil {
		return c.app.fail("%v", err)
	}
	fmt.Fprintln(c.app.Out, renderer.USD(basis))
	return subcommands.ExitSuccess
}

type compositionCmd struct {
	app       *App
	portfolio string
}

func (*compositionCmd) Name() string     { return "composition" }
func (*compositionCmd) Synopsis() string { return "display the transactions of a portfolio" }
func (*compositionCmd) Usage() string {
	return `stk composition -p <portfolio>

  Displays the transactions of the portfolio, combined per ticker and day.
`
}

func (c *compositionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "portfolio name")
}

func (c *compositionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.app.open()
	if err != nil {
		return c.app.fail("could not load portfolios: %v", err)
	}
	p, err := l.Portfolio(c.portfolio)
	if err != nil {
		return c.app.fail("%v", err)
	}
	txs, err := l.Composition(c.portfolio)
	if err != nil {
		return c.app.fail("%v", err)
	}
	c.app.printMarkdown(renderer.CompositionMarkdown(p, txs))
	return subcommands.ExitSuccess
}

// sampling holds the flags shared by the sampled series commands.
type sampling struct {
	unit   string
	count  int
	end    string
	length int
}

func (s *sampling) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.unit, "u", "weeks", "sampling unit: days, weeks, months or years")
	f.IntVar(&s.count, "n", 10, "number of samples")
	f.StringVar(&s.end, "e", "", "most recent sample date, defaults to today")
	f.IntVar(&s.length, "l", 1, "number of units between samples")
}

func (s *sampling) parse(app *App) (date.Unit, date.Date, error) {
	unit, err := date.ParseUnit(s.unit)
	if err != nil {
		return 0, date.Date{}, err
	}
	end, err := app.parseDate(s.end)
	return unit, end, err
}

type pricesCmd struct {
	app    *App
	ticker string
	open   bool
	sampling
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "display sampled prices of a ticker" }
func (*pricesCmd) Usage() string {
	return `stk prices -t <ticker> [-u <unit>] [-n <count>] [-e <end>] [-l <length>] [-open]

  Displays up to n prices of the ticker, walking back from the end date,
  one every l units. Holidays use the latest price of the week before.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker")
	f.BoolVar(&c.open, "open", false, "use opening prices instead of closing ones")
	c.sampling.SetFlags(f)
}

func (c *pricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	unit, end, err := c.parse(c.app)
	if err != nil {
		return c.app.usage("%v", err)
	}
	l := folio.NewLedger(c.app.historian(), c.app.Logger)
	prices, err := l.StockPrices(unit, c.ticker, end, c.count, !c.open, c.length)
	if err != nil {
		return c.app.fail("%v", err)
	}
	c.app.printMarkdown(renderer.SamplesMarkdown(fmt.Sprintf("Prices of %s", c.ticker), prices, false))
	return subcommands.ExitSuccess
}

type valuesCmd struct {
	app       *App
	portfolio string
	sampling
}

func (*valuesCmd) Name() string     { return "values" }
func (*valuesCmd) Synopsis() string { return "display sampled values of a portfolio" }
func (*valuesCmd) Usage() string {
	return `stk values -p <portfolio> [-u <unit>] [-n <count>] [-e <end>] [-l <length>]

  Displays up to n values of the portfolio, walking back from the end date,
  one every l units. Dates before the first transaction are valued at zero.
`
}

func (c *valuesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "portfolio name")
	c.sampling.SetFlags(f)
}

func (c *valuesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	unit, end, err := c.parse(c.app)
	if err != nil {
		return c.app.usage("%v", err)
	}
	l, err := c.app.open()
	if err != nil {
		return c.app.fail("could not load portfolios: %v", err)
	}
	values, err := l.PortfolioValues(unit, c.portfolio, end, c.count, c.length)
	if err != nil {
		return c.app.fail("%v", err)
	}
	c.app.printMarkdown(renderer.SamplesMarkdown(fmt.Sprintf("Values of %s", c.portfolio), values, true))
	return subcommands.ExitSuccess
}

type dcaCmd struct {
	app         *App
	weights     string
	start       string
	unit        string
	length      int
	repetitions int
	date        string
}

func (*dcaCmd) Name() string     { return "dca" }
func (*dcaCmd) Synopsis() string { return "simulate a dollar-cost averaging schedule (what-if, not saved)" }
func (*dcaCmd) Usage() string {
	return `stk dca -w <ticker=amount,...> -s <start> [-u <unit>] [-l <length>] [-r <repetitions>] [-d <date>]

  A what-if calculator: evaluates what a recurring investment would be worth
  on a date. Each amount buys shares at the close of the first trading day on
  or after each occurrence.

  The schedule is not saved: it does not create a portfolio, and it cannot be
  listed or receive transactions afterwards. Record real recurring purchases
  with 'stk add'.

Usage Examples:
# Invest $50 in NFLX and $100 in F every week since March 15, 2024.
$ stk dca -w NFLX=50,F=100 -s 2024-03-15 -u weeks
`
}

func (c *dcaCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.weights, "w", "", "comma separated ticker=amount pairs")
	f.StringVar(&c.start, "s", "", "date of the first investment")
	f.StringVar(&c.unit, "u", "months", "unit between investments: days, weeks, months or years")
	f.IntVar(&c.length, "l", 1, "number of units between investments")
	f.IntVar(&c.repetitions, "r", folio.Unbounded, "number of investments, -1 for no limit")
	f.StringVar(&c.date, "d", "", "valuation date, defaults to today")
}

// parseWeights parses "NFLX=50,F=25".
func parseWeights(s string) (map[string]decimal.Decimal, error) {
	weights := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(s, ",") {
		ticker, amount, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || ticker == "" {
			return nil, fmt.Errorf("invalid weight %q, want ticker=amount", pair)
		}
		v, err := decimal.NewFromString(amount)
		if err != nil || !v.IsPositive() {
			return nil, fmt.Errorf("invalid amount %q for %s", amount, ticker)
		}
		weights[ticker] = weights[ticker].Add(v)
	}
	return weights, nil
}

func (c *dcaCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.weights == "" || c.start == "" {
		return c.app.usage("-w and -s are required")
	}
	weights, err := parseWeights(c.weights)
	if err != nil {
		return c.app.usage("%v", err)
	}
	start, err := date.Parse(c.start)
	if err != nil {
		return c.app.usage("%v", err)
	}
	unit, err := date.ParseUnit(c.unit)
	if err != nil {
		return c.app.usage("%v", err)
	}
	on, err := c.app.parseDate(c.date)
	if err != nil {
		return c.app.usage("%v", err)
	}

	const name = "dca"
	l := folio.NewLedger(c.app.historian(), c.app.Logger)
	if err := l.AddDollarCostAveragingPortfolio(name, weights, start, unit, c.length, c.repetitions); err != nil {
		return c.app.fail("%v", err)
	}
	s, err := summary(l, name, on)
	if err != nil {
		return c.app.fail("%v", err)
	}
	p, _ := l.Portfolio(name)
	txs, err := l.Composition(name)
	if err != nil {
		return c.app.fail("%v", err)
	}
	c.app.printMarkdown(renderer.SummaryMarkdown(s) + "\n\n" + renderer.CompositionMarkdown(p, txs))
	return subcommands.ExitSuccess
}
