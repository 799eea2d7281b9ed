package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
)

type ipoCmd struct{ app *App }

func (*ipoCmd) Name() string     { return "ipo" }
func (*ipoCmd) Synopsis() string { return "display the first trading day of tickers" }
func (*ipoCmd) Usage() string {
	return `stk ipo <ticker>...

  Prints the first date with a price for each ticker.
`
}
func (*ipoCmd) SetFlags(f *flag.FlagSet) {}

func (c *ipoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return c.app.usage("at least one ticker is required")
	}
	h := c.app.historian()
	status := subcommands.ExitSuccess
	for _, ticker := range f.Args() {
		ipo, err := h.IPO(ticker)
		if err != nil {
			status = c.app.fail("%v", err)
			continue
		}
		fmt.Fprintf(c.app.Out, "%s\t%s\n", ticker, ipo)
	}
	return status
}

type unitCmd struct {
	app      *App
	start    string
	end      string
	min, max int
}

func (*unitCmd) Name() string     { return "unit" }
func (*unitCmd) Synopsis() string { return "suggest a sampling unit for a period" }
func (*unitCmd) Usage() string {
	return `stk unit -s <start> [-e <end>] [-min <n>] [-max <n>]

  Prints the coarsest unit and multiplier that splits the period into
  between min and max samples. Use them as -u and -l of prices and values.
`
}

func (c *unitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "start of the period")
	f.StringVar(&c.end, "e", "", "end of the period, defaults to today")
	f.IntVar(&c.min, "min", 5, "minimum number of samples")
	f.IntVar(&c.max, "max", 30, "maximum number of samples")
}

func (c *unitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.start == "" {
		return c.app.usage("-s is required")
	}
	start, err := c.app.parseDate(c.start)
	if err != nil {
		return c.app.usage("%v", err)
	}
	end, err := c.app.parseDate(c.end)
	if err != nil {
		return c.app.usage("%v", err)
	}
	unit, n, err := folio.AppropriateUnit(start, end, c.min, c.max)
	if err != nil {
		return c.app.fail("%v", err)
	}
	fmt.Fprintf(c.app.Out, "-u %s -l %d\n", unit, n)
	return subcommands.ExitSuccess
}

type searchCmd struct{ app *App }

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search for tickers on EODHD" }
func (*searchCmd) Usage() string {
	return `stk search <search term>

  Searches for securities via EOD Historical Data API and prints
  ready-to-use 'stk add' commands for the results.

  Requires the FOLIO_EODHD_API_KEY environment variable to be set.
`
}
func (*searchCmd) SetFlags(f *flag.FlagSet) {}

func (c *searchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return c.app.usage("a search term is required")
	}
	if c.app.search == nil {
		return c.app.fail("search is not available")
	}
	term := strings.Join(f.Args(), " ")
	results, err := c.app.search(term)
	if err != nil {
		return c.app.fail("searching %q: %v", term, err)
	}
	if len(results) == 0 {
		fmt.Fprintf(c.app.Out, "No results found for '%s'.\n", term)
		return subcommands.ExitSuccess
	}

	fmt.Fprintf(c.app.Out, "Found %d results for '%s':\n\n", len(results), term)
	for _, item := range results {
		fmt.Fprintf(c.app.Out, "➡️   Name       : %s (%s)\n", item.Name, item.Ticker())
		fmt.Fprintf(c.app.Out, "    Type        : %s, Country: %s, Currency: %s\n", item.Type, item.Country, item.Currency)
		fmt.Fprintf(c.app.Out, "    Prev. Close : %.2f on %s\n", item.PreviousClose, item.PreviousCloseDate)
		fmt.Fprintf(c.app.Out, "    $ stk add -p <portfolio> -t %s -q <quantity>\n\n", item.Ticker())
	}
	return subcommands.ExitSuccess
}
