package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type listCmd struct{ app *App }

func (*listCmd) Name() string             { return "list" }
func (*listCmd) Synopsis() string         { return "list the portfolios of the data dir" }
func (*listCmd) Usage() string            { return "stk list\n\n  Lists the portfolios in creation order.\n" }
func (*listCmd) SetFlags(f *flag.FlagSet) {}

func (c *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.app.open()
	if err != nil {
		return c.app.fail("could not load portfolios: %v", err)
	}
	c.app.printMarkdown(renderer.PortfoliosMarkdown(l))
	return subcommands.ExitSuccess
}

type createCmd struct{ app *App }

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create an empty portfolio" }
func (*createCmd) Usage() string {
	return `stk create <name>

  Creates a new empty and mutable portfolio.
`
}
func (*createCmd) SetFlags(f *flag.FlagSet) {}

func (c *createCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("a portfolio name is required")
	}
	name := f.Arg(0)
	l, err := c.app.open()
	if err != nil {
		return c.app.fail("could not load portfolios: %v", err)
	}
	if err := l.CreatePortfolio(name); err != nil {
		return c.app.fail("%v", err)
	}
	if err := c.app.save(l); err != nil {
		return c.app.fail("could not save portfolios: %v", err)
	}
	fmt.Fprintf(c.app.Out, "Portfolio %q created\n", name)
	return subcommands.ExitSuccess
}

type addCmd struct {
	app       *App
	portfolio string
	ticker    string
	quantity  string
	date      string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "buy or sell shares in a portfolio" }
func (*addCmd) Usage() string {
	return `stk add -p <portfolio> -t <ticker> -q <quantity> [-d <date>]

  Records a transaction. A negative quantity is a sale.

  The date must be a trading day of the ticker, and a sale must be covered
  by the shares held on that day.

Usage Examples:
# Buy 30 shares of NFLX on March 12, 2024.
$ stk add -p fun -t NFLX -q 30 -d 2024-03-12
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "portfolio name")
	f.StringVar(&c.ticker, "t", "", "ticker")
	f.StringVar(&c.quantity, "q", "", "quantity of shares, negative to sell")
	f.StringVar(&c.date, "d", "", "transaction date, defaults to today")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" || c.ticker == "" || c.quantity == "" {
		return c.app.usage("-p, -t and -q are required")
	}
	quantity, err := decimal.NewFromString(c.quantity)
	if err != nil {
		return c.app.usage("invalid quantity %q: %v", c.quantity, err)
	}
	on, err := c.app.parseDate(c.date)
	if err != nil {
		return c.app.usage("%v", err)
	}

	l, err := c.app.open()
	if err != nil {
		return c.app.fail("could not load portfolios: %v", err)
	}
	if err := l.AddStock(c.ticker, quantity, on, c.portfolio); err != nil {
		return c.app.fail("%v", err)
	}
	if err := c.app.save(l); err != nil {
		return c.app.fail("could not save portfolios: %v", err)
	}
	fmt.Fprintf(c.app.Out, "Recorded %s %s on %s in %q\n", quantity, c.ticker, on, c.portfolio)
	return subcommands.ExitSuccess
}

type flipCmd struct{ app *App }

func (*flipCmd) Name() string     { return "flip" }
func (*flipCmd) Synopsis() string { return "toggle whether a portfolio accepts new transactions" }
func (*flipCmd) Usage() string {
	return `stk flip <name>

  Makes a mutable portfolio immutable, and the other way around.
`
}
func (*flipCmd) SetFlags(f *flag.FlagSet) {}

func (c *flipCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("a portfolio name is required")
	}
	name := f.Arg(0)
	l, err := c.app.open()
	if err != nil {
		return c.app.fail("could not load portfolios: %v", err)
	}
	if err := l.FlipMutability(name); err != nil {
		return c.app.fail("%v", err)
	}
	if err := c.app.save(l); err != nil {
		return c.app.fail("could not save portfolios: %v", err)
	}
	p, _ := l.Portfolio(name)
	state := "immutable"
	if p.Mutable() {
		state = "mutable"
	}
	fmt.Fprintf(c.app.Out, "Portfolio %q is now %s\n", name, state)
	return subcommands.ExitSuccess
}
