package cmd

import (
	"context"
	"flag"

	"github.com/etnz/folio/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{ app *App }

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `stk topic [<topic>...]

  Shows the documentation of the topics, "*" for all of them.
  Without topic, lists them.
`
}

func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		return c.app.fail("reading doc: %v", err)
	}
	c.app.printMarkdown(doc)
	return subcommands.ExitSuccess
}
