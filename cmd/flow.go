package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/biker2000on/gnucash-web-sub002/renderer"
)

// flowCmd holds the flags for the 'flow' subcommand.
type flowCmd struct {
	from string
	to   string
}

func (*flowCmd) Name() string     { return "flow" }
func (*flowCmd) Synopsis() string { return "display income apportioned across expenses and savings" }
func (*flowCmd) Usage() string {
	return `gwd flow [-from <date>] [-to <date>]

  Sums income and expense categories over the window and apportions each
  income category across expense categories and savings, proportionally.
`
}

func (c *flowCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Start of the window (YYYY-MM-DD). Default is 12 months before the end.")
	f.StringVar(&c.to, "to", "", "End of the window (YYYY-MM-DD). Default is today.")
}

func (c *flowCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, to, err := parseWindow(c.from, c.to)
	if err != nil {
		return fail(err)
	}
	cfg, log, err := AppConfig()
	if err != nil {
		return fail(err)
	}
	engine, _, err := NewEngine(cfg, log)
	if err != nil {
		return fail(err)
	}

	printMarkdown(renderer.RenderFlow(engine.Flow(from, to)))
	return subcommands.ExitSuccess
}
