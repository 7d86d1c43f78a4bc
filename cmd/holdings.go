package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	gnucash "github.com/biker2000on/gnucash-web-sub002"
	"github.com/biker2000on/gnucash-web-sub002/renderer"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	date         string
	consolidated bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display investment positions for a specific date" }
func (*holdingsCmd) Usage() string {
	return `gwd holdings [-d <date>] [-c]

  Displays open investment positions on a given date, with cost basis,
  market value and gain/loss. With -c, positions are consolidated by
  commodity with the per-account breakdown nested below.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", gnucash.Today().String(), "Date for the holdings report (YYYY-MM-DD)")
	f.BoolVar(&c.consolidated, "c", false, "consolidate positions by commodity")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := gnucash.ParseDate(c.date)
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

	if c.consolidated {
		report := &renderer.Consolidated{Date: on, Holdings: engine.Consolidated(on)}
		printMarkdown(renderer.RenderConsolidated(report))
		return subcommands.ExitSuccess
	}
	report := &renderer.Holdings{Date: on, Summary: engine.Summary(on), Holdings: engine.Holdings(on)}
	printMarkdown(renderer.RenderHoldings(report))
	return subcommands.ExitSuccess
}
