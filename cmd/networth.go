package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/biker2000on/gnucash-web-sub002/renderer"
)

// netWorthCmd holds the flags for the 'networth' subcommand.
type netWorthCmd struct {
	from string
	to   string
}

func (*netWorthCmd) Name() string     { return "networth" }
func (*netWorthCmd) Synopsis() string { return "display the month-end net worth time series" }
func (*netWorthCmd) Usage() string {
	return `gwd networth [-from <date>] [-to <date>]

  Displays net worth, assets and liabilities at each month end of the window.
`
}

func (c *netWorthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Start of the window (YYYY-MM-DD). Default is 12 months before the end.")
	f.StringVar(&c.to, "to", "", "End of the window (YYYY-MM-DD). Default is today.")
}

func (c *netWorthCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	report := &renderer.NetWorth{
		BaseCurrency: engine.BaseCurrency(),
		Points:       engine.MonthlySeries(from, to),
	}
	printMarkdown(renderer.RenderNetWorth(report))
	return subcommands.ExitSuccess
}
