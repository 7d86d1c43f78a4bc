package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/biker2000on/gnucash-web-sub002/renderer"
)

// chartCmd holds the flags for the 'chart' subcommand.
type chartCmd struct {
	from   string
	to     string
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render the net worth series as a PNG chart" }
func (*chartCmd) Usage() string {
	return `gwd chart [-from <date>] [-to <date>] [-o <file>]

  Renders the month-end net worth and asset series as a PNG line chart.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Start of the window (YYYY-MM-DD). Default is 12 months before the end.")
	f.StringVar(&c.to, "to", "", "End of the window (YYYY-MM-DD). Default is today.")
	f.StringVar(&c.output, "o", "networth.png", "Output file for the chart")
}

func (c *chartCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	png, err := renderer.RenderNetWorthChart(engine.MonthlySeries(from, to))
	if err != nil {
		return fail(err)
	}
	if err := os.WriteFile(c.output, png, 0644); err != nil {
		return fail(err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", c.output, len(png))
	return subcommands.ExitSuccess
}
