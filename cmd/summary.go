package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/biker2000on/gnucash-web-sub002/renderer"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	from string
	to   string
	json bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the full dashboard in one report" }
func (*summaryCmd) Usage() string {
	return `gwd summary [-from <date>] [-to <date>] [-json]

  Computes every dashboard report over the window from one ledger snapshot:
  net worth series, holdings, allocation, cash, sector exposure and flow.
  With -json, the raw dashboard payload is printed instead of markdown.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Start of the window (YYYY-MM-DD). Default is 12 months before the end.")
	f.StringVar(&c.to, "to", "", "End of the window (YYYY-MM-DD). Default is today.")
	f.BoolVar(&c.json, "json", false, "print the dashboard as JSON")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, to, err := parseWindow(c.from, c.to)
	if err != nil {
		return fail(err)
	}
	cfg, log, err := AppConfig()
	if err != nil {
		return fail(err)
	}
	engine, store, err := NewEngine(cfg, log)
	if err != nil {
		return fail(err)
	}

	dashboard := engine.Dashboard(store, from, to)
	if c.json {
		payload, err := json.MarshalIndent(dashboard, "", "  ")
		if err != nil {
			return fail(err)
		}
		fmt.Println(string(payload))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderDashboard(dashboard))
	return subcommands.ExitSuccess
}
