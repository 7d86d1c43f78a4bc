package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	gnucash "github.com/biker2000on/gnucash-web-sub002"
	"github.com/biker2000on/gnucash-web-sub002/renderer"
)

// sectorsCmd holds the flags for the 'sectors' subcommand.
type sectorsCmd struct {
	date string
}

func (*sectorsCmd) Name() string     { return "sectors" }
func (*sectorsCmd) Synopsis() string { return "display portfolio exposure by industry sector" }
func (*sectorsCmd) Usage() string {
	return `gwd sectors [-d <date>]

  Spreads each position's market value across its commodity's sector
  weights and sums per sector. Commodities without sector metadata in the
  book are skipped with a warning.
`
}

func (c *sectorsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", gnucash.Today().String(), "Date for the exposure report (YYYY-MM-DD)")
}

func (c *sectorsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := gnucash.ParseDate(c.date)
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

	report := &renderer.Sectors{Date: on, Exposures: engine.SectorExposures(on, store)}
	printMarkdown(renderer.RenderSectors(report))
	return subcommands.ExitSuccess
}
