package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	gnucash "github.com/biker2000on/gnucash-web-sub002"
	"github.com/biker2000on/gnucash-web-sub002/renderer"
)

// allocationCmd holds the flags for the 'allocation' subcommand.
type allocationCmd struct {
	date string
}

func (*allocationCmd) Name() string { return "allocation" }
func (*allocationCmd) Synopsis() string {
	return "display allocation by category and un-invested cash"
}
func (*allocationCmd) Usage() string {
	return `gwd allocation [-d <date>]

  Groups open investment positions by account category and reports the
  un-invested cash sitting next to each investment account.
`
}

func (c *allocationCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", gnucash.Today().String(), "Date for the allocation report (YYYY-MM-DD)")
}

func (c *allocationCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	buckets, cash := engine.CashBuckets(on)
	report := &renderer.Allocation{
		Date:    on,
		Slices:  engine.Allocation(on),
		Buckets: buckets,
		Cash:    cash,
	}
	printMarkdown(renderer.RenderAllocation(report))
	return subcommands.ExitSuccess
}
