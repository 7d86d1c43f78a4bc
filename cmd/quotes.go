package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	gnucash "github.com/biker2000on/gnucash-web-sub002"
)

// quotesCmd holds the flags for the 'quotes' subcommand.
type quotesCmd struct {
	dryRun bool
}

func (*quotesCmd) Name() string     { return "quotes" }
func (*quotesCmd) Synopsis() string { return "fetch today's quotes and append them to the book" }
func (*quotesCmd) Usage() string {
	return `gwd quotes [-n]

  Fetches today's quote for every listed commodity in the book from the
  configured provider and appends the resulting price records to the book
  file. With -n, fetched quotes are printed but not written.
`
}

func (c *quotesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "fetch and print quotes without writing them")
}

func (c *quotesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := AppConfig()
	if err != nil {
		return fail(err)
	}
	store, err := DecodeStore(cfg, log)
	if err != nil {
		return fail(err)
	}
	book, err := gnucash.LoadBook(store, log)
	if err != nil {
		return fail(err)
	}

	client := gnucash.NewQuoteClient(cfg.Quotes, log)
	added := client.UpdatePrices(book, store, cfg.BaseCurrency)
	if len(added) == 0 {
		fmt.Println("No quotes fetched.")
		return subcommands.ExitSuccess
	}
	if c.dryRun {
		for _, row := range added {
			line, err := gnucash.EncodePrice(row)
			if err != nil {
				return fail(err)
			}
			fmt.Println(string(line))
		}
		return subcommands.ExitSuccess
	}

	// Append mode keeps the existing book untouched; a price record is one
	// self-contained line.
	out, err := os.OpenFile(cfg.BookPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fail(fmt.Errorf("could not open book file %q: %w", cfg.BookPath, err))
	}
	defer out.Close()
	for _, row := range added {
		line, err := gnucash.EncodePrice(row)
		if err != nil {
			return fail(err)
		}
		if _, err := fmt.Fprintln(out, string(line)); err != nil {
			return fail(fmt.Errorf("could not write to book file %q: %w", cfg.BookPath, err))
		}
	}
	fmt.Printf("Appended %d quotes to %s\n", len(added), cfg.BookPath)
	return subcommands.ExitSuccess
}
