// Package cmd implements the CLI application over the ledger valuation
// engine.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	gnucash "github.com/biker2000on/gnucash-web-sub002"
)

// Commands lists every subcommand for registration by the main package.
var Commands = []subcommands.Command{
	&netWorthCmd{},
	&holdingsCmd{},
	&allocationCmd{},
	&sectorsCmd{},
	&flowCmd{},
	&summaryCmd{},
	&chartCmd{},
	&quotesCmd{},
	&assistCmd{},
}

// As a CLI application it has a very short lived lifecycle, so it is ok to
// use global variables.

var configFile = flag.String("config", "gwd.toml", "Path to the configuration file (TOML)")
var verbose = flag.Bool("v", false, "Enable debug logging")

// AppConfig loads the configuration and builds the application logger.
func AppConfig() (*gnucash.Config, zerolog.Logger, error) {
	cfg, err := gnucash.LoadConfig(*configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	level := cfg.Logging.Level
	if *verbose {
		level = "debug"
	}
	return cfg, gnucash.NewLogger(level), nil
}

// DecodeStore reads the book file into a store. A missing file is an empty
// store; the engine downstream decides whether that is fatal.
func DecodeStore(cfg *gnucash.Config, log zerolog.Logger) (*gnucash.MemoryStore, error) {
	f, err := os.Open(cfg.BookPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("path", cfg.BookPath).Msg("book file does not exist, using an empty book")
			return gnucash.NewMemoryStore(), nil
		}
		return nil, fmt.Errorf("could not open book file %q: %w", cfg.BookPath, err)
	}
	defer f.Close()

	store, err := gnucash.DecodeBook(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode book file %q: %w", cfg.BookPath, err)
	}
	if unbalanced := store.UnbalancedTransactions(); len(unbalanced) > 0 {
		log.Warn().Strs("transactions", unbalanced).Msg("unbalanced transactions in book")
	}
	return store, nil
}

// NewEngine loads the book and builds a valuation engine from it.
func NewEngine(cfg *gnucash.Config, log zerolog.Logger) (*gnucash.Engine, *gnucash.MemoryStore, error) {
	store, err := DecodeStore(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	book, err := gnucash.LoadBook(store, log)
	if err != nil {
		return nil, nil, err
	}
	engine, err := gnucash.NewEngine(book, cfg.BaseCurrency, gnucash.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	return engine, store, nil
}

// parseWindow resolves the from/to flag pair, defaulting to the twelve
// months ending today.
func parseWindow(fromFlag, toFlag string) (from, to gnucash.Date, err error) {
	to = gnucash.Today()
	if toFlag != "" {
		if to, err = gnucash.ParseDate(toFlag); err != nil {
			return from, to, err
		}
	}
	from = to.AddMonth(-12)
	if fromFlag != "" {
		if from, err = gnucash.ParseDate(fromFlag); err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
