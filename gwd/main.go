// Command gwd is the ledger valuation CLI: point-in-time net worth,
// holdings, allocation and flow reports over a GnuCash-style book.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/biker2000on/gnucash-web-sub002/cmd"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion wires shell completion; it exits the process when invoked by
// the shell completion hook and is a no-op otherwise.
func completion() {
	window := map[string]complete.Predictor{
		"from": predict.Nothing,
		"to":   predict.Nothing,
	}
	dated := map[string]complete.Predictor{
		"d": predict.Nothing,
	}
	gwd := &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"v":      predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"networth":   {Flags: window},
			"holdings":   {Flags: map[string]complete.Predictor{"d": predict.Nothing, "c": predict.Nothing}},
			"allocation": {Flags: dated},
			"sectors":    {Flags: dated},
			"flow":       {Flags: window},
			"summary": {Flags: map[string]complete.Predictor{
				"from": predict.Nothing,
				"to":   predict.Nothing,
				"json": predict.Nothing,
			}},
			"chart": {Flags: map[string]complete.Predictor{
				"from": predict.Nothing,
				"to":   predict.Nothing,
				"o":    predict.Files("*.png"),
			}},
			"quotes": {Flags: map[string]complete.Predictor{"n": predict.Nothing}},
			"assist": {},
		},
	}
	gwd.Complete("gwd")
}
