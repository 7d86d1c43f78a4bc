package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	gnucash "github.com/biker2000on/gnucash-web-sub002"
	"github.com/biker2000on/gnucash-web-sub002/agent"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `gwd assist [initial prompt]

  Start an interactive session with the AI assistant. The assistant can
  query the ledger for net worth, holdings, allocation and flows, and
  search for market context.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	cfg, log, err := AppConfig()
	if err != nil {
		return fail(err)
	}

	clientConfig := &genai.ClientConfig{}
	if cfg.Gemini.APIKey != "" {
		clientConfig.APIKey = cfg.Gemini.APIKey
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	// Each tool call reloads the book so answers follow edits on disk.
	provider := func() (*gnucash.Engine, error) {
		engine, _, err := NewEngine(cfg, log)
		return engine, err
	}

	researcher := agent.NewResearcher(cfg.Gemini.Model)
	analyst := agent.NewAnalyst(cfg.Gemini.Model, provider)
	a := agent.New(os.Stdout, os.Stdin, cfg.Gemini.Model, researcher, analyst)

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
