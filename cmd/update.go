package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade/renderer"
)

type updateCmd struct {
	source string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "fetch fresh rates from the providers" }
func (*updateCmd) Usage() string {
	return `vtrade update [-source <name>]

  Runs the parser service once: fetches quotes from every wired provider,
  merges them into the rate cache and appends the fetch history. A failing
  provider is reported but never blocks the others.
`
}

func (p *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.source, "source", "", "Fetch from one provider only (coingecko, exchangerate).")
}

func (p *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ex, _, err := openExchange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report, err := ex.UpdateRates(ctx, p.source)
	if err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.UpdateMarkdown(report))
	return subcommands.ExitSuccess
}
