package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade/renderer"
)

type ratesCmd struct {
	currency string
	base     string
	top      int
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "list the cached exchange rates" }
func (*ratesCmd) Usage() string {
	return `vtrade rates [-c <code>] [-base <code>] [-top <n>]

  Lists the cached rates with their source and fetch time. -c keeps only
  pairs touching one currency, -base keeps only pairs quoted in one base,
  and -top keeps the n highest rates.
`
}

func (p *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "", "Show only pairs touching this currency.")
	f.StringVar(&p.base, "base", "", "Show only pairs quoted in this currency.")
	f.IntVar(&p.top, "top", 0, "Show only the N highest rates.")
}

func (p *ratesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.top < 0 {
		fmt.Fprintln(os.Stderr, "Error: -top must be positive.")
		return subcommands.ExitUsageError
	}

	ex, _, err := openExchange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	listing, err := ex.Rates(p.currency, p.base, p.top)
	if err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RatesMarkdown(listing))
	return subcommands.ExitSuccess
}
