package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade/renderer"
)

type portfolioCmd struct {
	base string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display the portfolio valued in a base currency" }
func (*portfolioCmd) Usage() string {
	return `vtrade portfolio [-base <code>]

  Displays every wallet of the logged-in user with its value converted to
  the base currency through the cached rates. Holdings without a cached
  rate are listed but left out of the total.
`
}

func (p *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.base, "base", "", "Currency to value the portfolio in. Defaults to the configured base.")
}

func (p *portfolioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ex, _, err := openExchange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	session, err := ex.CurrentSession()
	if err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}

	statement, err := ex.Statement(session, p.base)
	if err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderStatement(renderer.NewStatement(statement)))
	return subcommands.ExitSuccess
}
