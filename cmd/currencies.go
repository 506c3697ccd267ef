package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade/renderer"
)

type currenciesCmd struct{}

func (*currenciesCmd) Name() string     { return "currencies" }
func (*currenciesCmd) Synopsis() string { return "list the known currencies" }
func (*currenciesCmd) Usage() string {
	return `vtrade currencies

  Lists every currency the exchange knows, fiat and crypto, with their
  reference data. Set CURRENCIES_FILE to replace the built-in catalog.
`
}

func (*currenciesCmd) SetFlags(f *flag.FlagSet) {}

func (c *currenciesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ex, _, err := openExchange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.CurrenciesMarkdown(ex.Catalog()))
	return subcommands.ExitSuccess
}
