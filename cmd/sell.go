package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade/renderer"
	"github.com/shopspring/decimal"
)

type sellCmd struct {
	currency string
	amount   string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell an amount of a currency" }
func (*sellCmd) Usage() string {
	return `vtrade sell -c <code> -a <amount>

  Sells the given amount of a currency, crediting the proceeds at the cached
  rate to the base wallet. Selling more than the wallet holds fails without
  changing anything.
`
}

func (p *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "", "Currency code to sell (e.g. BTC).")
	f.StringVar(&p.amount, "a", "", "Amount to sell, in the asset currency.")
}

func (p *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.currency == "" || p.amount == "" {
		fmt.Fprintln(os.Stderr, "Error: both -c and -a are required.")
		return subcommands.ExitUsageError
	}
	amount, err := decimal.NewFromString(p.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}

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

	trade, err := ex.Sell(session, p.currency, amount)
	if err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderTrade(renderer.NewTrade(trade)))
	return subcommands.ExitSuccess
}
