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

type buyCmd struct {
	currency string
	amount   string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy an amount of a currency" }
func (*buyCmd) Usage() string {
	return `vtrade buy -c <code> -a <amount>

  Buys the given amount of a currency, paying amount times the cached rate
  from the base wallet. The asset wallet is created on first buy; when the
  base wallet cannot cover the cost, the portfolio stays untouched.
`
}

func (p *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "", "Currency code to buy (e.g. BTC).")
	f.StringVar(&p.amount, "a", "", "Amount to buy, in the asset currency.")
}

func (p *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	trade, err := ex.Buy(session, p.currency, amount)
	if err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderTrade(renderer.NewTrade(trade)))
	return subcommands.ExitSuccess
}
