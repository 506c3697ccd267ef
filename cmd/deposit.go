package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade"
	"github.com/kirilldublin/valutatrade/renderer"
	"github.com/shopspring/decimal"
)

type depositCmd struct {
	currency string
	amount   string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "credit a wallet with funds" }
func (*depositCmd) Usage() string {
	return `vtrade deposit -c <code> -a <amount>

  Credits the given amount to a wallet directly, outside of any trade. The
  wallet is created when it does not exist yet.
`
}

func (p *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "", "Currency code of the wallet (e.g. USD).")
	f.StringVar(&p.amount, "a", "", "Amount to deposit.")
}

func (p *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	balance, err := ex.Deposit(session, p.currency, amount)
	if err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderFunding(renderer.NewFunding("deposit", valutatrade.M(amount, balance.Currency()), balance)))
	return subcommands.ExitSuccess
}
