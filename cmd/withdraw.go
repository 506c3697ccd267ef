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

type withdrawCmd struct {
	currency string
	amount   string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "debit funds from a wallet" }
func (*withdrawCmd) Usage() string {
	return `vtrade withdraw -c <code> -a <amount>

  Debits the given amount from a wallet directly, outside of any trade.
  Withdrawing more than the wallet holds fails without changing anything.
`
}

func (p *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "", "Currency code of the wallet (e.g. USD).")
	f.StringVar(&p.amount, "a", "", "Amount to withdraw.")
}

func (p *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	balance, err := ex.Withdraw(session, p.currency, amount)
	if err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderFunding(renderer.NewFunding("withdraw", valutatrade.M(amount, balance.Currency()), balance)))
	return subcommands.ExitSuccess
}
