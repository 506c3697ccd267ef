package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade/renderer"
)

type rateCmd struct{}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "show the rate between two currencies" }
func (*rateCmd) Usage() string {
	return `vtrade rate <from> <to>

  Shows the cached rate for one pair and its reverse. When the cache has no
  fresh entry in either direction, a built-in stub table answers and the
  stub rate is cached so listings show where it came from.
`
}

func (*rateCmd) SetFlags(f *flag.FlagSet) {}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly two currency codes, e.g. 'vtrade rate BTC USD'.")
		return subcommands.ExitUsageError
	}

	ex, _, err := openExchange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	info, err := ex.RateInfo(f.Arg(0), f.Arg(1))
	if err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RateMarkdown(info))
	return subcommands.ExitSuccess
}
