package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "log out and clear the stored session" }
func (*logoutCmd) Usage() string {
	return `vtrade logout

  Removes the stored session token. Trading commands will require a fresh
  login afterwards.
`
}

func (*logoutCmd) SetFlags(f *flag.FlagSet) {}

func (c *logoutCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ex, _, err := openExchange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := ex.Logout(); err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}

	fmt.Println("Logged out.")
	return subcommands.ExitSuccess
}
