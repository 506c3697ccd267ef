package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type registerCmd struct {
	username string
	password string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a new trading account" }
func (*registerCmd) Usage() string {
	return `vtrade register -u <username> -p <password>

  Creates a new account with an empty portfolio. The username must be unique,
  3 to 32 characters long; the password at least 4 characters. Only the
  bcrypt hash of the password is stored.
`
}

func (p *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.username, "u", "", "Username for the new account.")
	f.StringVar(&p.password, "p", "", "Password for the new account.")
}

func (p *registerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.username == "" || p.password == "" {
		fmt.Fprintln(os.Stderr, "Error: both -u and -p are required.")
		return subcommands.ExitUsageError
	}

	ex, _, err := openExchange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	user, err := ex.Register(p.username, p.password)
	if err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Account %q created. Run 'vtrade login -u %s -p <password>' to start trading.\n", user.Username, user.Username)
	return subcommands.ExitSuccess
}
