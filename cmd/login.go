package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade"
)

type loginCmd struct {
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in and store a session token" }
func (*loginCmd) Usage() string {
	return `vtrade login -u <username> -p <password>

  Authenticates the user and stores a signed session token next to the data
  files. Later commands read the token back, so one login covers the whole
  console session until the token expires.
`
}

func (p *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.username, "u", "", "Username of the account.")
	f.StringVar(&p.password, "p", "", "Password of the account.")
}

func (p *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.username == "" || p.password == "" {
		fmt.Fprintln(os.Stderr, "Error: both -u and -p are required.")
		return subcommands.ExitUsageError
	}

	ex, cfg, err := openExchange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	user, token, err := ex.Login(p.username, p.password)
	if err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}
	if err := valutatrade.SaveSessionFile(cfg.SessionFile, token); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Logged in as %q. The session is valid for %s.\n", user.Username, cfg.SessionTTL)
	return subcommands.ExitSuccess
}
