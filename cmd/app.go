// Package cmd implements the CLI application to trade currencies from the console.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade"
	"github.com/phuslu/log"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	register(c, c.HelpCommand(), "")
	register(c, c.FlagsCommand(), "")
	register(c, c.CommandsCommand(), "")

	register(c, &registerCmd{}, "account")
	register(c, &loginCmd{}, "account")
	register(c, &logoutCmd{}, "account")

	register(c, &buyCmd{}, "trading")
	register(c, &sellCmd{}, "trading")
	register(c, &depositCmd{}, "trading")
	register(c, &withdrawCmd{}, "trading")
	register(c, &portfolioCmd{}, "trading")

	register(c, &rateCmd{}, "rates")
	register(c, &ratesCmd{}, "rates")
	register(c, &updateCmd{}, "rates")
	register(c, &watchCmd{}, "rates")
	register(c, &historyCmd{}, "rates")

	register(c, &currenciesCmd{}, "documentation")
	register(c, &topicCmd{}, "documentation")

	register(c, &shellCmd{}, "interactive")
	register(c, &assistCmd{}, "interactive")
}

// known tracks the registered command names, so main can decide when to try
// an external vtrade-<name> extension instead.
var known = make(map[string]bool)

func register(c *subcommands.Commander, cmd subcommands.Command, group string) {
	known[cmd.Name()] = true
	c.Register(cmd, group)
}

// Known reports whether name is a built-in subcommand.
func Known(name string) bool { return known[name] }

// openExchange is the central function to wire the application: config,
// stores, catalog, audit log and the rate providers.
func openExchange() (*valutatrade.Exchange, *valutatrade.Config, error) {
	cfg, err := valutatrade.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	store := valutatrade.NewStore(cfg)
	catalog, err := store.LoadCatalog()
	if err != nil {
		return nil, nil, err
	}
	updater := newUpdater(cfg, store, valutatrade.NewParserLogger(cfg))
	ex := valutatrade.NewExchange(cfg, store, catalog, valutatrade.NewActionLogger(cfg), updater)
	return ex, cfg, nil
}

// newUpdater wires the parser service over the given store and logger. The
// watch command passes a console logger here instead of the parser log file.
func newUpdater(cfg *valutatrade.Config, store *valutatrade.Store, logger log.Logger) *valutatrade.Updater {
	client := valutatrade.NewHTTPClient(cfg.RequestTimeout)
	return valutatrade.NewUpdater(store, logger,
		valutatrade.NewCoinGecko(client, cfg),
		valutatrade.NewExchangeRateAPI(client, cfg),
	)
}

// printMarkdown renders markdown on the terminal, falling back to the raw
// text when the renderer cannot run (no TTY, unknown TERM).
func printMarkdown(markdown string) {
	out, err := glamour.Render(markdown, "auto")
	if err != nil {
		fmt.Println(markdown)
		return
	}
	fmt.Print(out)
}

// printErr prints one user-facing line for err. Unknown currency errors get
// the supported codes appended, so the typo is fixable without a second command.
func printErr(ex *valutatrade.Exchange, err error) {
	var unknown *valutatrade.UnknownCurrencyError
	if errors.As(err, &unknown) {
		fmt.Fprintf(os.Stderr, "%v (supported codes: %s)\n", err, strings.Join(ex.Catalog().Codes(), ", "))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
