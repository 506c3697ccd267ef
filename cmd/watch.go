package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade"
)

type watchCmd struct {
	interval time.Duration
	source   string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh rates continuously in the foreground" }
func (*watchCmd) Usage() string {
	return `vtrade watch [-interval <duration>] [-source <name>]

  Runs the parser service in the foreground: one update immediately, then
  one on every interval tick, logging each run to the console. Stop with
  Ctrl-C.
`
}

func (p *watchCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&p.interval, "interval", 0, "Time between updates. Defaults to UPDATE_INTERVAL_SECONDS.")
	f.StringVar(&p.source, "source", "", "Fetch from one provider only (coingecko, exchangerate).")
}

func (p *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := valutatrade.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	interval := p.interval
	if interval <= 0 {
		interval = cfg.UpdateInterval
	}

	store := valutatrade.NewStore(cfg)
	updater := newUpdater(cfg, store, valutatrade.NewConsoleLogger(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = updater.RunEvery(ctx, interval, p.source)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Println("watch stopped.")
	return subcommands.ExitSuccess
}
