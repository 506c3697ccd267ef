package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade"
	"github.com/kirilldublin/valutatrade/renderer"
)

type historyCmd struct {
	since time.Duration
	png   string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the recorded rate history of a pair" }
func (*historyCmd) Usage() string {
	return `vtrade history [-since <duration>] [-png <file>] <pair>

  Lists every recorded fetch for one pair, oldest first, with the source and
  fetch metadata of each quote. The pair is written as FROM_TO, e.g.
  BTC_USD. With -png, a price chart is also written to the given file.
`
}

func (p *historyCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&p.since, "since", 0, "Keep only records newer than this, e.g. 24h. Zero keeps everything.")
	f.StringVar(&p.png, "png", "", "Write a price chart to this PNG file.")
}

func (p *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one pair, e.g. 'vtrade history BTC_USD'.")
		return subcommands.ExitUsageError
	}
	from, to, err := valutatrade.ParsePair(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	pair := from + "_" + to

	var since time.Time
	if p.since > 0 {
		since = time.Now().Add(-p.since)
	}

	ex, _, err := openExchange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	records, err := ex.PairHistory(pair, since)
	if err != nil {
		printErr(ex, err)
		return subcommands.ExitFailure
	}

	if p.png != "" {
		times, values, err := ex.PairSeries(pair, since)
		if err != nil {
			printErr(ex, err)
			return subcommands.ExitFailure
		}
		png, err := renderer.HistoryChartPNG(pair, times, values)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(p.png, png, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Chart written to %s\n", p.png)
	}

	printMarkdown(renderer.HistoryMarkdown(pair, records))
	return subcommands.ExitSuccess
}
