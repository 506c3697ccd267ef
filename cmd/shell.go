package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade"
	"github.com/ternarybob/banner"
)

type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "start an interactive trading shell" }
func (*shellCmd) Usage() string {
	return `vtrade shell

  Starts an interactive shell where every vtrade command runs without the
  binary prefix, e.g. 'buy -c BTC -a 0.01'. Type 'exit' or 'quit' to leave.
`
}

func (*shellCmd) SetFlags(f *flag.FlagSet) {}

func (c *shellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := valutatrade.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printBanner(cfg)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("vtrade> ")
		if !scanner.Scan() {
			fmt.Println()
			return subcommands.ExitSuccess
		}
		args := tokenize(scanner.Text())
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			fmt.Println("Goodbye.")
			return subcommands.ExitSuccess
		case "shell":
			fmt.Println("Already in a shell.")
			continue
		}
		runLine(ctx, args)
	}
}

// runLine executes one shell line through a fresh commander, so flag values
// never leak from one line into the next.
func runLine(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("vtrade", flag.ContinueOnError)
	cdr := subcommands.NewCommander(fs, "vtrade")
	Register(cdr)
	if err := fs.Parse(args); err != nil {
		return
	}
	cdr.Execute(ctx)
}

// tokenize splits a shell line into arguments, honoring single and double
// quotes so a line like `assist "how am I doing"` keeps the question as one
// argument. An unterminated quote runs to the end of the line.
func tokenize(line string) []string {
	var args []string
	var cur strings.Builder
	var quote rune
	inToken := false
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args
}

// printBanner displays the shell startup banner to stderr.
func printBanner(cfg *valutatrade.Config) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 888     888 88888888888 8888888b.        d8888  8888888b.  8888888888`,
		` 888     888     888     888   Y88b      d88888  888  "Y88b 888`,
		` 888     888     888     888    888     d88P888  888    888 888`,
		` Y88b   d88P     888     888   d88P    d88P 888  888    888 8888888`,
		`  Y88b d88P      888     8888888P"    d88P  888  888    888 888`,
		`   Y88o88P       888     888 T88b    d88P   888  888    888 888`,
		`    Y888P        888     888  T88b  d8888888888  888  .d88P 888`,
		`     Y8P         888     888   T88b d88P     888 8888888P"  8888888888`,
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s  Console Currency Trading%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")

	kvPad := 16
	kvLines := [][2]string{
		{"Base currency", cfg.BaseCurrency},
		{"Data dir", cfg.DataDir},
		{"Rates TTL", cfg.RatesTTL.String()},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\nType 'help' for commands, 'exit' to leave.\n\n")
}
