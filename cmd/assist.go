package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/kirilldublin/valutatrade/advisor"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `vtrade assist [<question>...]

  Starts an interactive session with the AI assistant. The assistant can
  read your portfolio, the cached rates and the fetch history, and search
  the web for market background. Requires GEMINI_API_KEY.
`
}

func (*assistCmd) SetFlags(f *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	ex, _, err := openExchange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	// A missing session is fine here: the bookkeeper's tools report it to
	// the assistant, which will suggest logging in.
	session, _ := ex.CurrentSession()

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	analyst := advisor.NewAnalyst()
	bookkeeper := advisor.NewBookkeeper(ex, session)
	a := advisor.New(os.Stdout, os.Stdin, analyst, bookkeeper)

	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Assistant failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
