package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type askCmd struct{}

func (*askCmd) Name() string     { return "ask" }
func (*askCmd) Synopsis() string { return "ask the assistant about your spending" }
func (*askCmd) Usage() string {
	return `spendwise-cli ask <question...>

  Sends the question and every recorded expense to the assistant. The
  answer is rendered as markdown on a terminal and printed as is otherwise.
`
}

func (*askCmd) SetFlags(*flag.FlagSet) {}

func (*askCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	if e == nil {
		return subcommands.ExitFailure
	}
	question := strings.TrimSpace(strings.Join(f.Args(), " "))
	if question == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	answer, err := e.session.Ask(ctx, question)
	if err != nil {
		fmt.Fprintln(e.errOut, err)
		return subcommands.ExitFailure
	}
	printMarkdown(e, answer)
	return subcommands.ExitSuccess
}
