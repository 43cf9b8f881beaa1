package main

import (
	"context"
	"flag"
	"fmt"

	"spendwise/internal/core"

	"github.com/google/subcommands"
)

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show totals and spending by category" }
func (*summaryCmd) Usage() string {
	return `spendwise-cli [-base EUR] summary

  Shows the total, this month's total and the number of transactions,
  followed by spending per category, all converted into the base currency.
`
}

func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (*summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	if e == nil {
		return subcommands.ExitFailure
	}
	now := e.now()
	s := e.session.Dashboard(now)
	fmt.Fprintln(e.out, renderTable(
		[]string{"Total Balance", "This Month", "Transactions"},
		[][]string{{core.Format(s.Total, s.Base), core.Format(s.Monthly, s.Base), fmt.Sprint(s.Count)}},
		-1))

	charts := e.session.Analytics(now)
	if len(charts.Categories) == 0 {
		fmt.Fprintln(e.out, "No expenses yet")
		return subcommands.ExitSuccess
	}
	rows := make([][]string, len(charts.Categories))
	for i, c := range charts.Categories {
		rows[i] = []string{string(c.Category), core.Format(c.Amount, charts.Base)}
	}
	fmt.Fprintln(e.out, renderTable([]string{"Category", "Amount"}, rows, 1))
	return subcommands.ExitSuccess
}

type trendCmd struct{}

func (*trendCmd) Name() string     { return "trend" }
func (*trendCmd) Synopsis() string { return "show spending over the last six months" }
func (*trendCmd) Usage() string {
	return `spendwise-cli [-base EUR] trend

  Shows the rounded spending of each of the last six calendar months,
  oldest first, in the base currency.
`
}

func (*trendCmd) SetFlags(*flag.FlagSet) {}

func (*trendCmd) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	if e == nil {
		return subcommands.ExitFailure
	}
	charts := e.session.Analytics(e.now())
	rows := make([][]string, len(charts.Trend))
	for i, m := range charts.Trend {
		rows[i] = []string{fmt.Sprintf("%s %d", m.Label(), m.Year), core.Format(m.Amount, charts.Base)}
	}
	fmt.Fprintln(e.out, renderTable([]string{"Month", "Spent"}, rows, 1))
	return subcommands.ExitSuccess
}
