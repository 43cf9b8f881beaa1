package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"spendwise/internal/core"

	"github.com/google/subcommands"
)

type addCmd struct {
	amount   string
	currency string
	category string
	date     string
	desc     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a new expense" }
func (*addCmd) Usage() string {
	return `spendwise-cli add -amount <amount> [-currency USD] [-category Other] [-date YYYY-MM-DD] <description...>

  Records an expense. The description is either -desc or the remaining
  arguments. The date defaults to today.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Amount spent, dot or comma decimal separator.")
	f.StringVar(&c.currency, "currency", string(core.USD), "Currency of the amount ("+strings.Join(currencyNames(), ", ")+").")
	f.StringVar(&c.category, "category", string(core.Other), "Category label or short name (food, transport, shopping, entertainment, bills, health, travel, other).")
	f.StringVar(&c.date, "date", "", "Date of the expense (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.desc, "desc", "", "Description. Overrides positional arguments.")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	if e == nil {
		return subcommands.ExitFailure
	}

	desc := c.desc
	if desc == "" {
		desc = strings.Join(f.Args(), " ")
	}
	date := c.date
	if date == "" {
		date = core.DateOf(e.now()).String()
	}

	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(e.errOut, "Error parsing amount %q: %v\n", c.amount, err)
		return subcommands.ExitUsageError
	}
	cur, err := core.ParseCurrency(c.currency)
	if err != nil {
		fmt.Fprintln(e.errOut, err)
		return subcommands.ExitUsageError
	}
	cat, err := core.ParseCategory(c.category)
	if err != nil {
		fmt.Fprintln(e.errOut, err)
		return subcommands.ExitUsageError
	}
	d, err := core.ParseDate(date)
	if err != nil {
		fmt.Fprintln(e.errOut, err)
		return subcommands.ExitUsageError
	}

	exp, err := e.session.AddExpense(ctx, core.Draft{
		Amount:      amount,
		Currency:    cur,
		Category:    cat,
		Description: desc,
		Date:        d,
	})
	if err != nil {
		fmt.Fprintf(e.errOut, "Error adding expense: %v\n", err)
		if errors.Is(err, core.ErrInvalidDraft) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	fmt.Fprintf(e.out, "Added %s: %s %s on %s [%s]\n",
		exp.ID, exp.Description, core.Format(exp.Amount, exp.Currency), exp.Date, exp.Category)
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	yes bool
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete an expense by id" }
func (*deleteCmd) Usage() string {
	return `spendwise-cli delete -yes <id>

  Deletes the expense with the given id. -yes confirms the deletion.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the deletion.")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	if e == nil {
		return subcommands.ExitFailure
	}
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)
	if !c.yes {
		fmt.Fprintf(e.errOut, "Refusing to delete %s without -yes\n", id)
		return subcommands.ExitUsageError
	}
	if !e.session.DeleteExpense(ctx, id) {
		fmt.Fprintf(e.out, "No expense with id %s\n", id)
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(e.out, "Deleted %s\n", id)
	return subcommands.ExitSuccess
}

type listCmd struct {
	limit int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list expenses, most recent first" }
func (*listCmd) Usage() string {
	return `spendwise-cli list [-n <count>]

  Lists recorded expenses in their own currency, most recent first.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 0, "Show at most n expenses. 0 shows all.")
}

func (c *listCmd) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	if e == nil {
		return subcommands.ExitFailure
	}
	items := core.Recent(e.session.Expenses(), c.limit)
	if len(items) == 0 {
		fmt.Fprintln(e.out, "No history available")
		return subcommands.ExitSuccess
	}
	rows := make([][]string, len(items))
	for i, x := range items {
		rows[i] = []string{x.Date.String(), x.Description, string(x.Category), core.Format(x.Amount, x.Currency), x.ID}
	}
	fmt.Fprintln(e.out, renderTable([]string{"Date", "Description", "Category", "Amount", "ID"}, rows, 3))
	return subcommands.ExitSuccess
}
