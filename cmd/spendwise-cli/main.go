// Command spendwise-cli records and reports expenses from the terminal. It
// reads the same environment configuration as the server.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"spendwise/internal/app"
	"spendwise/internal/cli"
	"spendwise/internal/core"
	"spendwise/internal/log"

	"github.com/google/subcommands"
	"golang.org/x/term"
)

var (
	backendFlag = flag.String("backend", "", "Storage backend (sqlite, memory). Defaults to DATA_BACKEND.")
	dbFlag      = flag.String("db", "", "SQLite database path. Defaults to SQLITE_DB_PATH.")
	baseFlag    = flag.String("base", "", "Base currency for reports. Defaults to BASE_CURRENCY.")
)

// env is what every command runs against. main builds it from
// configuration; tests build it over a memory store.
type env struct {
	session *app.Session
	out     io.Writer
	errOut  io.Writer
	tty     bool
	width   int
	now     func() time.Time
}

func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&addCmd{}, "expenses")
	c.Register(&deleteCmd{}, "expenses")
	c.Register(&listCmd{}, "expenses")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&trendCmd{}, "reports")

	c.Register(&askCmd{}, "assistant")
}

func main() {
	name := path.Base(os.Args[0])
	completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	register(commander)
	flag.Parse()

	cli.LoadEnvFile()
	if os.Getenv("LOG_LEVEL") == "" {
		os.Setenv("LOG_LEVEL", "warn")
	}
	// Logs go to stderr, stdout is for reports.
	logger := cli.SetupLogger(log.ComponentCLI, os.Stderr)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if *backendFlag != "" {
		os.Setenv("DATA_BACKEND", *backendFlag)
	}
	if *dbFlag != "" {
		os.Setenv("SQLITE_DB_PATH", *dbFlag)
	}
	if *baseFlag != "" {
		os.Setenv("BASE_CURRENCY", strings.ToUpper(*baseFlag))
	}

	cfg := cli.LoadAndValidateConfig(ctx, logger)
	res := cli.OpenBackend(ctx, logger, cfg)
	st := cli.OpenStore(ctx, logger, cfg, res)
	session := app.New(st, cli.NewAdvisor(ctx, logger, cfg), cfg.Base(), logger.Slog())

	e := &env{session: session, out: os.Stdout, errOut: os.Stderr, width: 80, now: time.Now}
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		e.tty = true
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			e.width = w
		}
	}

	status := commander.Execute(ctx, e)
	if err := res.Cleanup(); err != nil {
		logger.Error("Failed to close storage backend", log.FieldError, err)
	}
	os.Exit(int(status))
}

// envFrom extracts the env passed to Commander.Execute.
func envFrom(args []interface{}) *env {
	if len(args) == 0 {
		return nil
	}
	e, _ := args[0].(*env)
	return e
}

func currencyNames() []string {
	cs := core.Currencies()
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
