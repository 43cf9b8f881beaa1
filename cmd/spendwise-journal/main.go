// Command spendwise-journal consumes expense events from AMQP and appends
// them to the audit journal kept in the local kv store.
package main

import (
	"context"
	"errors"
	"os"

	"spendwise/internal/amqp"
	"spendwise/internal/cli"
	"spendwise/internal/log"
	"spendwise/internal/worker"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker, os.Stdout)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	cfg := cli.LoadAndValidateConfig(ctx, logger)
	if !cfg.EventsEnabled() {
		logger.Fatal(ctx, "AMQP_URL is required for the journal worker")
	}

	res := cli.OpenBackend(ctx, logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Failed to close storage backend", log.FieldError, err)
		}
	}()

	journal := worker.NewJournal(res.Store, cfg.JournalKey, logger.Slog())
	if net, err := journal.NetUSD(ctx); err == nil {
		logger.Info("Journal opened", log.FieldStorageKey, cfg.JournalKey, "net_usd", net.StringFixed(2))
	} else {
		logger.Warn("Existing journal is unreadable", log.FieldStorageKey, cfg.JournalKey, log.FieldError, err)
	}

	client := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.Slog())
	defer client.Close()

	logger.Info("Starting spendwise-journal", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	err := client.Consume(ctx, journal.HandleEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldOperation, log.OpConsume, log.FieldError, err)
		return 1
	}
	logger.Info("Journal worker stopped")
	return 0
}
