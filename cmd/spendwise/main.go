package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/app"
	"spendwise/internal/cli"
	apphttp "spendwise/internal/http"
	"spendwise/internal/kv"
	"spendwise/internal/log"
	"spendwise/internal/store"

	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run())
}

// run owns every deferred cleanup, so it returns the exit code instead of
// exiting itself.
func run() int {
	start := time.Now()
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp, os.Stdout)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	cfg := cli.LoadAndValidateConfig(ctx, logger)
	res := cli.OpenBackend(ctx, logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Failed to close storage backend", log.FieldError, err)
		}
	}()

	var storeOpts []store.Option
	var events *amqp.Client
	if cfg.EventsEnabled() {
		events = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.Slog())
		defer events.Close()
		// Not fatal: Publish reconnects on demand.
		if err := events.Connect(ctx); err != nil {
			logger.Warn("AMQP broker unreachable at startup, events will retry", log.FieldError, err)
		}
		storeOpts = append(storeOpts, store.WithObserver(events))
		logger.Info("Expense events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	st := cli.OpenStore(ctx, logger, cfg, res, storeOpts...)
	session := app.New(st, cli.NewAdvisor(ctx, logger, cfg), cfg.Base(),
		logger.WithComponent(log.ComponentSession).Slog())

	srv, err := apphttp.NewServer(":"+cfg.Port, session, apphttp.Options{
		Logger: logger,
		Ready:  func(ctx context.Context) error { return kv.Ping(ctx, res.Store) },
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create HTTP server", log.FieldError, err)
		return 1
	}
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting spendwise server", "port", cfg.Port, "backend", cfg.DataBackend, "base_currency", cfg.BaseCurrency)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		return 1
	}
	m := srv.Metrics()
	logger.Info("Server stopped gracefully", "requests", m.TotalRequests, "uptime", time.Since(start).Round(time.Second).String())
	return 0
}
