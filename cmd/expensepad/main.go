package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expensepad/internal/backend"
	"expensepad/internal/cli"
	"expensepad/internal/config"
	"expensepad/internal/entry"
	"expensepad/internal/history"
	apphttp "expensepad/internal/http"
	"expensepad/internal/log"
)

func main() {
	cfg, logger := cli.LoadConfig((*config.Config).Validate)

	ctx, stop := cli.SignalContext()
	defer stop()

	factory := backend.NewFactory(logger)

	state, repo, err := cli.OpenState(ctx, factory, cfg)
	if err != nil {
		logger.Error("Failed to open state", log.FieldError, err, "backend", cfg.StateBackend)
		os.Exit(1)
	}
	defer repo.Close()

	sinkRes, err := factory.CreateSink(ctx, cfg, state.SinkURL)
	if err != nil {
		logger.Error("Failed to initialize sink", log.FieldError, err, "sink", cfg.SinkKind)
		os.Exit(1)
	}
	defer sinkRes.Close()

	form := entry.New(state, sinkRes.Sender,
		entry.WithLogger(logger),
		entry.WithOptions(entry.Options{
			KeepFailedRows:         cfg.KeepFailedRows,
			CommitWhenUnconfigured: cfg.CommitWhenUnconfigured,
		}),
	)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		State:    state,
		Form:     form,
		History:  history.New(state.Expenses()),
		SinkKind: sinkRes.Kind,
	}, logger)

	srv.ReadTimeout = 10 * time.Second
	// Submits wait on the sink one row at a time.
	srv.WriteTimeout = 2 * time.Minute
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting expensepad server",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			"state_backend", cfg.StateBackend,
			"sink", sinkRes.Kind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
