package main

import (
	"context"
	"errors"
	"os"

	"expensepad/internal/amqp"
	"expensepad/internal/backend"
	"expensepad/internal/cli"
	"expensepad/internal/config"
	"expensepad/internal/log"
	"expensepad/internal/relay"
)

func main() {
	cfg, logger := cli.LoadConfig((*config.Config).ValidateRelay)
	logger = logger.WithComponent(log.ComponentRelay)
	logger.Info("Starting expensepad-relay", log.FieldOperation, log.OpStartup, "relay_sink", cfg.RelaySink)

	ctx, stop := cli.SignalContext()
	defer stop()
	ctx = log.WithLogger(ctx, logger)

	sinkRes, err := backend.NewFactory(logger).CreateRelaySink(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize relay sink", log.FieldError, err)
		os.Exit(1)
	}
	defer sinkRes.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	r := relay.New(sinkRes.Sender, logger)
	if err := client.ConsumeExpenses(ctx, r.HandleMessage); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Relay stopped")
}
