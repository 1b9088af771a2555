// Package backend turns configuration into the concrete storage and sink
// implementations the commands run with.
package backend

import (
	"context"
	"fmt"

	"expensepad/internal/amqp"
	"expensepad/internal/config"
	"expensepad/internal/log"
	"expensepad/internal/sink"
	"expensepad/internal/sink/broker"
	"expensepad/internal/sink/google"
	"expensepad/internal/sink/memory"
	"expensepad/internal/sink/webhook"
	"expensepad/internal/storage"
)

// CleanupFunc releases whatever a built component holds open.
type CleanupFunc func() error

// SinkResult is a ready Sender plus its cleanup, which may be nil.
type SinkResult struct {
	Sender  sink.Sender
	Kind    string
	Cleanup CleanupFunc
}

// Close runs Cleanup when there is one.
func (r *SinkResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{logger: logger}
}

// OpenRepository opens the configured state backend.
func (f *Factory) OpenRepository(cfg *config.Config) (storage.Repository, error) {
	logger := f.logger.WithComponent(log.ComponentStorage)
	switch cfg.StateBackend {
	case config.BackendSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, cfg.StateRecordName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		logger.Info("Initialized SQLite state backend", "db_path", cfg.SQLiteDBPath, "record", cfg.StateRecordName)
		return repo, nil
	case config.BackendFile:
		repo, err := storage.NewFileRepository(cfg.StateFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file repository: %w", err)
		}
		logger.Info("Initialized file state backend", "path", cfg.StateFile)
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported state backend: %s", cfg.StateBackend)
	}
}

// CreateSink builds the sender used by the entry form. The webhook sink
// reads its endpoint from urls at send time so settings changes apply at
// once.
func (f *Factory) CreateSink(ctx context.Context, cfg *config.Config, urls webhook.URLSource) (*SinkResult, error) {
	logger := f.logger.WithComponent(log.ComponentSink)
	switch cfg.SinkKind {
	case config.SinkWebhook:
		logger.Info("Initialized webhook sink", "timeout", cfg.SinkTimeout)
		return &SinkResult{
			Sender: webhook.New(urls, webhook.NewHTTPClient(cfg.SinkTimeout)),
			Kind:   cfg.SinkKind,
		}, nil
	case config.SinkSheets:
		cli, err := f.sheets(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &SinkResult{Sender: cli, Kind: cfg.SinkKind}, nil
	case config.SinkBroker:
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Every submit then reports the sink as not configured.
			logger.Warn("Failed to initialize AMQP client, continuing without broker", log.FieldError, err)
			return &SinkResult{Sender: broker.New(nil), Kind: cfg.SinkKind}, nil
		}
		logger.Info("Initialized broker sink", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		return &SinkResult{Sender: broker.New(client), Kind: cfg.SinkKind, Cleanup: client.Close}, nil
	case config.SinkMemory:
		logger.Warn("Using in-memory sink, expenses are not mirrored anywhere")
		return &SinkResult{Sender: memory.New(), Kind: cfg.SinkKind}, nil
	default:
		return nil, fmt.Errorf("unsupported sink kind: %s", cfg.SinkKind)
	}
}

// CreateRelaySink builds the sender the relay worker forwards to.
func (f *Factory) CreateRelaySink(ctx context.Context, cfg *config.Config) (*SinkResult, error) {
	switch cfg.RelaySink {
	case config.SinkSheets:
		cli, err := f.sheets(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &SinkResult{Sender: cli, Kind: cfg.RelaySink}, nil
	case config.SinkWebhook:
		url := cfg.ScriptURL
		return &SinkResult{
			Sender: webhook.New(func() string { return url }, webhook.NewHTTPClient(cfg.SinkTimeout)),
			Kind:   cfg.RelaySink,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported relay sink: %s", cfg.RelaySink)
	}
}

func (f *Factory) sheets(ctx context.Context, cfg *config.Config) (*google.Client, error) {
	cli, err := google.New(ctx, google.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	f.logger.WithComponent(log.ComponentSink).Info("Initialized Google Sheets sink", "sheet", cfg.GoogleSheetName)
	return cli, nil
}
