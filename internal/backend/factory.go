package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/memory"
	"fintrack/internal/ports"
	"fintrack/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(config)
	case MemoryBackend:
		result = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	f.attachPublisher(ctx, config, result)
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	store, err := storage.NewSQLiteStore(config.TransactionsDBPath, config.BudgetsDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite stores: %w", err)
	}

	f.logger.Info("Initialized SQLite backend",
		"transactions_db", config.TransactionsDBPath,
		"budgets_db", config.BudgetsDBPath)

	return &BackendResult{
		Backend: Backend{Transactions: store.Transactions, Budgets: store.Budgets},
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) *BackendResult {
	store := memory.New()
	if config.SeedBudgetsFile != "" {
		store = memory.NewFromFile(config.SeedBudgetsFile)
	}

	f.logger.Info("Initialized memory backend", "seed_file", config.SeedBudgetsFile)

	return &BackendResult{
		Backend: Backend{Transactions: store, Budgets: store},
		Cleanup: store.Close,
	}
}

// attachPublisher connects to AMQP when configured. A broker that cannot be
// reached only disables event publishing.
func (f *DefaultFactory) attachPublisher(ctx context.Context, config Config, result *BackendResult) {
	if config.AMQPURL == "" {
		return
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", "error", err)
		return
	}

	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	var publisher ports.EventPublisher = client
	result.Backend.Publisher = publisher

	storeCleanup := result.Cleanup
	result.Cleanup = func() error {
		var storeErr error
		if storeCleanup != nil {
			storeErr = storeCleanup()
		}
		if err := client.Close(); err != nil {
			return fmt.Errorf("close amqp: %w", err)
		}
		return storeErr
	}
}
