package ports

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	TransactionStore interface {
		InsertTransaction(ctx context.Context, t core.Transaction) (id int64, err error)
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// BudgetStore persists one budget per category. Spent is written
	// separately from the limit.
	BudgetStore interface {
		InsertBudget(ctx context.Context, category string, limit core.Money) (inserted bool, err error)
		BudgetExists(ctx context.Context, category string) (bool, error)
		UpdateBudgetLimit(ctx context.Context, category string, limit core.Money) error
		UpdateBudgetSpent(ctx context.Context, category string, spent core.Money) error
		DeleteBudget(ctx context.Context, category string) (deleted bool, err error)
		ListBudgets(ctx context.Context) ([]*core.Budget, error)
	}

	// EventPublisher announces ledger changes to other processes.
	EventPublisher interface {
		PublishTransactionRecorded(ctx context.Context, t core.Transaction) error
		PublishBudgetExceeded(ctx context.Context, status core.BudgetStatus) error
	}

	// TransactionExporter writes transactions to an external target.
	TransactionExporter interface {
		AppendTransactions(ctx context.Context, transactions []core.Transaction) (int, error)
	}

	// TransactionMirror is an exporter whose rows can be read back, so a
	// mirror can tell how far it has caught up.
	TransactionMirror interface {
		TransactionExporter
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}
)
