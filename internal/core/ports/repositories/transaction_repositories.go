package repositories

import (
	"context"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
)

// TransactionReader defines read operations for payment transactions
type TransactionReader interface {
	// ListTransactionsByLearnerIDs retrieves all payments of the given learners grouped by learner,
	// including rows from the legacy fee_payments table.
	ListTransactionsByLearnerIDs(ctx context.Context, learnerIDs []string) (map[string][]domain.Transaction, error)
}

// TransactionWriter defines write operations for payment transactions
type TransactionWriter interface {
	// SaveTransaction persists a payment not tied to an invoice and assigns its transaction number.
	SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
