package pgsql

import (
	portsrepo "github.com/SscSPs/school_fees_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	txnRepo := newPgxTransactionRepository(dbPool)
	invoiceRepo := newPgxInvoiceRepository(dbPool, txnRepo)
	catalogRepo := newPgxCatalogRepository(dbPool)
	learnerDirectory := newPgxLearnerDirectory(dbPool)
	reminderRepo := newPgxReminderRepository(dbPool)

	return portsrepo.RepositoryProvider{
		InvoiceRepo:      invoiceRepo,
		TransactionRepo:  txnRepo,
		FeeStructureRepo: catalogRepo,
		DiscountRepo:     catalogRepo,
		LearnerDirectory: learnerDirectory,
		Calendar:         learnerDirectory,
		ReminderRepo:     reminderRepo,
	}
}
