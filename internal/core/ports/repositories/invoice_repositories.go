package repositories

import (
	"context"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves a specific invoice. Returns apperrors.ErrNotFound when missing.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoicesByLearnerIDs retrieves every invoice of the given learners, across all periods, grouped by learner.
	ListInvoicesByLearnerIDs(ctx context.Context, learnerIDs []string) (map[string][]domain.Invoice, error)

	// ListInvoicedLearnerIDs returns the learners that already hold an invoice for the period.
	ListInvoicedLearnerIDs(ctx context.Context, period domain.Period) (map[string]bool, error)

	// ListInvoices retrieves a filtered page of invoices ordered by issue date then number, newest first.
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// CreateInvoices inserts a generation batch atomically for one period.
	// Invoice numbers are drawn from the period sequence for inserted rows only.
	// Invoices colliding with an existing (learner, period) row are returned in skipped.
	CreateInvoices(ctx context.Context, period domain.Period, invoices []domain.Invoice) (created []domain.Invoice, skipped []domain.Invoice, err error)
}

// InvoiceMutation changes a locked invoice and may return a transaction to insert alongside it.
type InvoiceMutation func(inv *domain.Invoice) (*domain.Transaction, error)

// InvoiceLocker serialises writes against a single invoice.
type InvoiceLocker interface {
	// UpdateInvoiceLocked loads the invoice under a row lock, applies mutate to
	// the persisted state, then writes the invoice and the optional transaction
	// in the same database transaction. An error from mutate aborts without writing.
	UpdateInvoiceLocked(ctx context.Context, invoiceID string, mutate InvoiceMutation) (*domain.Invoice, *domain.Transaction, error)
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
	InvoiceLocker
}
