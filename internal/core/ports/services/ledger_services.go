package services

import (
	"context"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/SscSPs/school_fees_ledger/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	// GetInvoice retrieves an invoice with its status re-derived for now.
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a filtered page of invoices.
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)
}

// InvoiceGeneratorSvc turns the fee structure catalog into invoices
type InvoiceGeneratorSvc interface {
	// GenerateInvoices invoices every target learner of the period exactly once.
	GenerateInvoices(ctx context.Context, req dto.GenerateInvoicesRequest, actorID string) (*domain.GenerationResult, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceGeneratorSvc
}

// PaymentSvcFacade is the payment ledger
type PaymentSvcFacade interface {
	// RecordPayment records a payment, settling the referenced invoice under a row lock.
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, actorID string) (*domain.Transaction, error)

	// CancelInvoice voids an invoice, freezing its paid amount and balance.
	CancelInvoice(ctx context.Context, invoiceID string, reason string, actorID string) (*domain.Invoice, error)

	// ListLearnerTransactions lists a learner's payments, legacy rows included.
	ListLearnerTransactions(ctx context.Context, learnerID string) ([]domain.Transaction, error)
}

// BalanceSvcFacade aggregates balances from persisted invoices and payments
type BalanceSvcFacade interface {
	// LearnerBalance folds one learner's balance for the given current period.
	LearnerBalance(ctx context.Context, learnerID string, period domain.Period) (*domain.LearnerBalance, error)

	// LearnerBalances folds several learners at once.
	LearnerBalances(ctx context.Context, learnerIDs []string, period domain.Period) (map[string]domain.LearnerBalance, error)

	// GradeBalances folds every active learner of a grade.
	GradeBalances(ctx context.Context, gradeID string, period domain.Period) (*domain.GradeBalanceReport, error)

	// CurrentPeriod resolves the academic period in effect now.
	CurrentPeriod(ctx context.Context) (*domain.Period, error)
}

// ReminderSvcFacade is the reminder scheduler
type ReminderSvcFacade interface {
	// GetSettings returns the stored settings or the defaults, plus the scheduler state.
	GetSettings(ctx context.Context) (*domain.ReminderAutomationSettings, domain.ReminderState, error)

	// SaveSettings validates and stores the form and re-arms the schedule.
	SaveSettings(ctx context.Context, form domain.ReminderSettingsForm, actorID string) (*domain.ReminderAutomationSettings, error)

	// Tick runs one reminder pass if due, or unconditionally when force is set.
	Tick(ctx context.Context, force bool) (*domain.TickResult, error)

	// ListRuns returns recent run history.
	ListRuns(ctx context.Context, limit int) ([]domain.ReminderRun, error)
}

// CatalogSvcFacade manages fee structures and discount settings
type CatalogSvcFacade interface {
	CreateFeeStructure(ctx context.Context, req dto.CreateFeeStructureRequest, actorID string) (*domain.FeeStructure, error)
	ListFeeStructures(ctx context.Context, period domain.Period) ([]domain.FeeStructure, error)
	ListDiscountSettings(ctx context.Context) ([]domain.DiscountSetting, error)
	UpdateDiscountSetting(ctx context.Context, req dto.UpdateDiscountSettingRequest, actorID string) (*domain.DiscountSetting, error)
}
