package services

import (
	"github.com/SscSPs/school_fees_ledger/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/school_fees_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_fees_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_fees_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// locker may be nil for single-replica deployments.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	gateway gateways.MessagingGateway,
	locker gateways.Locker,
	options ...ServiceOption,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Catalog = NewCatalogService(repos.FeeStructureRepo, repos.DiscountRepo, options...)
	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.FeeStructureRepo,
		repos.DiscountRepo,
		repos.LearnerDirectory,
		cfg.InvoiceDueDays,
		options...,
	)
	container.Payment = NewPaymentService(repos.InvoiceRepo, repos.TransactionRepo, repos.LearnerDirectory, options...)

	// Balance is read by the reminder scheduler, so it is built first.
	container.Balance = NewBalanceService(
		repos.InvoiceRepo,
		repos.TransactionRepo,
		repos.LearnerDirectory,
		repos.Calendar,
		options...,
	)

	reminderOptions := []ReminderOption{
		WithServiceOptions(options...),
		WithComposer(ReminderComposer{
			SchoolName:          cfg.SchoolName,
			CurrencyCode:        cfg.CurrencyCode,
			PaymentInstructions: cfg.PaymentInstructions,
		}),
	}
	if locker != nil {
		reminderOptions = append(reminderOptions, WithLocker(locker, cfg.ReminderLockTTL))
	}
	container.Reminder = NewReminderService(
		repos.ReminderRepo,
		repos.LearnerDirectory,
		container.Balance,
		gateway,
		reminderOptions...,
	)

	return container
}
