package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/SscSPs/school_fees_ledger/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/school_fees_ledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesByLearnerIDs(ctx context.Context, learnerIDs []string) (map[string][]domain.Invoice, error) {
	args := m.Called(ctx, learnerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicedLearnerIDs(ctx context.Context, period domain.Period) (map[string]bool, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, filter domain.InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Invoice), returnedNextToken, args.Error(2)
}

// CreateInvoices reports the learner IDs listed in the second return value as collisions.
func (m *MockInvoiceRepository) CreateInvoices(ctx context.Context, period domain.Period, invoices []domain.Invoice) ([]domain.Invoice, []domain.Invoice, error) {
	args := m.Called(ctx, period, invoices)
	if err := args.Error(1); err != nil {
		return nil, nil, err
	}
	colliding := map[string]bool{}
	if ids, ok := args.Get(0).([]string); ok {
		for _, id := range ids {
			colliding[id] = true
		}
	}
	var created, skipped []domain.Invoice
	for i, inv := range invoices {
		if colliding[inv.LearnerID] {
			skipped = append(skipped, inv)
			continue
		}
		inv.InvoiceNumber = domain.FormatInvoiceNumber(period, int64(i+1))
		created = append(created, inv)
	}
	return created, skipped, nil
}

// UpdateInvoiceLocked applies mutate to a copy of the invoice returned by the expectation.
func (m *MockInvoiceRepository) UpdateInvoiceLocked(ctx context.Context, invoiceID string, mutate portsrepo.InvoiceMutation) (*domain.Invoice, *domain.Transaction, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(1)
	}
	inv := *args.Get(0).(*domain.Invoice)
	txn, err := mutate(&inv)
	if err != nil {
		return nil, nil, err
	}
	if txn != nil {
		saved := *txn
		saved.TransactionNumber = domain.FormatTransactionNumber(saved.PaymentDate.Year(), 1)
		txn = &saved
	}
	return &inv, txn, args.Error(1)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) ListTransactionsByLearnerIDs(ctx context.Context, learnerIDs []string) (map[string][]domain.Transaction, error) {
	args := m.Called(ctx, learnerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// --- Mock FeeStructureRepository ---
type MockFeeStructureRepository struct {
	mock.Mock
}

var _ portsrepo.FeeStructureRepositoryFacade = (*MockFeeStructureRepository)(nil)

func (m *MockFeeStructureRepository) GetFeeStructure(ctx context.Context, period domain.Period, gradeID string) (*domain.FeeStructure, error) {
	args := m.Called(ctx, period, gradeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) ListFeeStructuresByPeriod(ctx context.Context, period domain.Period) ([]domain.FeeStructure, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) SaveFeeStructure(ctx context.Context, fs domain.FeeStructure) error {
	args := m.Called(ctx, fs)
	return args.Error(0)
}

// --- Mock DiscountRepository ---
type MockDiscountRepository struct {
	mock.Mock
}

var _ portsrepo.DiscountRepository = (*MockDiscountRepository)(nil)

func (m *MockDiscountRepository) ListDiscountSettings(ctx context.Context) ([]domain.DiscountSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DiscountSetting), args.Error(1)
}

func (m *MockDiscountRepository) SaveDiscountSetting(ctx context.Context, setting domain.DiscountSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

// --- Mock LearnerDirectory ---
type MockLearnerDirectory struct {
	mock.Mock
}

var _ portsrepo.LearnerDirectory = (*MockLearnerDirectory)(nil)

func (m *MockLearnerDirectory) ListActiveLearners(ctx context.Context, gradeID *string) ([]domain.LearnerSummary, error) {
	args := m.Called(ctx, gradeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LearnerSummary), args.Error(1)
}

func (m *MockLearnerDirectory) FindLearnerByID(ctx context.Context, learnerID string) (*domain.LearnerSummary, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearnerSummary), args.Error(1)
}

// --- Mock MessagingGateway ---
type MockMessagingGateway struct {
	mock.Mock
}

var _ gateways.MessagingGateway = (*MockMessagingGateway)(nil)

func (m *MockMessagingGateway) SendReminder(ctx context.Context, learnerID string, msg domain.ReminderMessage) (domain.DispatchAck, error) {
	args := m.Called(ctx, learnerID, msg)
	return args.Get(0).(domain.DispatchAck), args.Error(1)
}

// --- Mock Locker ---
type MockLocker struct {
	mock.Mock
}

var _ gateways.Locker = (*MockLocker)(nil)

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	args := m.Called(ctx, key, ttl)
	return func() { m.MethodCalled("Release", key) }, args.Bool(0), args.Error(1)
}

// --- Context-honouring reminder settings repository ---

// ctxReminderRepository fails every call on a done context, as pgx does,
// and delegates to the wrapped repository otherwise.
type ctxReminderRepository struct {
	portsrepo.ReminderSettingsRepository
}

func (r ctxReminderRepository) GetReminderSettings(ctx context.Context) (*domain.ReminderAutomationSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.ReminderSettingsRepository.GetReminderSettings(ctx)
}

func (r ctxReminderRepository) SaveReminderSettings(ctx context.Context, settings domain.ReminderAutomationSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.ReminderSettingsRepository.SaveReminderSettings(ctx, settings)
}

func (r ctxReminderRepository) SaveReminderRun(ctx context.Context, run domain.ReminderRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.ReminderSettingsRepository.SaveReminderRun(ctx, run)
}
