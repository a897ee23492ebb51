// Package memory is a process-local implementation of every repository port.
// It backs STORAGE_DRIVER=memory and the service scenario tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_fees_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_fees_ledger/internal/utils/pagination"
)

type (
	// Store holds all ledger tables behind a single mutex, which gives
	// UpdateInvoiceLocked the same serialisation a row lock would.
	Store struct {
		mu sync.RWMutex

		learners      map[string]domain.LearnerSummary
		periods       []domain.AcademicPeriod
		feeStructures map[string]domain.FeeStructure // keyed by period + grade
		discounts     map[domain.DiscountType]domain.DiscountSetting
		invoices      map[string]domain.Invoice
		invoiceKeys   map[string]string // learner + period -> invoice id
		transactions  []domain.Transaction
		sequences     map[string]int64
		settings      *domain.ReminderAutomationSettings
		runs          []domain.ReminderRun
	}
)

// New creates an empty store.
func New() *Store {
	return &Store{
		learners:      make(map[string]domain.LearnerSummary),
		feeStructures: make(map[string]domain.FeeStructure),
		discounts:     make(map[domain.DiscountType]domain.DiscountSetting),
		invoices:      make(map[string]domain.Invoice),
		invoiceKeys:   make(map[string]string),
		sequences:     make(map[string]int64),
	}
}

var (
	_ portsrepo.InvoiceRepositoryFacade      = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade  = (*Store)(nil)
	_ portsrepo.FeeStructureRepositoryFacade = (*Store)(nil)
	_ portsrepo.DiscountRepository           = (*Store)(nil)
	_ portsrepo.LearnerDirectory             = (*Store)(nil)
	_ portsrepo.AcademicCalendar             = (*Store)(nil)
	_ portsrepo.ReminderSettingsRepository   = (*Store)(nil)
)

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		InvoiceRepo:      s,
		TransactionRepo:  s,
		FeeStructureRepo: s,
		DiscountRepo:     s,
		LearnerDirectory: s,
		Calendar:         s,
		ReminderRepo:     s,
	}
}

// PutLearner registers or replaces an active learner.
func (s *Store) PutLearner(l domain.LearnerSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.learners[l.LearnerID] = l
}

// RemoveLearner drops a learner from the active roll. Their invoices and payments stay.
func (s *Store) RemoveLearner(learnerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.learners, learnerID)
}

// PutAcademicPeriod adds a period to the calendar.
func (s *Store) PutAcademicPeriod(p domain.AcademicPeriod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods = append(s.periods, p)
}

// AddLegacyPayment records a payment as imported from the legacy fee_payments table.
func (s *Store) AddLegacyPayment(txn domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn.IsLegacy = true
	s.transactions = append(s.transactions, txn)
}

func catalogKey(period domain.Period, gradeID string) string {
	return period.AcademicYear + "|" + period.Term + "|" + gradeID
}

func invoiceKey(learnerID string, period domain.Period) string {
	return learnerID + "|" + period.AcademicYear + "|" + period.Term
}

func (s *Store) nextSequence(scope string) int64 {
	s.sequences[scope]++
	return s.sequences[scope]
}

func cloneInvoice(inv domain.Invoice) domain.Invoice {
	inv.AppliedDiscounts = slices.Clone(inv.AppliedDiscounts)
	return inv
}

func cloneFeeStructure(fs domain.FeeStructure) domain.FeeStructure {
	fs.LineItems = slices.Clone(fs.LineItems)
	return fs
}

// --- learners & calendar ---

func (s *Store) ListActiveLearners(_ context.Context, gradeID *string) ([]domain.LearnerSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	learners := make([]domain.LearnerSummary, 0, len(s.learners))
	for _, l := range s.learners {
		if gradeID != nil && l.GradeID != *gradeID {
			continue
		}
		learners = append(learners, l)
	}
	sort.Slice(learners, func(i, j int) bool {
		return learners[i].LearnerID < learners[j].LearnerID
	})
	return learners, nil
}

func (s *Store) FindLearnerByID(_ context.Context, learnerID string) (*domain.LearnerSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.learners[learnerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &l, nil
}

func (s *Store) FindCurrentPeriod(_ context.Context, at time.Time) (*domain.AcademicPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var flagged *domain.AcademicPeriod
	for i := range s.periods {
		p := s.periods[i]
		if p.Contains(at) {
			return &p, nil
		}
		if p.IsCurrent && flagged == nil {
			flagged = &p
		}
	}
	if flagged == nil {
		return nil, apperrors.ErrNotFound
	}
	return flagged, nil
}

// --- catalog ---

func (s *Store) GetFeeStructure(_ context.Context, period domain.Period, gradeID string) (*domain.FeeStructure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fs, ok := s.feeStructures[catalogKey(period, gradeID)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	fs = cloneFeeStructure(fs)
	return &fs, nil
}

func (s *Store) ListFeeStructuresByPeriod(_ context.Context, period domain.Period) ([]domain.FeeStructure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var structures []domain.FeeStructure
	for _, fs := range s.feeStructures {
		if fs.Period == period {
			structures = append(structures, cloneFeeStructure(fs))
		}
	}
	sort.Slice(structures, func(i, j int) bool {
		return structures[i].GradeID < structures[j].GradeID
	})
	return structures, nil
}

func (s *Store) SaveFeeStructure(_ context.Context, fs domain.FeeStructure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := catalogKey(fs.Period, fs.GradeID)
	if _, exists := s.feeStructures[key]; exists {
		return apperrors.ErrDuplicate
	}
	s.feeStructures[key] = cloneFeeStructure(fs)
	return nil
}

func (s *Store) ListDiscountSettings(_ context.Context) ([]domain.DiscountSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings := make([]domain.DiscountSetting, 0, len(s.discounts))
	for _, t := range domain.AllDiscountTypes {
		if setting, ok := s.discounts[t]; ok {
			settings = append(settings, setting)
		}
	}
	return settings, nil
}

func (s *Store) SaveDiscountSetting(_ context.Context, setting domain.DiscountSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.discounts[setting.DiscountType]; ok {
		setting.CreatedAt = existing.CreatedAt
		setting.CreatedBy = existing.CreatedBy
	}
	s.discounts[setting.DiscountType] = setting
	return nil
}

// --- invoices ---

func (s *Store) FindInvoiceByID(_ context.Context, invoiceID string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[invoiceID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	inv = cloneInvoice(inv)
	return &inv, nil
}

func (s *Store) ListInvoicesByLearnerIDs(_ context.Context, learnerIDs []string) (map[string][]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[string]bool, len(learnerIDs))
	for _, id := range learnerIDs {
		wanted[id] = true
	}
	result := make(map[string][]domain.Invoice, len(learnerIDs))
	for _, inv := range s.invoices {
		if wanted[inv.LearnerID] {
			result[inv.LearnerID] = append(result[inv.LearnerID], cloneInvoice(inv))
		}
	}
	for id := range result {
		sortInvoices(result[id])
	}
	return result, nil
}

func (s *Store) ListInvoicedLearnerIDs(_ context.Context, period domain.Period) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invoiced := make(map[string]bool)
	for _, inv := range s.invoices {
		if inv.Period == period {
			invoiced[inv.LearnerID] = true
		}
	}
	return invoiced, nil
}

// sortInvoices orders newest first by issue date, then number.
func sortInvoices(invoices []domain.Invoice) {
	sort.Slice(invoices, func(i, j int) bool {
		if !invoices[i].IssueDate.Equal(invoices[j].IssueDate) {
			return invoices[i].IssueDate.After(invoices[j].IssueDate)
		}
		return invoices[i].InvoiceNumber > invoices[j].InvoiceNumber
	})
}

func (s *Store) ListInvoices(_ context.Context, filter domain.InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	s.mu.RLock()
	matched := make([]domain.Invoice, 0)
	for _, inv := range s.invoices {
		if !filter.Matches(inv) {
			continue
		}
		if cursor != nil && !cursor.After(inv.IssueDate, inv.InvoiceNumber) {
			continue
		}
		matched = append(matched, cloneInvoice(inv))
	}
	s.mu.RUnlock()

	sortInvoices(matched)
	if limit <= 0 || len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeCursor(pagination.Cursor{Date: last.IssueDate, Key: last.InvoiceNumber})
	return page, &token, nil
}

// CreateInvoices inserts the batch atomically. Numbers are drawn only for
// rows that do not collide with an existing (learner, period) invoice.
func (s *Store) CreateInvoices(_ context.Context, period domain.Period, invoices []domain.Invoice) ([]domain.Invoice, []domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inv := range invoices {
		if inv.Period != period {
			return nil, nil, fmt.Errorf("%w: invoice for %s in batch for %s", apperrors.ErrValidation, inv.Period, period)
		}
	}

	scope := domain.InvoiceSequenceScope(period)
	var created, skipped []domain.Invoice
	for _, inv := range invoices {
		key := invoiceKey(inv.LearnerID, inv.Period)
		if _, exists := s.invoiceKeys[key]; exists {
			skipped = append(skipped, inv)
			continue
		}
		inv.InvoiceNumber = domain.FormatInvoiceNumber(period, s.nextSequence(scope))
		s.invoices[inv.InvoiceID] = cloneInvoice(inv)
		s.invoiceKeys[key] = inv.InvoiceID
		created = append(created, inv)
	}
	return created, skipped, nil
}

func (s *Store) UpdateInvoiceLocked(_ context.Context, invoiceID string, mutate portsrepo.InvoiceMutation) (*domain.Invoice, *domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.invoices[invoiceID]
	if !ok {
		return nil, nil, apperrors.ErrNotFound
	}
	inv := cloneInvoice(stored)
	txn, err := mutate(&inv)
	if err != nil {
		return nil, nil, err
	}
	if txn != nil {
		saved := s.appendTransaction(*txn)
		txn = &saved
	}
	s.invoices[invoiceID] = cloneInvoice(inv)
	return &inv, txn, nil
}

// --- transactions ---

func (s *Store) appendTransaction(txn domain.Transaction) domain.Transaction {
	year := txn.PaymentDate.Year()
	txn.TransactionNumber = domain.FormatTransactionNumber(year, s.nextSequence(domain.TransactionSequenceScope(year)))
	s.transactions = append(s.transactions, txn)
	return txn
}

func (s *Store) SaveTransaction(_ context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.appendTransaction(txn)
	return &saved, nil
}

func (s *Store) ListTransactionsByLearnerIDs(_ context.Context, learnerIDs []string) (map[string][]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[string]bool, len(learnerIDs))
	for _, id := range learnerIDs {
		wanted[id] = true
	}
	result := make(map[string][]domain.Transaction, len(learnerIDs))
	for _, txn := range s.transactions {
		if wanted[txn.LearnerID] {
			result[txn.LearnerID] = append(result[txn.LearnerID], txn)
		}
	}
	return result, nil
}

// --- reminders ---

func (s *Store) GetReminderSettings(_ context.Context) (*domain.ReminderAutomationSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, apperrors.ErrNotFound
	}
	settings := *s.settings
	return &settings, nil
}

func (s *Store) SaveReminderSettings(_ context.Context, settings domain.ReminderAutomationSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &settings
	return nil
}

func (s *Store) SaveReminderRun(_ context.Context, run domain.ReminderRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *Store) ListReminderRuns(_ context.Context, limit int) ([]domain.ReminderRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]domain.ReminderRun, 0, limit)
	for i := len(s.runs) - 1; i >= 0 && (limit <= 0 || len(runs) < limit); i-- {
		runs = append(runs, s.runs[i])
	}
	return runs, nil
}
