package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_fees_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_fees_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type balanceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceReader
	txnRepo     portsrepo.TransactionReader
	learners    portsrepo.LearnerDirectory
	calendar    portsrepo.AcademicCalendar
}

// NewBalanceService creates the balance aggregator. Balances are always folded
// from persisted invoices and transactions; nothing is cached.
func NewBalanceService(
	invoiceRepo portsrepo.InvoiceReader,
	txnRepo portsrepo.TransactionReader,
	learners portsrepo.LearnerDirectory,
	calendar portsrepo.AcademicCalendar,
	options ...ServiceOption,
) portssvc.BalanceSvcFacade {
	return &balanceService{
		BaseService: newBaseService(options...),
		invoiceRepo: invoiceRepo,
		txnRepo:     txnRepo,
		learners:    learners,
		calendar:    calendar,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

func (s *balanceService) LearnerBalance(ctx context.Context, learnerID string, period domain.Period) (*domain.LearnerBalance, error) {
	balances, err := s.LearnerBalances(ctx, []string{learnerID}, period)
	if err != nil {
		return nil, err
	}
	b := balances[learnerID]
	return &b, nil
}

// LearnerBalances folds several learners with two batched reads. Every
// requested learner gets an entry, zeroed when they have no activity.
func (s *balanceService) LearnerBalances(ctx context.Context, learnerIDs []string, period domain.Period) (map[string]domain.LearnerBalance, error) {
	result := make(map[string]domain.LearnerBalance, len(learnerIDs))
	if len(learnerIDs) == 0 {
		return result, nil
	}

	invoices, err := s.invoiceRepo.ListInvoicesByLearnerIDs(ctx, learnerIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load invoices for balances", slog.Int("learners", len(learnerIDs)))
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	txns, err := s.txnRepo.ListTransactionsByLearnerIDs(ctx, learnerIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for balances", slog.Int("learners", len(learnerIDs)))
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	for _, id := range learnerIDs {
		result[id] = domain.FoldLearnerBalance(id, invoices[id], txns[id], period)
	}
	return result, nil
}

func (s *balanceService) GradeBalances(ctx context.Context, gradeID string, period domain.Period) (*domain.GradeBalanceReport, error) {
	learners, err := s.learners.ListActiveLearners(ctx, &gradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list learners of grade %s: %w", gradeID, err)
	}

	ids := make([]string, 0, len(learners))
	for _, l := range learners {
		ids = append(ids, l.LearnerID)
	}
	balances, err := s.LearnerBalances(ctx, ids, period)
	if err != nil {
		return nil, err
	}

	report := &domain.GradeBalanceReport{
		GradeID:      gradeID,
		Period:       period,
		Learners:     make([]domain.LearnerBalance, 0, len(ids)),
		TotalFees:    decimal.Zero,
		TotalPaid:    decimal.Zero,
		TotalBalance: decimal.Zero,
	}
	for _, id := range ids {
		report.Add(balances[id])
	}
	return report, nil
}

// CurrentPeriod resolves the academic period in effect on the service clock.
func (s *balanceService) CurrentPeriod(ctx context.Context) (*domain.Period, error) {
	ap, err := s.calendar.FindCurrentPeriod(ctx, s.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("no current academic period: %w", err)
		}
		return nil, fmt.Errorf("failed to resolve current period: %w", err)
	}
	p := ap.Period
	return &p, nil
}
