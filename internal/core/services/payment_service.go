package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_fees_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_fees_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_fees_ledger/internal/dto"
	"github.com/google/uuid"
)

// paymentService implements the payment ledger.
type paymentService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceLocker
	txnRepo     portsrepo.TransactionRepositoryFacade
	learners    portsrepo.LearnerDirectory
}

// NewPaymentService creates a new payment ledger service.
func NewPaymentService(
	invoiceRepo portsrepo.InvoiceLocker,
	txnRepo portsrepo.TransactionRepositoryFacade,
	learners portsrepo.LearnerDirectory,
	options ...ServiceOption,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		BaseService: newBaseService(options...),
		invoiceRepo: invoiceRepo,
		txnRepo:     txnRepo,
		learners:    learners,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// RecordPayment records money received from a learner. With an invoice the
// payment is applied under the invoice row lock and the transaction is written
// in the same database transaction; overpayment is accepted and the balance
// clamps at zero. Without an invoice it is stored as an ad-hoc fee payment.
func (s *paymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, actorID string) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx).With(slog.String("learner_id", req.LearnerID))

	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if strings.TrimSpace(req.LearnerID) == "" {
		return nil, fmt.Errorf("%w: learner is required", apperrors.ErrValidation)
	}
	if !req.Method.IsValid() {
		return nil, fmt.Errorf("%w: unsupported payment method %q", apperrors.ErrValidation, req.Method)
	}

	now := s.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		LearnerID:       req.LearnerID,
		Amount:          req.Amount,
		PaymentMethod:   req.Method,
		PaymentDate:     now,
		ReferenceNumber: req.ReferenceNumber,
		ReceiptNumber:   req.ReceiptNumber,
		AuditFields:     domain.NewAuditFields(actorID, now),
	}
	if req.PaymentDate != nil {
		txn.PaymentDate = req.PaymentDate.UTC()
	}

	var saved *domain.Transaction
	if req.InvoiceID != nil && *req.InvoiceID != "" {
		invoiceID := *req.InvoiceID
		logger = logger.With(slog.String("invoice_id", invoiceID))

		inv, recorded, err := s.invoiceRepo.UpdateInvoiceLocked(ctx, invoiceID, func(inv *domain.Invoice) (*domain.Transaction, error) {
			if inv.LearnerID != req.LearnerID {
				return nil, fmt.Errorf("%w: invoice %s does not belong to learner %s", apperrors.ErrValidation, invoiceID, req.LearnerID)
			}
			if err := inv.ApplyPayment(req.Amount, actorID, now); err != nil {
				return nil, err
			}
			txn.InvoiceID = &inv.InvoiceID
			txn.Period = inv.Period
			return &txn, nil
		})
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Payment against unknown invoice")
				return nil, apperrors.ErrInvoiceNotFound
			}
			if errors.Is(err, apperrors.ErrInvoiceCancelled) {
				logger.Warn("Payment against cancelled invoice rejected")
				return nil, err
			}
			s.LogError(ctx, err, "Failed to record invoice payment", slog.String("invoice_id", invoiceID))
			return nil, fmt.Errorf("failed to record payment: %w", err)
		}
		saved = recorded
		logger = logger.With(slog.String("invoice_status", string(inv.Status)), slog.String("balance_due", inv.BalanceDue.String()))
	} else {
		if _, err := s.learners.FindLearnerByID(ctx, req.LearnerID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.ErrLearnerNotFound
			}
			return nil, fmt.Errorf("failed to look up learner: %w", err)
		}
		if req.AcademicYear != nil && req.Term != nil {
			txn.Period = domain.Period{AcademicYear: *req.AcademicYear, Term: *req.Term}
		}
		recorded, err := s.txnRepo.SaveTransaction(ctx, txn)
		if err != nil {
			s.LogError(ctx, err, "Failed to record ad-hoc payment")
			return nil, fmt.Errorf("failed to record payment: %w", err)
		}
		saved = recorded
	}

	logger.Info("Payment recorded successfully",
		slog.String("transaction_number", saved.TransactionNumber),
		slog.String("amount", saved.Amount.String()))
	s.Track(actorID, "payment_recorded", map[string]any{
		"method":      string(saved.PaymentMethod),
		"amount":      saved.Amount.String(),
		"has_invoice": saved.InvoiceID != nil,
	})
	return saved, nil
}

// CancelInvoice voids an invoice. Paid amount and balance are frozen.
func (s *paymentService) CancelInvoice(ctx context.Context, invoiceID string, reason string, actorID string) (*domain.Invoice, error) {
	logger := s.GetLogger(ctx).With(slog.String("invoice_id", invoiceID))

	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.ErrReasonRequired
	}

	now := s.Now()
	inv, _, err := s.invoiceRepo.UpdateInvoiceLocked(ctx, invoiceID, func(inv *domain.Invoice) (*domain.Transaction, error) {
		return nil, inv.Cancel(reason, actorID, now)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		if errors.Is(err, apperrors.ErrAlreadyCancelled) {
			logger.Warn("Invoice already cancelled")
			return nil, err
		}
		s.LogError(ctx, err, "Failed to cancel invoice", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to cancel invoice: %w", err)
	}

	logger.Info("Invoice cancelled", slog.String("reason", reason))
	s.Track(actorID, "invoice_cancelled", map[string]any{"invoice_number": inv.InvoiceNumber})
	return inv, nil
}

// ListLearnerTransactions lists a learner's payments oldest first.
func (s *paymentService) ListLearnerTransactions(ctx context.Context, learnerID string) ([]domain.Transaction, error) {
	byLearner, err := s.txnRepo.ListTransactionsByLearnerIDs(ctx, []string{learnerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	txns := byLearner[learnerID]
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].PaymentDate.Before(txns[j].PaymentDate)
	})
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, nil
}
