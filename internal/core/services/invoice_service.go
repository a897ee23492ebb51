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
	"github.com/SscSPs/school_fees_ledger/internal/dto"
)

const defaultInvoiceDueDays = 30

// invoiceService implements the invoice engine.
type invoiceService struct {
	BaseService
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	feeRepo      portsrepo.FeeStructureReader
	discountRepo portsrepo.DiscountRepository
	learners     portsrepo.LearnerDirectory
	dueDays      int
}

// NewInvoiceService creates a new invoice service. dueDays applies to fee
// structures without their own due date; zero means 30 days.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	feeRepo portsrepo.FeeStructureReader,
	discountRepo portsrepo.DiscountRepository,
	learners portsrepo.LearnerDirectory,
	dueDays int,
	options ...ServiceOption,
) portssvc.InvoiceSvcFacade {
	if dueDays <= 0 {
		dueDays = defaultInvoiceDueDays
	}
	return &invoiceService{
		BaseService:  newBaseService(options...),
		invoiceRepo:  invoiceRepo,
		feeRepo:      feeRepo,
		discountRepo: discountRepo,
		learners:     learners,
		dueDays:      dueDays,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// feeStructureCache memoises catalog lookups for the duration of one batch.
// A nil entry records a grade known to have no structure.
type feeStructureCache struct {
	repo    portsrepo.FeeStructureReader
	period  domain.Period
	byGrade map[string]*domain.FeeStructure
}

func newFeeStructureCache(repo portsrepo.FeeStructureReader, period domain.Period) *feeStructureCache {
	return &feeStructureCache{repo: repo, period: period, byGrade: make(map[string]*domain.FeeStructure)}
}

func (c *feeStructureCache) prime(structures []domain.FeeStructure) {
	for i := range structures {
		c.byGrade[structures[i].GradeID] = &structures[i]
	}
}

func (c *feeStructureCache) get(ctx context.Context, gradeID string) (*domain.FeeStructure, error) {
	if fs, ok := c.byGrade[gradeID]; ok {
		if fs == nil {
			return nil, apperrors.ErrFeeStructureNotFound
		}
		return fs, nil
	}
	fs, err := c.repo.GetFeeStructure(ctx, c.period, gradeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.byGrade[gradeID] = nil
			return nil, apperrors.ErrFeeStructureNotFound
		}
		return nil, err
	}
	c.byGrade[gradeID] = fs
	return fs, nil
}

// GenerateInvoices creates one invoice per target learner for the period.
// Learners already invoiced are skipped, so the operation can be re-run safely.
// A grade without a fee structure only skips its learners; an empty catalog
// for the whole period aborts the batch.
func (s *invoiceService) GenerateInvoices(ctx context.Context, req dto.GenerateInvoicesRequest, actorID string) (*domain.GenerationResult, error) {
	period := req.Period()
	logger := s.GetLogger(ctx).With(slog.String("period", period.String()))

	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	// Discounts are read per batch so that settings changes apply to the next run.
	discounts, err := s.discountRepo.ListDiscountSettings(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load discount settings")
		return nil, fmt.Errorf("failed to load discount settings: %w", err)
	}

	catalog := newFeeStructureCache(s.feeRepo, period)
	var learners []domain.LearnerSummary
	if req.GradeID != nil && *req.GradeID != "" {
		logger = logger.With(slog.String("grade_id", *req.GradeID))
		learners, err = s.learners.ListActiveLearners(ctx, req.GradeID)
		if err != nil {
			return nil, fmt.Errorf("failed to list learners: %w", err)
		}
	} else {
		structures, err := s.feeRepo.ListFeeStructuresByPeriod(ctx, period)
		if err != nil {
			return nil, fmt.Errorf("failed to list fee structures: %w", err)
		}
		if len(structures) == 0 {
			logger.Warn("No fee structures configured for period")
			return nil, fmt.Errorf("%w for %s", apperrors.ErrFeeStructureNotFound, period)
		}
		catalog.prime(structures)

		all, err := s.learners.ListActiveLearners(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list learners: %w", err)
		}
		for _, l := range all {
			if _, ok := catalog.byGrade[l.GradeID]; ok {
				learners = append(learners, l)
			}
		}
	}

	invoiced, err := s.invoiceRepo.ListInvoicedLearnerIDs(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing invoices: %w", err)
	}

	result := &domain.GenerationResult{Errors: []apperrors.BatchError{}}
	now := s.Now()
	batch := make([]domain.Invoice, 0, len(learners))
	for _, learner := range learners {
		if invoiced[learner.LearnerID] {
			result.Skipped++
			continue
		}
		fs, err := catalog.get(ctx, learner.GradeID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				result.Skipped++
				result.Errors = append(result.Errors, apperrors.BatchError{
					LearnerID: learner.LearnerID,
					Reason:    fmt.Sprintf("fee structure missing for grade %s", learner.GradeID),
				})
				continue
			}
			return nil, fmt.Errorf("failed to load fee structure for grade %s: %w", learner.GradeID, err)
		}
		batch = append(batch, domain.NewInvoice(learner, *fs, discounts, now, s.dueDays, actorID))
	}

	if len(batch) > 0 {
		created, skipped, err := s.invoiceRepo.CreateInvoices(ctx, period, batch)
		if err != nil {
			s.LogError(ctx, err, "Failed to persist invoice batch", slog.String("period", period.String()), slog.Int("batch_size", len(batch)))
			return nil, fmt.Errorf("failed to persist invoices: %w", err)
		}
		result.Created = len(created)
		result.Skipped += len(skipped)
	}

	logger.Info("Invoices generated",
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)))
	s.Track(actorID, "invoices_generated", map[string]any{
		"academic_year": period.AcademicYear,
		"term":          period.Term,
		"created":       result.Created,
		"skipped":       result.Skipped,
	})
	return result, nil
}

// GetInvoice retrieves an invoice with its status derived for now.
func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice %s: %w", invoiceID, err)
	}
	inv.RefreshStatus(s.Now())
	return inv, nil
}

// ListInvoices retrieves a filtered page of invoices.
func (s *invoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	now := s.Now()
	filter := params.Filter()
	filter.AsOf = now

	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	invoices, next, err := s.invoiceRepo.ListInvoices(ctx, filter, limit, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	for i := range invoices {
		invoices[i].RefreshStatus(now)
	}
	return &dto.ListInvoicesResponse{Invoices: dto.ToInvoiceResponses(invoices), NextToken: next}, nil
}
