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
	"github.com/google/uuid"
)

type catalogService struct {
	BaseService
	feeRepo      portsrepo.FeeStructureRepositoryFacade
	discountRepo portsrepo.DiscountRepository
}

// NewCatalogService manages fee structures and discount settings.
func NewCatalogService(feeRepo portsrepo.FeeStructureRepositoryFacade, discountRepo portsrepo.DiscountRepository, options ...ServiceOption) portssvc.CatalogSvcFacade {
	return &catalogService{
		BaseService:  newBaseService(options...),
		feeRepo:      feeRepo,
		discountRepo: discountRepo,
	}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) CreateFeeStructure(ctx context.Context, req dto.CreateFeeStructureRequest, actorID string) (*domain.FeeStructure, error) {
	now := s.Now()
	fs := domain.FeeStructure{
		FeeStructureID: uuid.NewString(),
		Period:         domain.Period{AcademicYear: req.AcademicYear, Term: req.Term},
		GradeID:        req.GradeID,
		LineItems:      make([]domain.FeeLineItem, 0, len(req.LineItems)),
		DueDate:        req.DueDate,
		AuditFields:    domain.NewAuditFields(actorID, now),
	}
	for _, item := range req.LineItems {
		fs.LineItems = append(fs.LineItems, domain.FeeLineItem{Name: item.Name, Amount: item.Amount})
	}
	fs.TotalAmount = domain.SumLineItems(fs.LineItems)
	if req.TotalAmount != nil {
		fs.TotalAmount = *req.TotalAmount
	}

	if err := fs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := s.feeRepo.SaveFeeStructure(ctx, fs); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: grade %s already has a fee structure for %s", apperrors.ErrConflict, fs.GradeID, fs.Period)
		}
		s.LogError(ctx, err, "Failed to save fee structure", slog.String("grade_id", fs.GradeID))
		return nil, fmt.Errorf("failed to save fee structure: %w", err)
	}

	s.LogInfo(ctx, "Fee structure created successfully",
		slog.String("fee_structure_id", fs.FeeStructureID),
		slog.String("grade_id", fs.GradeID),
		slog.String("period", fs.Period.String()),
		slog.String("total", fs.TotalAmount.String()))
	return &fs, nil
}

func (s *catalogService) ListFeeStructures(ctx context.Context, period domain.Period) ([]domain.FeeStructure, error) {
	structures, err := s.feeRepo.ListFeeStructuresByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee structures: %w", err)
	}
	if structures == nil {
		structures = []domain.FeeStructure{}
	}
	return structures, nil
}

// ListDiscountSettings returns one setting per known type; types never saved are reported disabled at zero.
func (s *catalogService) ListDiscountSettings(ctx context.Context) ([]domain.DiscountSetting, error) {
	stored, err := s.discountRepo.ListDiscountSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list discount settings: %w", err)
	}
	byType := make(map[domain.DiscountType]domain.DiscountSetting, len(stored))
	for _, setting := range stored {
		byType[setting.DiscountType] = setting
	}
	settings := make([]domain.DiscountSetting, 0, len(domain.AllDiscountTypes))
	for _, t := range domain.AllDiscountTypes {
		if setting, ok := byType[t]; ok {
			settings = append(settings, setting)
			continue
		}
		settings = append(settings, domain.DiscountSetting{DiscountType: t})
	}
	return settings, nil
}

func (s *catalogService) UpdateDiscountSetting(ctx context.Context, req dto.UpdateDiscountSettingRequest, actorID string) (*domain.DiscountSetting, error) {
	now := s.Now()
	setting := domain.DiscountSetting{
		DiscountType: req.DiscountType,
		Percentage:   req.Percentage,
		IsEnabled:    req.IsEnabled,
		AuditFields:  domain.NewAuditFields(actorID, now),
	}
	if err := setting.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := s.discountRepo.SaveDiscountSetting(ctx, setting); err != nil {
		s.LogError(ctx, err, "Failed to save discount setting", slog.String("discount_type", string(setting.DiscountType)))
		return nil, fmt.Errorf("failed to save discount setting: %w", err)
	}
	s.LogInfo(ctx, "Discount setting updated",
		slog.String("discount_type", string(setting.DiscountType)),
		slog.String("percentage", setting.Percentage.String()),
		slog.Bool("enabled", setting.IsEnabled))
	s.Track(actorID, "discount_setting_updated", map[string]any{
		"discount_type": string(setting.DiscountType),
		"enabled":       setting.IsEnabled,
	})
	return &setting, nil
}
