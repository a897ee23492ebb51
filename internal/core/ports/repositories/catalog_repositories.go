package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
)

// FeeStructureReader defines read operations for the fee structure catalog
type FeeStructureReader interface {
	// GetFeeStructure finds the structure of a grade for a period. Returns apperrors.ErrNotFound when none exists.
	GetFeeStructure(ctx context.Context, period domain.Period, gradeID string) (*domain.FeeStructure, error)

	// ListFeeStructuresByPeriod lists every grade's structure for a period.
	ListFeeStructuresByPeriod(ctx context.Context, period domain.Period) ([]domain.FeeStructure, error)
}

// FeeStructureWriter defines write operations for the fee structure catalog
type FeeStructureWriter interface {
	// SaveFeeStructure inserts a structure. Returns apperrors.ErrDuplicate if the grade already has one for the period.
	SaveFeeStructure(ctx context.Context, fs domain.FeeStructure) error
}

// FeeStructureRepositoryFacade combines the catalog interfaces
type FeeStructureRepositoryFacade interface {
	FeeStructureReader
	FeeStructureWriter
}

// DiscountRepository persists the discount rule set, one row per type.
type DiscountRepository interface {
	ListDiscountSettings(ctx context.Context) ([]domain.DiscountSetting, error)
	SaveDiscountSetting(ctx context.Context, setting domain.DiscountSetting) error
}

// LearnerDirectory is the read-only view of enrolment owned by the learner registry.
type LearnerDirectory interface {
	// ListActiveLearners returns active learners, optionally restricted to one grade.
	ListActiveLearners(ctx context.Context, gradeID *string) ([]domain.LearnerSummary, error)

	// FindLearnerByID returns apperrors.ErrNotFound for unknown learners.
	FindLearnerByID(ctx context.Context, learnerID string) (*domain.LearnerSummary, error)
}

// AcademicCalendar resolves academic periods.
type AcademicCalendar interface {
	// FindCurrentPeriod returns the period containing at, falling back to the one flagged current.
	FindCurrentPeriod(ctx context.Context, at time.Time) (*domain.AcademicPeriod, error)
}
