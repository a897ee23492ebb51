package pgsql

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_fees_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_fees_ledger/internal/models"
	"github.com/SscSPs/school_fees_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const feeStructureColumns = `
	fee_structure_id, academic_year, term, grade_id, line_items, total_amount, due_date,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCatalogRepository struct {
	BaseRepository
}

func newPgxCatalogRepository(pool *pgxpool.Pool) *PgxCatalogRepository {
	return &PgxCatalogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.FeeStructureRepositoryFacade = (*PgxCatalogRepository)(nil)
	_ portsrepo.DiscountRepository           = (*PgxCatalogRepository)(nil)
)

func scanFeeStructure(row pgx.Row) (models.FeeStructure, error) {
	var m models.FeeStructure
	var lineItems []byte
	err := row.Scan(
		&m.FeeStructureID,
		&m.AcademicYear,
		&m.Term,
		&m.GradeID,
		&lineItems,
		&m.TotalAmount,
		&m.DueDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(lineItems, &m.LineItems); err != nil {
		return m, err
	}
	return m, nil
}

func (r *PgxCatalogRepository) GetFeeStructure(ctx context.Context, period domain.Period, gradeID string) (*domain.FeeStructure, error) {
	query := `SELECT ` + feeStructureColumns + ` FROM fee_structures WHERE academic_year = $1 AND term = $2 AND grade_id = $3;`
	m, err := scanFeeStructure(r.Pool.QueryRow(ctx, query, period.AcademicYear, period.Term, gradeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find fee structure for grade "+gradeID, err)
	}
	fs := mapping.ToDomainFeeStructure(m)
	return &fs, nil
}

func (r *PgxCatalogRepository) ListFeeStructuresByPeriod(ctx context.Context, period domain.Period) ([]domain.FeeStructure, error) {
	query := `SELECT ` + feeStructureColumns + ` FROM fee_structures WHERE academic_year = $1 AND term = $2 ORDER BY grade_id;`
	rows, err := r.Pool.Query(ctx, query, period.AcademicYear, period.Term)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list fee structures for "+period.String(), err)
	}
	defer rows.Close()

	structures := make([]domain.FeeStructure, 0)
	for rows.Next() {
		m, err := scanFeeStructure(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fee structure row", err)
		}
		structures = append(structures, mapping.ToDomainFeeStructure(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fee structure rows", err)
	}
	return structures, nil
}

func (r *PgxCatalogRepository) SaveFeeStructure(ctx context.Context, fs domain.FeeStructure) error {
	m := mapping.ToModelFeeStructure(fs)
	lineItems, err := json.Marshal(m.LineItems)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode line items", err)
	}
	query := `INSERT INTO fee_structures (` + feeStructureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err = r.Pool.Exec(ctx, query,
		m.FeeStructureID,
		m.AcademicYear,
		m.Term,
		m.GradeID,
		lineItems,
		m.TotalAmount,
		m.DueDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to save fee structure "+m.FeeStructureID, err)
	}
	return nil
}

func (r *PgxCatalogRepository) ListDiscountSettings(ctx context.Context) ([]domain.DiscountSetting, error) {
	query := `
		SELECT discount_type, percentage, is_enabled, created_at, created_by, last_updated_at, last_updated_by
		FROM discount_settings
		ORDER BY discount_type;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list discount settings", err)
	}
	defer rows.Close()

	settings := make([]domain.DiscountSetting, 0, len(domain.AllDiscountTypes))
	for rows.Next() {
		var m models.DiscountSetting
		if err := rows.Scan(&m.DiscountType, &m.Percentage, &m.IsEnabled, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan discount setting row", err)
		}
		settings = append(settings, mapping.ToDomainDiscountSetting(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating discount setting rows", err)
	}
	return settings, nil
}

func (r *PgxCatalogRepository) SaveDiscountSetting(ctx context.Context, setting domain.DiscountSetting) error {
	m := mapping.ToModelDiscountSetting(setting)
	query := `
		INSERT INTO discount_settings (discount_type, percentage, is_enabled, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (discount_type) DO UPDATE
		SET percentage = EXCLUDED.percentage,
		    is_enabled = EXCLUDED.is_enabled,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	if _, err := r.Pool.Exec(ctx, query, m.DiscountType, m.Percentage, m.IsEnabled, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
		return apperrors.NewAppError(500, "failed to save discount setting "+m.DiscountType, err)
	}
	return nil
}
