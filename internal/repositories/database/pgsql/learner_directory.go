package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_fees_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_fees_ledger/internal/models"
	"github.com/SscSPs/school_fees_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// learnerSelect projects the learner registry onto the ledger view. A sibling
// is another active learner of the same family.
const learnerSelect = `
	SELECT l.learner_id, l.admission_number, l.full_name, l.grade_id, l.is_staff_child, l.bursary_flag,
	       (l.family_id IS NOT NULL AND EXISTS (
	           SELECT 1 FROM learners s
	           WHERE s.family_id = l.family_id AND s.learner_id <> l.learner_id AND s.is_active
	       )) AS has_active_sibling,
	       l.guardian_name, l.guardian_phone, l.guardian_email
	FROM learners l`

// PgxLearnerDirectory reads the learners and academic_periods tables owned by the registry.
type PgxLearnerDirectory struct {
	BaseRepository
}

func newPgxLearnerDirectory(pool *pgxpool.Pool) *PgxLearnerDirectory {
	return &PgxLearnerDirectory{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.LearnerDirectory = (*PgxLearnerDirectory)(nil)
	_ portsrepo.AcademicCalendar = (*PgxLearnerDirectory)(nil)
)

func scanLearner(row pgx.Row) (models.Learner, error) {
	var m models.Learner
	err := row.Scan(
		&m.LearnerID,
		&m.AdmissionNumber,
		&m.FullName,
		&m.GradeID,
		&m.IsStaffChild,
		&m.BursaryFlag,
		&m.HasActiveSibling,
		&m.GuardianName,
		&m.GuardianPhone,
		&m.GuardianEmail,
	)
	return m, err
}

func (r *PgxLearnerDirectory) ListActiveLearners(ctx context.Context, gradeID *string) ([]domain.LearnerSummary, error) {
	query := learnerSelect + ` WHERE l.is_active`
	var args []interface{}
	if gradeID != nil {
		query += ` AND l.grade_id = $1`
		args = append(args, *gradeID)
	}
	query += ` ORDER BY l.admission_number;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list active learners", err)
	}
	defer rows.Close()

	learners := make([]domain.LearnerSummary, 0)
	for rows.Next() {
		m, err := scanLearner(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan learner row", err)
		}
		learners = append(learners, mapping.ToDomainLearnerSummary(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating learner rows", err)
	}
	return learners, nil
}

func (r *PgxLearnerDirectory) FindLearnerByID(ctx context.Context, learnerID string) (*domain.LearnerSummary, error) {
	m, err := scanLearner(r.Pool.QueryRow(ctx, learnerSelect+` WHERE l.learner_id = $1;`, learnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find learner "+learnerID, err)
	}
	learner := mapping.ToDomainLearnerSummary(m)
	return &learner, nil
}

// FindCurrentPeriod prefers the period whose bounds contain at, then the one flagged current.
func (r *PgxLearnerDirectory) FindCurrentPeriod(ctx context.Context, at time.Time) (*domain.AcademicPeriod, error) {
	query := `
		SELECT academic_year, term, start_date, end_date, is_current
		FROM academic_periods
		WHERE (start_date <= $1 AND end_date > $1) OR is_current
		ORDER BY (start_date <= $1 AND end_date > $1) DESC, start_date DESC
		LIMIT 1;
	`
	var m models.AcademicPeriod
	err := r.Pool.QueryRow(ctx, query, at).Scan(&m.AcademicYear, &m.Term, &m.StartDate, &m.EndDate, &m.IsCurrent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to resolve current academic period", err)
	}
	period := mapping.ToDomainAcademicPeriod(m)
	return &period, nil
}
