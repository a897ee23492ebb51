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

type PgxReminderRepository struct {
	BaseRepository
}

func newPgxReminderRepository(pool *pgxpool.Pool) portsrepo.ReminderSettingsRepository {
	return &PgxReminderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReminderSettingsRepository = (*PgxReminderRepository)(nil)

func (r *PgxReminderRepository) GetReminderSettings(ctx context.Context) (*domain.ReminderAutomationSettings, error) {
	query := `
		SELECT is_enabled, interval_days, scope, grade_id, include_current_term, include_previous_balance,
		       last_run_at, next_run_at, created_at, created_by, last_updated_at, last_updated_by
		FROM reminder_automation_settings
		WHERE id = 1;
	`
	var m models.ReminderSettings
	err := r.Pool.QueryRow(ctx, query).Scan(
		&m.IsEnabled,
		&m.IntervalDays,
		&m.Scope,
		&m.GradeID,
		&m.IncludeCurrentTerm,
		&m.IncludePreviousBalance,
		&m.LastRunAt,
		&m.NextRunAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to load reminder settings", err)
	}
	settings := mapping.ToDomainReminderSettings(m)
	return &settings, nil
}

func (r *PgxReminderRepository) SaveReminderSettings(ctx context.Context, settings domain.ReminderAutomationSettings) error {
	m := mapping.ToModelReminderSettings(settings)
	query := `
		INSERT INTO reminder_automation_settings (
			id, is_enabled, interval_days, scope, grade_id, include_current_term, include_previous_balance,
			last_run_at, next_run_at, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE
		SET is_enabled = EXCLUDED.is_enabled,
		    interval_days = EXCLUDED.interval_days,
		    scope = EXCLUDED.scope,
		    grade_id = EXCLUDED.grade_id,
		    include_current_term = EXCLUDED.include_current_term,
		    include_previous_balance = EXCLUDED.include_previous_balance,
		    last_run_at = EXCLUDED.last_run_at,
		    next_run_at = EXCLUDED.next_run_at,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.IsEnabled,
		m.IntervalDays,
		m.Scope,
		m.GradeID,
		m.IncludeCurrentTerm,
		m.IncludePreviousBalance,
		m.LastRunAt,
		m.NextRunAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save reminder settings", err)
	}
	return nil
}

func (r *PgxReminderRepository) SaveReminderRun(ctx context.Context, run domain.ReminderRun) error {
	m := mapping.ToModelReminderRun(run)
	errs, err := json.Marshal(m.Errors)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode reminder run errors", err)
	}
	query := `
		INSERT INTO reminder_runs (run_id, started_at, finished_at, forced, sent, skipped, failed, errors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	if _, err := r.Pool.Exec(ctx, query, m.RunID, m.StartedAt, m.FinishedAt, m.Forced, m.Sent, m.Skipped, m.Failed, errs); err != nil {
		return apperrors.NewAppError(500, "failed to save reminder run "+m.RunID, err)
	}
	return nil
}

func (r *PgxReminderRepository) ListReminderRuns(ctx context.Context, limit int) ([]domain.ReminderRun, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT run_id, started_at, finished_at, forced, sent, skipped, failed, errors
		FROM reminder_runs
		ORDER BY started_at DESC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list reminder runs", err)
	}
	defer rows.Close()

	runs := make([]domain.ReminderRun, 0, limit)
	for rows.Next() {
		var m models.ReminderRun
		var errs []byte
		if err := rows.Scan(&m.RunID, &m.StartedAt, &m.FinishedAt, &m.Forced, &m.Sent, &m.Skipped, &m.Failed, &errs); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan reminder run row", err)
		}
		if err := json.Unmarshal(errs, &m.Errors); err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode reminder run errors", err)
		}
		runs = append(runs, mapping.ToDomainReminderRun(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reminder run rows", err)
	}
	return runs, nil
}
