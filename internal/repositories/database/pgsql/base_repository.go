package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// lockSequence takes the row lock of a number sequence scope, creating the row
// on first use, and returns the last value handed out. The lock is held until
// tx ends, so numbers drawn under it stay gapless across concurrent writers.
func (r *BaseRepository) lockSequence(ctx context.Context, tx pgx.Tx, scope string) (int64, error) {
	query := `
		INSERT INTO number_sequences (scope, last_value) VALUES ($1, 0)
		ON CONFLICT (scope) DO UPDATE SET last_value = number_sequences.last_value
		RETURNING last_value;
	`
	var last int64
	if err := tx.QueryRow(ctx, query, scope).Scan(&last); err != nil {
		return 0, apperrors.NewAppError(500, "failed to lock sequence "+scope, err)
	}
	return last, nil
}

// storeSequence records the last value handed out for a locked scope.
func (r *BaseRepository) storeSequence(ctx context.Context, tx pgx.Tx, scope string, last int64) error {
	if _, err := tx.Exec(ctx, `UPDATE number_sequences SET last_value = $2 WHERE scope = $1;`, scope, last); err != nil {
		return apperrors.NewAppError(500, "failed to advance sequence "+scope, err)
	}
	return nil
}

// nextSequence draws a single value from a scope.
func (r *BaseRepository) nextSequence(ctx context.Context, tx pgx.Tx, scope string) (int64, error) {
	query := `
		INSERT INTO number_sequences (scope, last_value) VALUES ($1, 1)
		ON CONFLICT (scope) DO UPDATE SET last_value = number_sequences.last_value + 1
		RETURNING last_value;
	`
	var next int64
	if err := tx.QueryRow(ctx, query, scope).Scan(&next); err != nil {
		return 0, apperrors.NewAppError(500, "failed to draw from sequence "+scope, err)
	}
	return next, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
