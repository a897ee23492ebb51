package pgsql

import (
	"context"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_fees_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_fees_ledger/internal/models"
	"github.com/SscSPs/school_fees_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// insertTransaction numbers and inserts a transaction inside an open tx.
func (r *PgxTransactionRepository) insertTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) (*domain.Transaction, error) {
	year := txn.PaymentDate.Year()
	seq, err := r.nextSequence(ctx, tx, domain.TransactionSequenceScope(year))
	if err != nil {
		return nil, err
	}
	txn.TransactionNumber = domain.FormatTransactionNumber(year, seq)

	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (
			transaction_id, transaction_number, learner_id, invoice_id, academic_year, term,
			amount_paid, payment_method, payment_date, reference_number, receipt_number,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, query,
		m.TransactionID,
		m.TransactionNumber,
		m.LearnerID,
		m.InvoiceID,
		m.AcademicYear,
		m.Term,
		m.AmountPaid,
		m.PaymentMethod,
		m.PaymentDate,
		m.ReferenceNumber,
		m.ReceiptNumber,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}
	return &txn, nil
}

// SaveTransaction persists an ad-hoc payment.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	saved, err := r.insertTransaction(ctx, tx, txn)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}

// ListTransactionsByLearnerIDs reads ledger transactions and legacy fee_payments
// rows together. Legacy rows have no invoice and no transaction number of their own,
// so their receipt number (or payment id) stands in.
func (r *PgxTransactionRepository) ListTransactionsByLearnerIDs(ctx context.Context, learnerIDs []string) (map[string][]domain.Transaction, error) {
	result := make(map[string][]domain.Transaction, len(learnerIDs))
	if len(learnerIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT transaction_id, transaction_number, learner_id, invoice_id, academic_year, term,
		       amount_paid, payment_method, payment_date, reference_number, receipt_number, FALSE AS is_legacy,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
		WHERE learner_id = ANY($1)
		UNION ALL
		SELECT payment_id, COALESCE(receipt_number, payment_id), learner_id, NULL, academic_year, term,
		       amount, payment_method, payment_date, NULL, receipt_number, TRUE,
		       payment_date, recorded_by, payment_date, recorded_by
		FROM fee_payments
		WHERE learner_id = ANY($1)
		ORDER BY payment_date, transaction_number;
	`
	rows, err := r.Pool.Query(ctx, query, learnerIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions by learner", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(
			&m.TransactionID,
			&m.TransactionNumber,
			&m.LearnerID,
			&m.InvoiceID,
			&m.AcademicYear,
			&m.Term,
			&m.AmountPaid,
			&m.PaymentMethod,
			&m.PaymentDate,
			&m.ReferenceNumber,
			&m.ReceiptNumber,
			&m.IsLegacy,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		result[m.LearnerID] = append(result[m.LearnerID], mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}
	return result, nil
}
