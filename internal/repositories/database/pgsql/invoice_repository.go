package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_fees_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_fees_ledger/internal/models"
	"github.com/SscSPs/school_fees_ledger/internal/utils/mapping"
	"github.com/SscSPs/school_fees_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const invoiceColumns = `
	invoice_id, invoice_number, learner_id, grade_id, academic_year, term, fee_structure_id,
	total_amount, discount_amount, applied_discounts, amount_paid, balance_due, status,
	issue_date, due_date, cancel_reason, cancelled_at,
	created_at, created_by, last_updated_at, last_updated_by`

// derivedStatusSQL mirrors domain.DeriveStatus. $1 is the evaluation time.
const derivedStatusSQL = `CASE
		WHEN status = 'cancelled' THEN 'cancelled'
		WHEN balance_due <= 0 THEN 'paid'
		WHEN due_date < $1 THEN 'overdue'
		WHEN amount_paid > 0 THEN 'partial'
		ELSE 'generated'
	END`

type PgxInvoiceRepository struct {
	BaseRepository
	txnRepo *PgxTransactionRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool, txnRepo *PgxTransactionRepository) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
		txnRepo:        txnRepo,
	}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.InvoiceNumber,
		&m.LearnerID,
		&m.GradeID,
		&m.AcademicYear,
		&m.Term,
		&m.FeeStructureID,
		&m.TotalAmount,
		&m.DiscountAmount,
		&m.AppliedDiscounts,
		&m.AmountPaid,
		&m.BalanceDue,
		&m.Status,
		&m.IssueDate,
		&m.DueDate,
		&m.CancelReason,
		&m.CancelledAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice "+invoiceID, err)
	}
	inv := mapping.ToDomainInvoice(m)
	return &inv, nil
}

func (r *PgxInvoiceRepository) ListInvoicesByLearnerIDs(ctx context.Context, learnerIDs []string) (map[string][]domain.Invoice, error) {
	result := make(map[string][]domain.Invoice, len(learnerIDs))
	if len(learnerIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE learner_id = ANY($1) ORDER BY issue_date, invoice_number;`
	rows, err := r.Pool.Query(ctx, query, learnerIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoices by learner", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice row", err)
		}
		result[m.LearnerID] = append(result[m.LearnerID], mapping.ToDomainInvoice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}
	return result, nil
}

func (r *PgxInvoiceRepository) ListInvoicedLearnerIDs(ctx context.Context, period domain.Period) (map[string]bool, error) {
	rows, err := r.Pool.Query(ctx, `SELECT learner_id FROM invoices WHERE academic_year = $1 AND term = $2;`, period.AcademicYear, period.Term)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoiced learners", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var learnerID string
		if err := rows.Scan(&learnerID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan learner id", err)
		}
		result[learnerID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoiced learners", err)
	}
	return result, nil
}

// ListInvoices retrieves a page of invoices using keyset pagination on (issue_date, invoice_number).
// The status filter is compared against the status derived at filter.AsOf.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter domain.InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	args := []interface{}{filter.AsOf}
	var conditions []string
	addCondition := func(column string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, column+" = $"+strconv.Itoa(len(args)))
	}
	if filter.LearnerID != "" {
		addCondition("learner_id", filter.LearnerID)
	}
	if filter.GradeID != "" {
		addCondition("grade_id", filter.GradeID)
	}
	if filter.AcademicYear != "" {
		addCondition("academic_year", filter.AcademicYear)
	}
	if filter.Term != "" {
		addCondition("term", filter.Term)
	}
	if filter.Status != "" {
		addCondition(derivedStatusSQL, string(filter.Status))
	}

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.Date, cursor.Key)
		conditions = append(conditions, "(issue_date, invoice_number) < ($"+strconv.Itoa(len(args)-1)+", $"+strconv.Itoa(len(args))+")")
	}

	// $1 is always bound so the derived status expression can reference it.
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE $1::timestamptz IS NOT NULL`
	for _, c := range conditions {
		query += " AND " + c
	}
	args = append(args, fetchLimit)
	query += " ORDER BY issue_date DESC, invoice_number DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list invoices", err)
	}
	defer rows.Close()

	modelInvoices := make([]models.Invoice, 0, fetchLimit)
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan invoice row", err)
		}
		modelInvoices = append(modelInvoices, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}

	var nextTokenVal *string
	if len(modelInvoices) > limit {
		last := modelInvoices[limit-1]
		token := pagination.EncodeCursor(pagination.Cursor{Date: last.IssueDate, Key: last.InvoiceNumber})
		nextTokenVal = &token
		modelInvoices = modelInvoices[:limit]
	}
	return mapping.ToDomainInvoiceSlice(modelInvoices), nextTokenVal, nil
}

// CreateInvoices inserts a generation batch in one transaction. The period
// sequence row is locked first, which serialises concurrent generators of the
// same period, so the existence check and the numbering cannot race.
func (r *PgxInvoiceRepository) CreateInvoices(ctx context.Context, period domain.Period, invoices []domain.Invoice) ([]domain.Invoice, []domain.Invoice, error) {
	for _, inv := range invoices {
		if inv.Period != period {
			return nil, nil, fmt.Errorf("%w: invoice for %s in batch for %s", apperrors.ErrValidation, inv.Period, period)
		}
	}
	if len(invoices) == 0 {
		return nil, nil, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	scope := domain.InvoiceSequenceScope(period)
	last, err := r.lockSequence(ctx, tx, scope)
	if err != nil {
		return nil, nil, err
	}

	learnerIDs := make([]string, len(invoices))
	for i, inv := range invoices {
		learnerIDs[i] = inv.LearnerID
	}
	existing := make(map[string]bool)
	rows, err := tx.Query(ctx, `SELECT learner_id FROM invoices WHERE academic_year = $1 AND term = $2 AND learner_id = ANY($3);`,
		period.AcademicYear, period.Term, learnerIDs)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to check existing invoices", err)
	}
	for rows.Next() {
		var learnerID string
		if err := rows.Scan(&learnerID); err != nil {
			rows.Close()
			return nil, nil, apperrors.NewAppError(500, "failed to scan learner id", err)
		}
		existing[learnerID] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating existing invoices", err)
	}

	insertQuery := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (learner_id, academic_year, term) DO NOTHING
		RETURNING invoice_id;`
	batch := &pgx.Batch{}
	var queued, skipped []domain.Invoice
	for _, inv := range invoices {
		if existing[inv.LearnerID] {
			skipped = append(skipped, inv)
			continue
		}
		existing[inv.LearnerID] = true
		last++
		inv.InvoiceNumber = domain.FormatInvoiceNumber(period, last)
		m := mapping.ToModelInvoice(inv)
		batch.Queue(insertQuery,
			m.InvoiceID, m.InvoiceNumber, m.LearnerID, m.GradeID, m.AcademicYear, m.Term, m.FeeStructureID,
			m.TotalAmount, m.DiscountAmount, m.AppliedDiscounts, m.AmountPaid, m.BalanceDue, m.Status,
			m.IssueDate, m.DueDate, m.CancelReason, m.CancelledAt,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		queued = append(queued, inv)
	}

	var created []domain.Invoice
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		inserted, conflicted, err := collectInsertedInvoices(br, queued)
		if cerr := br.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to insert invoice batch for "+period.String(), err)
		}
		created = inserted
		skipped = append(skipped, conflicted...)
		if err := r.storeSequence(ctx, tx, scope, last); err != nil {
			return nil, nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return created, skipped, nil
}

// collectInsertedInvoices reads one RETURNING row per queued insert. An insert
// that returned nothing hit the (learner, period) unique key and is a skip.
func collectInsertedInvoices(br pgx.BatchResults, queued []domain.Invoice) ([]domain.Invoice, []domain.Invoice, error) {
	var created, skipped []domain.Invoice
	for _, inv := range queued {
		var invoiceID string
		err := br.QueryRow().Scan(&invoiceID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			skipped = append(skipped, inv)
		case err != nil:
			return nil, nil, err
		default:
			created = append(created, inv)
		}
	}
	return created, skipped, nil
}

// UpdateInvoiceLocked applies mutate to the invoice under SELECT ... FOR UPDATE.
func (r *PgxInvoiceRepository) UpdateInvoiceLocked(ctx context.Context, invoiceID string, mutate portsrepo.InvoiceMutation) (*domain.Invoice, *domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`
	m, err := scanInvoice(tx.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, apperrors.NewAppError(500, "failed to lock invoice "+invoiceID, err)
	}
	inv := mapping.ToDomainInvoice(m)

	txn, err := mutate(&inv)
	if err != nil {
		return nil, nil, err
	}

	updated := mapping.ToModelInvoice(inv)
	updateQuery := `
		UPDATE invoices
		SET amount_paid = $2, balance_due = $3, status = $4, cancel_reason = $5, cancelled_at = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE invoice_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery,
		updated.InvoiceID,
		updated.AmountPaid,
		updated.BalanceDue,
		updated.Status,
		updated.CancelReason,
		updated.CancelledAt,
		updated.LastUpdatedAt,
		updated.LastUpdatedBy,
	); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to update invoice "+invoiceID, err)
	}

	if txn != nil {
		saved, err := r.txnRepo.insertTransaction(ctx, tx, *txn)
		if err != nil {
			return nil, nil, err
		}
		txn = saved
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return &inv, txn, nil
}
