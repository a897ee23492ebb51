package pgsql

import (
	"errors"
	"testing"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	id  string
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.id
	return nil
}

// fakeBatchResults replays one row per queued statement.
type fakeBatchResults struct {
	rows []fakeRow
	next int
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, nil }
func (b *fakeBatchResults) Query() (pgx.Rows, error) { return nil, errors.New("not used") }
func (b *fakeBatchResults) Close() error { return nil }

func (b *fakeBatchResults) QueryRow() pgx.Row {
	row := b.rows[b.next]
	b.next++
	return row
}

func TestCollectInsertedInvoices_ConflictIsSkip(t *testing.T) {
	queued := []domain.Invoice{{InvoiceID: "a", LearnerID: "l-1"}, {InvoiceID: "b", LearnerID: "l-2"}, {InvoiceID: "c", LearnerID: "l-3"}}
	br := &fakeBatchResults{rows: []fakeRow{{id: "a"}, {err: pgx.ErrNoRows}, {id: "c"}}}

	created, skipped, err := collectInsertedInvoices(br, queued)

	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "a", created[0].InvoiceID)
	assert.Equal(t, "c", created[1].InvoiceID)
	require.Len(t, skipped, 1)
	assert.Equal(t, "l-2", skipped[0].LearnerID)
}

func TestCollectInsertedInvoices_InsertFailureAborts(t *testing.T) {
	queued := []domain.Invoice{{InvoiceID: "a"}, {InvoiceID: "b"}}
	boom := &pgconn.PgError{Code: "23503"}
	br := &fakeBatchResults{rows: []fakeRow{{id: "a"}, {err: boom}}}

	created, skipped, err := collectInsertedInvoices(br, queued)

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, created)
	assert.Nil(t, skipped)
}
