package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInvoices(t *testing.T, s *Store, period domain.Period, n int) {
	t.Helper()
	batch := make([]domain.Invoice, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, domain.Invoice{
			InvoiceID:   fmt.Sprintf("inv-%d", i),
			LearnerID:   fmt.Sprintf("l-%d", i),
			Period:      period,
			TotalAmount: decimal.NewFromInt(1000),
			BalanceDue:  decimal.NewFromInt(1000),
			IssueDate:   time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
			DueDate:     time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC),
		})
	}
	created, skipped, err := s.CreateInvoices(context.Background(), period, batch)
	require.NoError(t, err)
	require.Len(t, created, n)
	require.Empty(t, skipped)
}

func TestListInvoicesPaginates(t *testing.T) {
	s := New()
	period := domain.Period{AcademicYear: "2024-2025", Term: "term_1"}
	seedInvoices(t, s, period, 5)

	var seen []string
	var token *string
	for page := 0; page < 5; page++ {
		invoices, next, err := s.ListInvoices(context.Background(), domain.InvoiceFilter{}, 2, token)
		require.NoError(t, err)
		for _, inv := range invoices {
			seen = append(seen, inv.InvoiceNumber)
		}
		if next == nil {
			break
		}
		token = next
	}

	assert.Equal(t, []string{
		"INV-2024-2025-TERM_1-000005",
		"INV-2024-2025-TERM_1-000004",
		"INV-2024-2025-TERM_1-000003",
		"INV-2024-2025-TERM_1-000002",
		"INV-2024-2025-TERM_1-000001",
	}, seen)
}

func TestListInvoicesRejectsBadToken(t *testing.T) {
	bad := "%%%"
	_, _, err := New().ListInvoices(context.Background(), domain.InvoiceFilter{}, 10, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateInvoicesSkipsExistingLearnerPeriod(t *testing.T) {
	s := New()
	period := domain.Period{AcademicYear: "2024-2025", Term: "term_1"}
	seedInvoices(t, s, period, 2)

	created, skipped, err := s.CreateInvoices(context.Background(), period, []domain.Invoice{
		{InvoiceID: "again", LearnerID: "l-1", Period: period},
		{InvoiceID: "new", LearnerID: "l-9", Period: period},
	})

	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Len(t, skipped, 1)
	assert.Equal(t, "INV-2024-2025-TERM_1-000003", created[0].InvoiceNumber, "numbers are only drawn for inserted rows")
}

func TestUpdateInvoiceLockedDiscardsFailedMutation(t *testing.T) {
	s := New()
	period := domain.Period{AcademicYear: "2024-2025", Term: "term_1"}
	seedInvoices(t, s, period, 1)

	_, _, err := s.UpdateInvoiceLocked(context.Background(), "inv-0", func(inv *domain.Invoice) (*domain.Transaction, error) {
		inv.AmountPaid = decimal.NewFromInt(999)
		return nil, apperrors.ErrValidation
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	inv, err := s.FindInvoiceByID(context.Background(), "inv-0")
	require.NoError(t, err)
	assert.True(t, inv.AmountPaid.IsZero())
}

func TestFindCurrentPeriodFallsBackToFlag(t *testing.T) {
	s := New()
	s.PutAcademicPeriod(domain.AcademicPeriod{
		Period:    domain.Period{AcademicYear: "2024-2025", Term: "term_3"},
		StartDate: time.Date(2025, 4, 28, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		IsCurrent: true,
	})

	p, err := s.FindCurrentPeriod(context.Background(), time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "term_3", p.Term)

	_, err = New().FindCurrentPeriod(context.Background(), time.Now())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
