package domain_test

import (
	"testing"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestFoldLearnerBalance_NoInvoices(t *testing.T) {
	b := domain.FoldLearnerBalance("L1", nil, nil, term1)

	assert.Equal(t, "L1", b.LearnerID)
	assert.True(t, b.TotalAccumulatedFees.IsZero())
	assert.True(t, b.TotalPaid.IsZero())
	assert.True(t, b.TotalBalance.IsZero())
	assert.True(t, b.CurrentTermBalance.IsZero())
}

func TestFoldLearnerBalance_AccumulatesAcrossTermsAndGrades(t *testing.T) {
	lastYear := domain.Period{AcademicYear: "2023-2024", Term: "term_3"}
	invoiceID := "inv-current"

	invoices := []domain.Invoice{
		{Period: lastYear, GradeID: "grade-3", TotalAmount: dec(40000), DiscountAmount: dec(0), Status: domain.InvoicePartial},
		{Period: term1, GradeID: "grade-4", TotalAmount: dec(50000), DiscountAmount: dec(5000), Status: domain.InvoiceGenerated},
		{Period: term1, GradeID: "grade-4", TotalAmount: dec(50000), DiscountAmount: dec(0), Status: domain.InvoiceCancelled},
	}
	txns := []domain.Transaction{
		{Period: lastYear, Amount: dec(30000)},
		{Period: term1, InvoiceID: &invoiceID, Amount: dec(15000)},
		{Amount: dec(2000), IsLegacy: true},
	}

	b := domain.FoldLearnerBalance("L1", invoices, txns, term1)

	assert.Equal(t, "85000", b.TotalAccumulatedFees.String())
	assert.Equal(t, "47000", b.TotalPaid.String())
	assert.Equal(t, "38000", b.TotalBalance.String())
	assert.Equal(t, "45000", b.CurrentTermFees.String())
	assert.Equal(t, "15000", b.CurrentTermPaid.String())
	assert.Equal(t, "30000", b.CurrentTermBalance.String())
	assert.Equal(t, "8000", b.PreviousBalance().String())
}

func TestFoldLearnerBalance_CreditIsNegative(t *testing.T) {
	invoices := []domain.Invoice{{Period: term1, TotalAmount: dec(50000), DiscountAmount: dec(5000)}}
	txns := []domain.Transaction{{Period: term1, Amount: dec(95000)}}

	b := domain.FoldLearnerBalance("L1", invoices, txns, term1)
	assert.Equal(t, "-50000", b.TotalBalance.String())
}

func TestRelevantBalance(t *testing.T) {
	b := domain.LearnerBalance{CurrentTermBalance: dec(30000), TotalBalance: dec(38000)}

	assert.Equal(t, "38000", b.RelevantBalance(true, true).String())
	assert.Equal(t, "30000", b.RelevantBalance(true, false).String())
	assert.Equal(t, "8000", b.RelevantBalance(false, true).String())
	assert.True(t, b.RelevantBalance(false, false).IsZero())
}
