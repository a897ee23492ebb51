package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FeeLineItem is one named charge of a fee structure (tuition, transport, ...).
type FeeLineItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// FeeStructure is the catalog price of a grade for a period.
// It is immutable once referenced by an invoice.
type FeeStructure struct {
	FeeStructureID string          `json:"feeStructureId"`
	Period                         // AcademicYear + Term
	GradeID        string          `json:"gradeId"`
	LineItems      []FeeLineItem   `json:"lineItems"`
	TotalAmount    decimal.Decimal `json:"totalAmount"` // Sum of LineItems
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	AuditFields
}

// SumLineItems adds up the line items.
func SumLineItems(items []FeeLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// Validate checks the structure is internally consistent.
func (f FeeStructure) Validate() error {
	if err := f.Period.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(f.GradeID) == "" {
		return fmt.Errorf("grade is required")
	}
	if len(f.LineItems) == 0 {
		return fmt.Errorf("at least one line item is required")
	}
	for _, item := range f.LineItems {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("line item name is required")
		}
		if item.Amount.IsNegative() {
			return fmt.Errorf("line item %q has a negative amount", item.Name)
		}
	}
	if sum := SumLineItems(f.LineItems); !sum.Equal(f.TotalAmount) {
		return fmt.Errorf("total %s does not match line items sum %s", f.TotalAmount, sum)
	}
	return nil
}

// DueDateFor resolves the invoice due date: the structure's own date, or issue + defaultDueDays.
func (f FeeStructure) DueDateFor(issueDate time.Time, defaultDueDays int) time.Time {
	if f.DueDate != nil {
		return *f.DueDate
	}
	return issueDate.AddDate(0, 0, defaultDueDays)
}
