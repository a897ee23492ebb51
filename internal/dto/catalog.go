package dto

import (
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FeeLineItemRequest is one charge of a fee structure.
type FeeLineItemRequest struct {
	Name   string          `json:"name" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateFeeStructureRequest defines a grade's fees for a period.
// TotalAmount is optional; when given it must equal the line item sum.
type CreateFeeStructureRequest struct {
	AcademicYear string               `json:"academicYear" binding:"required"`
	Term         string               `json:"term" binding:"required"`
	GradeID      string               `json:"gradeId" binding:"required"`
	LineItems    []FeeLineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
	TotalAmount  *decimal.Decimal     `json:"totalAmount"`
	DueDate      *time.Time           `json:"dueDate"`
}

// ListFeeStructuresParams selects the period to list.
type ListFeeStructuresParams struct {
	AcademicYear string `form:"academicYear" binding:"required"`
	Term         string `form:"term" binding:"required"`
}

// UpdateDiscountSettingRequest sets one discount type.
type UpdateDiscountSettingRequest struct {
	DiscountType domain.DiscountType `json:"discountType" binding:"required,oneof=staff_parent sibling early_payment bursary"`
	Percentage   decimal.Decimal     `json:"percentage"`
	IsEnabled    bool                `json:"isEnabled"`
}
