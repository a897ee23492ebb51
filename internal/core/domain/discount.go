package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountType names a discount rule.
type DiscountType string

const (
	DiscountStaffParent  DiscountType = "staff_parent"
	DiscountSibling      DiscountType = "sibling"
	DiscountEarlyPayment DiscountType = "early_payment"
	DiscountBursary      DiscountType = "bursary"
)

// AllDiscountTypes lists every known discount type in display order.
var AllDiscountTypes = []DiscountType{DiscountStaffParent, DiscountSibling, DiscountEarlyPayment, DiscountBursary}

// IsValid reports whether t is a known discount type.
func (t DiscountType) IsValid() bool {
	for _, known := range AllDiscountTypes {
		if t == known {
			return true
		}
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// DiscountSetting is the configured percentage for one discount type.
type DiscountSetting struct {
	DiscountType DiscountType    `json:"discountType"`
	Percentage   decimal.Decimal `json:"percentage"` // 0..100
	IsEnabled    bool            `json:"isEnabled"`
	AuditFields
}

// Validate checks the type and percentage range.
func (s DiscountSetting) Validate() error {
	if !s.DiscountType.IsValid() {
		return fmt.Errorf("unknown discount type %q", s.DiscountType)
	}
	if s.Percentage.IsNegative() || s.Percentage.GreaterThan(hundred) {
		return fmt.Errorf("percentage must be between 0 and 100")
	}
	return nil
}

// AppliesTo reports whether the discount's eligibility predicate holds for the learner.
// early_payment has no generation-time predicate.
func (s DiscountSetting) AppliesTo(l LearnerSummary) bool {
	if !s.IsEnabled {
		return false
	}
	switch s.DiscountType {
	case DiscountStaffParent:
		return l.IsStaffChild
	case DiscountSibling:
		return l.HasActiveSibling
	case DiscountBursary:
		return l.BursaryFlag
	default:
		return false
	}
}

// ComputeDiscount sums percentage*total/100 over every applicable setting,
// rounded to cents and capped at total. It returns the amount and the types that contributed.
func ComputeDiscount(total decimal.Decimal, learner LearnerSummary, settings []DiscountSetting) (decimal.Decimal, []DiscountType) {
	amount := decimal.Zero
	var applied []DiscountType
	for _, s := range settings {
		if !s.AppliesTo(learner) || s.Percentage.IsZero() {
			continue
		}
		amount = amount.Add(total.Mul(s.Percentage).Div(hundred))
		applied = append(applied, s.DiscountType)
	}
	amount = amount.Round(2)
	if amount.GreaterThan(total) {
		amount = total
	}
	return amount, applied
}
