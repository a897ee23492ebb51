package domain_test

import (
	"testing"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeDiscount(t *testing.T) {
	settings := []domain.DiscountSetting{
		{DiscountType: domain.DiscountStaffParent, Percentage: dec(10), IsEnabled: true},
		{DiscountType: domain.DiscountSibling, Percentage: dec(5), IsEnabled: true},
		{DiscountType: domain.DiscountBursary, Percentage: dec(100), IsEnabled: true},
		{DiscountType: domain.DiscountEarlyPayment, Percentage: dec(3), IsEnabled: true},
	}
	total := dec(50000)

	tests := []struct {
		name    string
		learner domain.LearnerSummary
		want    decimal.Decimal
		applied []domain.DiscountType
	}{
		{name: "no flags", learner: domain.LearnerSummary{}, want: dec(0)},
		{name: "staff child", learner: domain.LearnerSummary{IsStaffChild: true}, want: dec(5000), applied: []domain.DiscountType{domain.DiscountStaffParent}},
		{
			name:    "staff child with sibling is additive",
			learner: domain.LearnerSummary{IsStaffChild: true, HasActiveSibling: true},
			want:    dec(7500),
			applied: []domain.DiscountType{domain.DiscountStaffParent, domain.DiscountSibling},
		},
		{
			name:    "capped at total",
			learner: domain.LearnerSummary{IsStaffChild: true, BursaryFlag: true},
			want:    dec(50000),
			applied: []domain.DiscountType{domain.DiscountStaffParent, domain.DiscountBursary},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, applied := domain.ComputeDiscount(total, tt.learner, settings)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
			assert.Equal(t, tt.applied, applied)
		})
	}
}

func TestComputeDiscount_DisabledAndRounding(t *testing.T) {
	settings := []domain.DiscountSetting{
		{DiscountType: domain.DiscountStaffParent, Percentage: dec(10), IsEnabled: false},
		{DiscountType: domain.DiscountSibling, Percentage: decimal.RequireFromString("12.5"), IsEnabled: true},
	}
	learner := domain.LearnerSummary{IsStaffChild: true, HasActiveSibling: true}

	got, applied := domain.ComputeDiscount(decimal.RequireFromString("333.33"), learner, settings)
	assert.Equal(t, "41.67", got.StringFixed(2))
	assert.Equal(t, []domain.DiscountType{domain.DiscountSibling}, applied)
}

func TestDiscountSettingValidate(t *testing.T) {
	assert.NoError(t, domain.DiscountSetting{DiscountType: domain.DiscountBursary, Percentage: dec(100)}.Validate())
	assert.Error(t, domain.DiscountSetting{DiscountType: "loyalty", Percentage: dec(5)}.Validate())
	assert.Error(t, domain.DiscountSetting{DiscountType: domain.DiscountSibling, Percentage: dec(101)}.Validate())
	assert.Error(t, domain.DiscountSetting{DiscountType: domain.DiscountSibling, Percentage: dec(-1)}.Validate())
}

func TestFeeStructureValidate(t *testing.T) {
	fs := gradeFourStructure()
	assert.NoError(t, fs.Validate())

	fs.TotalAmount = dec(49000)
	assert.ErrorContains(t, fs.Validate(), "does not match")

	fs = gradeFourStructure()
	fs.GradeID = ""
	assert.Error(t, fs.Validate())
}
