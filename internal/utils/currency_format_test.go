package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "KES 0.00"},
		{"999.5", "KES 999.50"},
		{"45000", "KES 45,000.00"},
		{"1234567.891", "KES 1,234,567.89"},
		{"-2500", "KES -2,500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.amount), "KES"))
		})
	}
}

func TestFormatWithPrecision(t *testing.T) {
	assert.Equal(t, "12.35", FormatWithPrecision(decimal.RequireFromString("12.3456"), 2))
	assert.Equal(t, "12", FormatWithPrecision(decimal.RequireFromString("12.3456"), 0))
}

func TestAmountInWords(t *testing.T) {
	assert.Equal(t, "forty-five thousand", AmountInWords(decimal.NewFromInt(45000)))
	assert.Equal(t, "twelve and 50/100", AmountInWords(decimal.RequireFromString("12.5")))
}
