package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateCurrency(t *testing.T) {
	tests := []struct {
		currency    string
		expectError bool
	}{
		{"INR", false},
		{"usd", false},
		{" EUR ", false},
		{"BTC", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			err := ValidateCurrency(tt.currency)

			if tt.expectError && err == nil {
				t.Errorf("expected error for %q, got nil", tt.currency)
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error for %q: %v", tt.currency, err)
			}
		})
	}
}

func TestValidateFundingAmount(t *testing.T) {
	tests := []struct {
		name        string
		amount      decimal.Decimal
		expectError bool
	}{
		{"at minimum", decimal.NewFromInt(1000), false},
		{"above minimum", decimal.NewFromInt(25000), false},
		{"below minimum", decimal.NewFromInt(999), true},
		{"zero", decimal.Zero, true},
		{"negative", decimal.NewFromInt(-1000), true},
		{"above maximum", decimal.NewFromInt(100000001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFundingAmount(tt.amount)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Errorf("expected defaults (50, 0), got (%d, %d)", limit, offset)
	}

	limit, offset = ValidatePagination(5000, 10)
	if limit != 1000 || offset != 10 {
		t.Errorf("expected capped (1000, 10), got (%d, %d)", limit, offset)
	}
}
