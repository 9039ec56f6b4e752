package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFundsRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		request     FundsRequest
		expectError bool
	}{
		{
			name: "valid bank transfer deposit",
			request: FundsRequest{
				Direction: DirectionDeposit,
				Amount:    decimal.NewFromInt(3000),
				Currency:  "INR",
				Method:    MethodBankTransfer,
			},
			expectError: false,
		},
		{
			name: "valid upi withdrawal",
			request: FundsRequest{
				Direction: DirectionWithdrawal,
				Amount:    decimal.NewFromInt(1500),
				Currency:  "INR",
				Method:    MethodUPI,
			},
			expectError: false,
		},
		{
			name: "zero amount",
			request: FundsRequest{
				Direction: DirectionDeposit,
				Amount:    decimal.Zero,
				Currency:  "INR",
				Method:    MethodUPI,
			},
			expectError: true,
		},
		{
			name: "negative amount",
			request: FundsRequest{
				Direction: DirectionWithdrawal,
				Amount:    decimal.NewFromInt(-100),
				Currency:  "USD",
				Method:    MethodBankTransfer,
			},
			expectError: true,
		},
		{
			name: "unknown method",
			request: FundsRequest{
				Direction: DirectionDeposit,
				Amount:    decimal.NewFromInt(1000),
				Currency:  "USD",
				Method:    PaymentMethod("CRYPTO"),
			},
			expectError: true,
		},
		{
			name: "unsupported currency",
			request: FundsRequest{
				Direction: DirectionDeposit,
				Amount:    decimal.NewFromInt(1000),
				Currency:  "XYZ",
				Method:    MethodUPI,
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFundsRequest_IsPending(t *testing.T) {
	r := &FundsRequest{Status: RequestStatusPending}
	if !r.IsPending() {
		t.Error("expected pending request to be reviewable")
	}

	for _, status := range []RequestStatus{RequestStatusApproved, RequestStatusRejected} {
		r.Status = status
		if r.IsPending() {
			t.Errorf("expected %s request to be terminal", status)
		}
	}
}
