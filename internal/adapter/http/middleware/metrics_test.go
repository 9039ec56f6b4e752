package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/v1/deposits/01JF8Z3K9Q/approve", "/api/v1/deposits/:id/approve"},
		{"/api/v1/withdrawals/01JF8Z3K9Q/reject", "/api/v1/withdrawals/:id/reject"},
		{"/api/v1/accounts/10023/summary", "/api/v1/accounts/:id/summary"},
		{"/api/v1/users/u-1/wallets/USD", "/api/v1/users/:id/wallets/:id"},
		{"/api/v1/kyc/01JF8Z3K9Q", "/api/v1/kyc/:id"},
		{"/api/v1/deposits/", "/api/v1/deposits/"},
		{"/health", "/health"},
		{"/api/v1/reconciliation", "/api/v1/reconciliation"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
