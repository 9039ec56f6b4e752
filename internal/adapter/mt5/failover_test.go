package mt5

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hijamarkets/backoffice/internal/domain"
)

func TestFailoverBackend_LatchesOnConnectFailure(t *testing.T) {
	// Nothing listens on this port; the live connection must fail fast and
	// latch onto the mock.
	live := NewLiveBackend(LiveConfig{
		APIURL:          "http://127.0.0.1:1",
		ManagerLogin:    "1000",
		ManagerPassword: "secret",
		Timeout:         200 * time.Millisecond,
	}, zerolog.Nop())

	fb := NewFailoverBackend(live, NewMockBackend(zerolog.Nop()), false, nil, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := fb.Connect(ctx); err != nil {
		t.Fatalf("connect must never fail: %v", err)
	}
	if fb.Mode() != "mock" {
		t.Fatalf("expected mock mode after connect failure, got %s", fb.Mode())
	}

	// Operations keep returning success from the mock.
	creds, err := fb.CreateAccount(context.Background(), domain.AccountProfile{Name: "Test"})
	if err != nil {
		t.Fatalf("mock fallback must serve account creation: %v", err)
	}
	if creds.Login == "" {
		t.Error("expected generated login")
	}
}

func TestFailoverBackend_ForceMock(t *testing.T) {
	fb := NewFailoverBackend(nil, NewMockBackend(zerolog.Nop()), true, nil, zerolog.Nop())

	if err := fb.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.Mode() != "mock" {
		t.Errorf("expected mock mode, got %s", fb.Mode())
	}
}

func TestFailoverBackend_StaysLiveWhenConnected(t *testing.T) {
	fb := NewFailoverBackend(NewMockBackend(zerolog.Nop()), NewMockBackend(zerolog.Nop()), false, nil, zerolog.Nop())

	if err := fb.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.Mode() != "live" {
		t.Errorf("expected live mode, got %s", fb.Mode())
	}
}
