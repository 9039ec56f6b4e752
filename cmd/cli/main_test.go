package main

import "testing"

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}

	if got := truncate("abc", 3); got != "abc" {
		t.Fatalf("expected abc unchanged, got %q", got)
	}
}

func TestStr(t *testing.T) {
	if got := str("value"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}

	if got := str(42); got != "" {
		t.Fatalf("expected empty string for non-string, got %q", got)
	}
}
