package redis

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "account_summary:10001", `{"balance":"5000"}`, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "account_summary:10001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if val != `{"balance":"5000"}` {
		t.Fatalf("unexpected value: %s", val)
	}
}

func TestCacheExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "account_summary:10002", "stale", 30*time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(31 * time.Second)

	if _, err := cache.Get(ctx, "account_summary:10002"); err == nil {
		t.Fatalf("expected expired key to miss")
	}
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "account_summary:10003", "snapshot", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "account_summary:10003"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, "account_summary:10003"); err == nil {
		t.Fatalf("expected error getting deleted key")
	}
}
