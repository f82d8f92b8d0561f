package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_SetGetTTL(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("value mismatch: got %q", got)
	}

	if err := s.Set(ctx, "short", []byte("x"), 20*time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, err := s.Get(ctx, "short"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after TTL, got %v", err)
	}

	// Zero TTL means no expiry.
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("zero-ttl key expired: %v", err)
	}
}

func TestMemoryStore_Sets(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.SAdd(ctx, "set", "a", "b"); err != nil {
		t.Fatalf("SAdd error: %v", err)
	}
	if err := s.SAdd(ctx, "set", "b", "c"); err != nil {
		t.Fatalf("SAdd error: %v", err)
	}

	members, err := s.SMembers(ctx, "set")
	if err != nil {
		t.Fatalf("SMembers error: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %v", members)
	}

	if err := s.SRem(ctx, "set", "a", "c"); err != nil {
		t.Fatalf("SRem error: %v", err)
	}
	members, _ = s.SMembers(ctx, "set")
	if len(members) != 1 || members[0] != "b" {
		t.Fatalf("expected [b], got %v", members)
	}

	// Removing from an absent set is a no-op.
	if err := s.SRem(ctx, "nope", "a"); err != nil {
		t.Fatalf("SRem on missing set: %v", err)
	}
}

func TestMemoryStore_KeysPattern(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	_ = s.Set(ctx, "app:content:1", []byte("1"), 0)
	_ = s.Set(ctx, "app:content:2", []byte("2"), 0)
	_ = s.Set(ctx, "app:settings", []byte("3"), 0)

	keys, err := s.Keys(ctx, "app:content:*")
	if err != nil {
		t.Fatalf("Keys error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %v", keys)
	}
}

func TestMemoryStore_ExpireAndDel(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	_ = s.Set(ctx, "k", []byte("v"), 0)
	if err := s.Expire(ctx, "k", 20*time.Millisecond); err != nil {
		t.Fatalf("Expire error: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry via Expire, got %v", err)
	}

	_ = s.Set(ctx, "a", []byte("1"), 0)
	_ = s.SAdd(ctx, "b", "m")
	if err := s.Del(ctx, "a", "b"); err != nil {
		t.Fatalf("Del error: %v", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatal("key a survived Del")
	}
	members, _ := s.SMembers(ctx, "b")
	if len(members) != 0 {
		t.Fatal("set b survived Del")
	}
}
