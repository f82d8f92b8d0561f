package auth

import (
	"context"
	"testing"
	"time"

	"github.com/hunet324/expertlink/internal/store"
)

func onlineIDs(t *testing.T, p *Presence) map[uint]bool {
	t.Helper()
	ids, err := p.Online(context.Background())
	if err != nil {
		t.Fatalf("Online error: %v", err)
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func TestPresence_OnlineOffline(t *testing.T) {
	t.Parallel()

	p := NewPresence(store.NewMemoryStore(), time.Hour)
	ctx := context.Background()

	if err := p.SetOnline(ctx, 1); err != nil {
		t.Fatalf("SetOnline error: %v", err)
	}
	if err := p.SetOnline(ctx, 2); err != nil {
		t.Fatalf("SetOnline error: %v", err)
	}

	online := onlineIDs(t, p)
	if !online[1] || !online[2] {
		t.Fatalf("expected users 1 and 2 online, got %v", online)
	}

	if err := p.SetOffline(ctx, 1); err != nil {
		t.Fatalf("SetOffline error: %v", err)
	}
	online = onlineIDs(t, p)
	if online[1] {
		t.Fatal("user 1 still online after SetOffline")
	}
	if !online[2] {
		t.Fatal("user 2 dropped by unrelated SetOffline")
	}
}

func TestPresence_SweepReapsStaleSessions(t *testing.T) {
	t.Parallel()

	p := NewPresence(store.NewMemoryStore(), 20*time.Millisecond)
	ctx := context.Background()

	if err := p.SetOnline(ctx, 1); err != nil {
		t.Fatalf("SetOnline error: %v", err)
	}
	if err := p.SetOnline(ctx, 2); err != nil {
		t.Fatalf("SetOnline error: %v", err)
	}

	// User 2 keeps heartbeating; user 1 goes silent (crashed session).
	time.Sleep(15 * time.Millisecond)
	if err := p.Touch(ctx, 2); err != nil {
		t.Fatalf("Touch error: %v", err)
	}
	time.Sleep(15 * time.Millisecond)

	if err := p.Sweep(ctx); err != nil {
		t.Fatalf("Sweep error: %v", err)
	}

	online := onlineIDs(t, p)
	if online[1] {
		t.Fatal("stale user 1 survived sweep")
	}
	if !online[2] {
		t.Fatal("heartbeating user 2 was reaped")
	}
}
