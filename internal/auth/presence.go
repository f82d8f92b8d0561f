package auth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/hunet324/expertlink/internal/store"
)

const onlineSetKey = "auth:online"

// Presence tracks which users are currently online. Set membership alone
// cannot be trusted: a crashed session never fires logout. Each member also
// carries a last-seen key with TTL, and Sweep reaps members whose last-seen
// key has expired.
type Presence struct {
	store store.Store
	ttl   time.Duration
}

func NewPresence(st store.Store, ttl time.Duration) *Presence {
	return &Presence{store: st, ttl: ttl}
}

func seenKey(userID uint) string {
	return "auth:online:seen:" + strconv.FormatUint(uint64(userID), 10)
}

func (p *Presence) SetOnline(ctx context.Context, userID uint) error {
	return p.Touch(ctx, userID)
}

// Touch refreshes the user's last-seen marker. Called on login, token refresh
// and the explicit heartbeat endpoint; re-adds set membership in case a sweep
// ran between two heartbeats.
func (p *Presence) Touch(ctx context.Context, userID uint) error {
	if err := p.store.SAdd(ctx, onlineSetKey, strconv.FormatUint(uint64(userID), 10)); err != nil {
		return err
	}
	return p.store.Set(ctx, seenKey(userID), []byte(time.Now().Format(time.RFC3339)), p.ttl)
}

func (p *Presence) SetOffline(ctx context.Context, userID uint) error {
	if err := p.store.SRem(ctx, onlineSetKey, strconv.FormatUint(uint64(userID), 10)); err != nil {
		return err
	}
	return p.store.Del(ctx, seenKey(userID))
}

// Online returns the ids of users currently considered online.
func (p *Presence) Online(ctx context.Context) ([]uint, error) {
	members, err := p.store.SMembers(ctx, onlineSetKey)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// Sweep removes set members whose last-seen key has expired.
func (p *Presence) Sweep(ctx context.Context) error {
	members, err := p.store.SMembers(ctx, onlineSetKey)
	if err != nil {
		return err
	}

	var stale []string
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			stale = append(stale, m)
			continue
		}
		if _, err := p.store.Get(ctx, seenKey(uint(id))); errors.Is(err, store.ErrNotFound) {
			stale = append(stale, m)
		}
	}

	if len(stale) > 0 {
		if err := p.store.SRem(ctx, onlineSetKey, stale...); err != nil {
			return err
		}
		slog.Info("presence sweep removed stale sessions", "count", len(stale))
	}
	return nil
}

// StartSweeper runs Sweep on the given interval until done is closed.
func (p *Presence) StartSweeper(interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := p.Sweep(context.Background()); err != nil {
					slog.Error("presence sweep failed", "error", err)
				}
			case <-done:
				return
			}
		}
	}()
}
