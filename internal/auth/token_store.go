package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hunet324/expertlink/internal/store"
)

var ErrNoStoredToken = errors.New("no refresh token stored for user")

// TokenStore holds at most one live refresh token per user. Saving a new
// token overwrites the prior one, which immediately invalidates it.
type TokenStore struct {
	store store.Store
	ttl   time.Duration
}

func NewTokenStore(st store.Store, ttl time.Duration) *TokenStore {
	return &TokenStore{store: st, ttl: ttl}
}

func refreshKey(userID uint) string {
	return "auth:refresh:" + strconv.FormatUint(uint64(userID), 10)
}

func (t *TokenStore) Save(ctx context.Context, userID uint, token string) error {
	if err := t.store.Set(ctx, refreshKey(userID), []byte(token), t.ttl); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Get returns the stored refresh token for the user. A store failure is
// returned as-is: the refresh flow must deny when the store cannot answer.
func (t *TokenStore) Get(ctx context.Context, userID uint) (string, error) {
	val, err := t.store.Get(ctx, refreshKey(userID))
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrNoStoredToken
	}
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func (t *TokenStore) Delete(ctx context.Context, userID uint) error {
	return t.store.Del(ctx, refreshKey(userID))
}
