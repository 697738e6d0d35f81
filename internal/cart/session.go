package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore persists the cart blob keyed by session id. Implementations
// must round-trip the cart through JSON-safe primitives only.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Set(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrNoCart = errors.New("no cart in session")

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:  client,
		baseTTL: 7 * 24 * time.Hour,
	}
}

type RedisStore struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	key := sessionKey(sessionID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoCart
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err2 := json.Unmarshal(data, &cart); err2 != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err2)
	}
	if cart.Lines == nil {
		cart.Lines = make(map[string]domain.CartLine)
	}

	return &cart, nil
}

func (r RedisStore) Set(ctx context.Context, sessionID string, cart *domain.Cart) error {
	key := sessionKey(sessionID)
	jsonCart, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Minute
	ttl := r.baseTTL + jitter
	if ret := r.client.Set(ctx, key, string(jsonCart), ttl); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r RedisStore) Delete(ctx context.Context, sessionID string) error {
	key := sessionKey(sessionID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
