// internal/pkg/session/store.go
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store errors
var (
	ErrNoBinding = errors.New("no cart bound to session")
)

// Store maps anonymous session tokens to guest cart IDs. The token itself
// is minted and carried by the HTTP layer; the store only keeps the binding.
type Store interface {
	// CartID returns the cart bound to the session token, or ErrNoBinding
	CartID(ctx context.Context, token string) (uint, error)
	// Bind associates the session token with a cart, refreshing the TTL
	Bind(ctx context.Context, token string, cartID uint) error
	// Clear removes the binding for the session token
	Clear(ctx context.Context, token string) error
}

// RedisStore implements Store on Redis
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) key(token string) string {
	return fmt.Sprintf("cart:session:%s", token)
}

// CartID returns the cart bound to the session token
func (s *RedisStore) CartID(ctx context.Context, token string) (uint, error) {
	val, err := s.client.Get(ctx, s.key(token)).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoBinding
		}
		return 0, fmt.Errorf("failed to read session binding: %w", err)
	}
	return uint(val), nil
}

// Bind associates the session token with a cart
func (s *RedisStore) Bind(ctx context.Context, token string, cartID uint) error {
	if err := s.client.Set(ctx, s.key(token), cartID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to bind session: %w", err)
	}
	return nil
}

// Clear removes the binding for the session token
func (s *RedisStore) Clear(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to clear session binding: %w", err)
	}
	return nil
}
