package cart

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/driveline-labs/storefront-api/pkg/errors"
	"github.com/driveline-labs/storefront-api/pkg/redis"
)

type redisAPI interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStore keeps one JSON cart blob per session with the session TTL, so
// carts outlive process restarts when the redis backend is configured.
type RedisStore struct {
	client redisAPI
	ttl    time.Duration
}

func NewRedisStore(client redisAPI, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Cart, error) {
	key := s.client.CartKey(sessionID)
	raw, err := s.client.Get(ctx, key)
	if err != nil {
		if redis.ErrNotFound(err) {
			return Cart{}, nil
		}
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart from redis")
	}

	// The session cookie slides on every request, so the stored cart's TTL
	// slides with it. Best effort: a failed refresh only means the cart
	// expires on its old schedule.
	_ = s.client.Expire(ctx, key, s.ttl)

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding stored cart")
	}
	return cart, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, cart Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart")
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), string(raw), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart to redis")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting cart from redis")
	}
	return nil
}
