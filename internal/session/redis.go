package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcrow/storefront/internal/cart"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func cartKey(sid string) string { return "sess:" + sid + ":cart" }
func userKey(sid string) string { return "sess:" + sid + ":user" }

func (s *RedisStore) Cart(ctx context.Context, sid string) (cart.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart failed: %w", err)
	}

	var c cart.Cart
	if err2 := json.Unmarshal(data, &c); err2 != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err2)
	}
	return c, nil
}

func (s *RedisStore) SetCart(ctx context.Context, sid string, c cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(sid), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart failed: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearCart(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, cartKey(sid)).Err(); err != nil {
		return fmt.Errorf("redis del cart failed: %w", err)
	}
	return nil
}

func (s *RedisStore) UserID(ctx context.Context, sid string) (int64, error) {
	data, err := s.client.Get(ctx, userKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get user failed: %w", err)
	}
	id, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse session user id: %w", err)
	}
	return id, nil
}

func (s *RedisStore) SetUserID(ctx context.Context, sid string, userID int64) error {
	if err := s.client.Set(ctx, userKey(sid), strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set user failed: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearUser(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, userKey(sid)).Err(); err != nil {
		return fmt.Errorf("redis del user failed: %w", err)
	}
	return nil
}
