package services

import (
	"context"
	"time"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/go-redis/redis/v8"
)

const SESSION_PREFIX = "xams:refresh:"

// SessionStore keeps the jti of every live refresh token
type SessionStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	// Delete reports whether the jti was live. Only one caller gets true.
	Delete(ctx context.Context, jti string) (bool, error)
}

type redisSessionStore struct {
	client *redis.Client
}

func (r *redisSessionStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, SESSION_PREFIX+jti, userID, ttl).Err()
}

func (r *redisSessionStore) Delete(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Del(ctx, SESSION_PREFIX+jti).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func NewRedisSessionStore() SessionStore {
	return &redisSessionStore{
		client: db.NewRedisClient(),
	}
}
