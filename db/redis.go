package db

import (
	"sync"

	"github.com/go-redis/redis/v8"
)

var redisOnce sync.Once
var redisClient *redis.Client

// NewRedisClient returns the process wide client. go-redis dials lazily.
func NewRedisClient() *redis.Client {
	redisOnce.Do(func() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     settingsData.REDIS_HOST,
			Password: settingsData.REDIS_PASSWORD,
			DB:       settingsData.REDIS_DB,
		})
	})
	return redisClient
}
