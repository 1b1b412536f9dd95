// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"platter/config"

	"github.com/go-redis/redis/v8"
)

var (
	// DraftCacheClient holds signup drafts and wizard step snapshots.
	DraftCacheClient *redis.Client
	// SessionCacheClient holds console sessions (actor per console token).
	SessionCacheClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitDraftCache initializes the Redis client used by the draft store.
func InitDraftCache() {
	DraftCacheClient = newRedisClient(config.AppConfig.RedisDraftDB, "Drafts")
}

// GetDraftCacheClient returns the draft Redis client.
func GetDraftCacheClient() *redis.Client {
	if DraftCacheClient == nil {
		InitDraftCache()
	}
	return DraftCacheClient
}

// InitSessionCache initializes the Redis client for console sessions.
func InitSessionCache() {
	SessionCacheClient = newRedisClient(config.AppConfig.RedisSessionDB, "Sessions")
}

// GetSessionCacheClient returns the Redis client for console sessions.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitRedis connects every Redis client the service uses.
func InitRedis() {
	InitDraftCache()
	InitSessionCache()
}
