// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"fixmate/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// DispatchArchiveClient is the dedicated client for archived dispatch results.
	DispatchArchiveClient *redis.Client
)

// InitCache initializes the generic Redis cache client (using DB from AppConfig for general caching).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitDispatchArchiveCache initializes the Redis client holding terminal dispatch results.
func InitDispatchArchiveCache() {
	DispatchArchiveClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDispatchDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := DispatchArchiveClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Dispatch Archive): %v", err)
	}
}

// GetDispatchArchiveClient returns the Redis client for archived dispatch results.
func GetDispatchArchiveClient() *redis.Client {
	if DispatchArchiveClient == nil {
		InitDispatchArchiveCache()
	}
	return DispatchArchiveClient
}

// InitRedis brings up all Redis clients at boot.
func InitRedis() {
	InitCache()
	InitDispatchArchiveCache()
}
