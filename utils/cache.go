package utils

import (
	"context"
	"log"
	"time"

	"tradewinds/config"

	"github.com/go-redis/redis/v8"
)

var (
	// InquiryCacheClient stores wizard sessions.
	InquiryCacheClient *redis.Client
	// ConciergeCacheClient stores concierge session snapshots.
	ConciergeCacheClient *redis.Client
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

// InitRedis connects every Redis client used by the server.
func InitRedis() {
	GetInquiryCacheClient()
	GetConciergeCacheClient()
}

// GetInquiryCacheClient returns the client for wizard sessions.
func GetInquiryCacheClient() *redis.Client {
	if InquiryCacheClient == nil {
		InquiryCacheClient = newRedisClient(config.AppConfig.RedisInquiryDB, "Inquiry")
	}
	return InquiryCacheClient
}

// GetConciergeCacheClient returns the client for concierge snapshots.
func GetConciergeCacheClient() *redis.Client {
	if ConciergeCacheClient == nil {
		ConciergeCacheClient = newRedisClient(config.AppConfig.RedisConciergeDB, "Concierge")
	}
	return ConciergeCacheClient
}
