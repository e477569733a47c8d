package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const bookingUpdatesChannel = "booking:updates"

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// PublishBookingUpdate publishes a booking lifecycle event to Redis pub/sub.
// A nil client (tests, Redis disabled) is a no-op.
func PublishBookingUpdate(ctx context.Context, bookingID uint, status string, data map[string]interface{}) error {
	if RedisClient == nil {
		return nil
	}

	updateData := map[string]interface{}{
		"bookingId": bookingID,
		"status":    status,
		"data":      data,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, bookingUpdatesChannel, jsonData).Err()
}

// CacheRoomList stores the serialized room listing with a short TTL so the
// public listing endpoint does not hit Postgres on every poll.
func CacheRoomList(ctx context.Context, data []byte) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Set(ctx, "rooms:list", data, 5*time.Minute).Err()
}

// GetCachedRoomList retrieves the cached room listing, if any.
func GetCachedRoomList(ctx context.Context) ([]byte, error) {
	if RedisClient == nil {
		return nil, redis.Nil
	}
	data, err := RedisClient.Get(ctx, "rooms:list").Bytes()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// InvalidateRoomList drops the cached room listing after a room mutation.
func InvalidateRoomList(ctx context.Context) {
	if RedisClient == nil {
		return
	}
	RedisClient.Del(ctx, "rooms:list")
}
