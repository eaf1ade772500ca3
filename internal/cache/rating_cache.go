package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// sentinel value for "title has no reviews", so a nil rating is still a
// cache hit and does not fall through to the database every read
const noRating = "none"

// RatingCache is a read-through cache for derived title ratings.
// A nil *RatingCache is a valid no-op cache (service runs without Redis).
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRatingCache(redisAddr, password string, ttl time.Duration) (*RatingCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RatingCache{client: rdb, ttl: ttl}, nil
}

func key(titleID int64) string {
	return fmt.Sprintf("rating:title:%d", titleID)
}

// Get returns (rating, true) on a hit; the rating itself may be nil for a
// title known to have no reviews.
func (c *RatingCache) Get(ctx context.Context, titleID int64) (*float64, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, key(titleID)).Result()
	if err != nil {
		// miss or Redis down, either way the caller recomputes
		return nil, false
	}
	if val == noRating {
		return nil, true
	}
	rating, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, false
	}
	return &rating, true
}

func (c *RatingCache) Set(ctx context.Context, titleID int64, rating *float64) {
	if c == nil || c.client == nil {
		return
	}

	val := noRating
	if rating != nil {
		val = strconv.FormatFloat(*rating, 'f', -1, 64)
	}
	// best effort: a failed Set only costs the next read a recompute
	c.client.Set(ctx, key(titleID), val, c.ttl)
}

// Invalidate drops the cached rating after a review write.
func (c *RatingCache) Invalidate(ctx context.Context, titleID int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, key(titleID))
}
