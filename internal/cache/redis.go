package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blacktie-rides/limobooking/config"
	"github.com/blacktie-rides/limobooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client  *redis.Client
	listTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, listTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:  redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		listTTL: listTTL,
	}
}

// GetBookings returns the cached booking snapshot, or nil on a miss. The
// snapshot may lag behind the database; list reads tolerate that.
func (c *RedisCache) GetBookings(ctx context.Context) ([]domain.Booking, error) {
	data, err := c.client.Get(ctx, bookingsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *RedisCache) SetBookings(ctx context.Context, bookings []domain.Booking) error {
	payload, err := json.Marshal(bookings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, bookingsKey(), payload, c.listTTL).Err()
}

// InvalidateBookings drops the cached snapshot after a write.
func (c *RedisCache) InvalidateBookings(ctx context.Context) error {
	return c.client.Del(ctx, bookingsKey()).Err()
}

// AcquireBookingLock serializes read-modify-write operations against one
// booking id. The TTL guards against a crashed holder.
func (c *RedisCache) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, bookingLockKey(bookingID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseBookingLock(ctx context.Context, bookingID string) error {
	return c.client.Del(ctx, bookingLockKey(bookingID)).Err()
}

func bookingsKey() string {
	return "cache:bookings"
}

func bookingLockKey(bookingID string) string {
	return fmt.Sprintf("lock:booking:%s", bookingID)
}
