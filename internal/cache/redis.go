package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"example.com/backstage/services/routedelivery/config"
)

// Session is a logged-in user session
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CacheClient defines the interface for cache operations.
// Lookups return redis.Nil on a miss.
type CacheClient interface {
	// Session methods
	GetSession(ctx context.Context, id string) (*Session, error)
	SetSession(ctx context.Context, session *Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, id string) error

	// Statistics methods, one entry per driver and day.
	// SetStatistics only lands when version is still the driver's current
	// statistics version, so counts read before an invalidation are never served.
	StatisticsVersion(ctx context.Context, driverID uint) (int64, error)
	GetStatistics(ctx context.Context, driverID uint, day string, dest interface{}) error
	SetStatistics(ctx context.Context, driverID uint, version int64, day string, value interface{}) error
	InvalidateStatistics(ctx context.Context, driverID uint) error

	Ping(ctx context.Context) error
	Close() error
}

// RedisClient implements CacheClient using Redis
type RedisClient struct {
	client        *redis.Client
	statisticsTTL time.Duration
}

// NewRedisClient creates a Redis-backed client, or an in-memory one when Redis is disabled
func NewRedisClient(cfg *config.RedisConfig) (CacheClient, error) {
	if !cfg.Enabled {
		return NewMemoryClient(cfg.StatisticsTTL), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client:        client,
		statisticsTTL: cfg.StatisticsTTL,
	}, nil
}

// Prefix keys to avoid collisions
func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func statisticsKey(driverID uint, version int64) string {
	return fmt.Sprintf("statistics:%d:v%d", driverID, version)
}

func statisticsVersionKey(driverID uint) string {
	return fmt.Sprintf("statistics:%d:version", driverID)
}

// GetSession retrieves a session
func (c *RedisClient) GetSession(ctx context.Context, id string) (*Session, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// SetSession stores a session with an expiry
func (c *RedisClient) SetSession(ctx context.Context, session *Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, sessionKey(session.ID), data, ttl).Err()
}

// DeleteSession removes a session
func (c *RedisClient) DeleteSession(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id)).Err()
}

// StatisticsVersion returns the current statistics version of a driver
func (c *RedisClient) StatisticsVersion(ctx context.Context, driverID uint) (int64, error) {
	version, err := c.client.Get(ctx, statisticsVersionKey(driverID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// GetStatistics reads cached statistics of a driver for a day
func (c *RedisClient) GetStatistics(ctx context.Context, driverID uint, day string, dest interface{}) error {
	version, err := c.StatisticsVersion(ctx, driverID)
	if err != nil {
		return err
	}

	data, err := c.client.HGet(ctx, statisticsKey(driverID, version), day).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// SetStatistics caches statistics of a driver for a day under the given version.
// Each version hash expires as a whole after the statistics TTL, and a hash
// written for a superseded version is never read.
func (c *RedisClient) SetStatistics(ctx context.Context, driverID uint, version int64, day string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	key := statisticsKey(driverID, version)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, day, data)
	pipe.Expire(ctx, key, c.statisticsTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateStatistics moves the driver to a new statistics version
func (c *RedisClient) InvalidateStatistics(ctx context.Context, driverID uint) error {
	return c.client.Incr(ctx, statisticsVersionKey(driverID)).Err()
}

// Ping checks the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	return c.client.Close()
}
