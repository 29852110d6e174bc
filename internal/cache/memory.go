package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryClient implements CacheClient in process memory.
// It serves single-instance deployments running without Redis.
type MemoryClient struct {
	mu            sync.Mutex
	sessions      map[string]memoryEntry
	statistics    map[uint]map[string]memoryEntry
	versions      map[uint]int64
	statisticsTTL time.Duration
	now           func() time.Time
}

// NewMemoryClient creates an in-memory cache client
func NewMemoryClient(statisticsTTL time.Duration) *MemoryClient {
	return &MemoryClient{
		sessions:      make(map[string]memoryEntry),
		statistics:    make(map[uint]map[string]memoryEntry),
		versions:      make(map[uint]int64),
		statisticsTTL: statisticsTTL,
		now:           time.Now,
	}
}

func (c *MemoryClient) GetSession(_ context.Context, id string) (*Session, error) {
	c.mu.Lock()
	entry, ok := c.sessions[id]
	if ok && entry.expired(c.now()) {
		delete(c.sessions, id)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return nil, redis.Nil
	}

	var session Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *MemoryClient) SetSession(_ context.Context, session *Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.ID] = memoryEntry{data: data, expiresAt: c.expiry(ttl)}
	return nil
}

func (c *MemoryClient) DeleteSession(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}

func (c *MemoryClient) StatisticsVersion(_ context.Context, driverID uint) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[driverID], nil
}

func (c *MemoryClient) GetStatistics(_ context.Context, driverID uint, day string, dest interface{}) error {
	c.mu.Lock()
	entry, ok := c.statistics[driverID][day]
	if ok && entry.expired(c.now()) {
		delete(c.statistics[driverID], day)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(entry.data, dest)
}

func (c *MemoryClient) SetStatistics(_ context.Context, driverID uint, version int64, day string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if version != c.versions[driverID] {
		return nil
	}
	if c.statistics[driverID] == nil {
		c.statistics[driverID] = make(map[string]memoryEntry)
	}
	c.statistics[driverID][day] = memoryEntry{data: data, expiresAt: c.expiry(c.statisticsTTL)}
	return nil
}

func (c *MemoryClient) InvalidateStatistics(_ context.Context, driverID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.statistics, driverID)
	c.versions[driverID]++
	return nil
}

func (c *MemoryClient) Ping(context.Context) error { return nil }

func (c *MemoryClient) Close() error { return nil }

func (c *MemoryClient) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(ttl)
}
