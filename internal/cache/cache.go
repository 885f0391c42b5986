// Package cache keeps short lived copies of expensive dashboard aggregates.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// StatsCache stores channel stats per channel. A miss or a backend failure
// both report ok=false so callers fall back to computing the stats.
type StatsCache interface {
	Get(ctx context.Context, channel primitive.ObjectID) (*models.ChannelStats, bool)
	Set(ctx context.Context, channel primitive.ObjectID, stats *models.ChannelStats) error
}

func statsKey(channel primitive.ObjectID) string {
	return "vidtube:stats:" + channel.Hex()
}

// ===============================
// REDIS CACHE IMPLEMENTATION
// ===============================

// RedisStatsCache keeps stats as JSON strings with a TTL.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStatsCache connects to the server at url and pings it.
func NewRedisStatsCache(url string, ttl time.Duration, logger *zap.Logger) (*RedisStatsCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis stats cache initialized",
		zap.String("addr", options.Addr),
		zap.Int("db", options.DB),
		zap.Duration("ttl", ttl),
	)

	return &RedisStatsCache{client: client, ttl: ttl, logger: logger}, nil
}

// Get implements StatsCache
func (r *RedisStatsCache) Get(ctx context.Context, channel primitive.ObjectID) (*models.ChannelStats, bool) {
	val, err := r.client.Get(ctx, statsKey(channel)).Result()
	if err == redis.Nil {
		return nil, false
	} else if err != nil {
		r.logger.Error("Failed to get stats from Redis",
			zap.String("channel", channel.Hex()),
			zap.Error(err))
		return nil, false
	}

	var stats models.ChannelStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		r.logger.Warn("Discarding malformed cached stats",
			zap.String("channel", channel.Hex()),
			zap.Error(err))
		return nil, false
	}
	return &stats, true
}

// Set implements StatsCache
func (r *RedisStatsCache) Set(ctx context.Context, channel primitive.ObjectID, stats *models.ChannelStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	return r.client.Set(ctx, statsKey(channel), data, r.ttl).Err()
}

// Close releases the connection pool
func (r *RedisStatsCache) Close() error {
	return r.client.Close()
}

// ===============================
// MEMORY CACHE IMPLEMENTATION
// ===============================

type memoryEntry struct {
	stats     models.ChannelStats
	expiresAt time.Time
}

// MemoryStatsCache is a process local StatsCache used when no Redis URL is
// configured.
type MemoryStatsCache struct {
	mu      sync.RWMutex
	entries map[primitive.ObjectID]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStatsCache creates a MemoryStatsCache
func NewMemoryStatsCache(ttl time.Duration) *MemoryStatsCache {
	return &MemoryStatsCache{
		entries: make(map[primitive.ObjectID]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get implements StatsCache
func (m *MemoryStatsCache) Get(_ context.Context, channel primitive.ObjectID) (*models.ChannelStats, bool) {
	m.mu.RLock()
	entry, ok := m.entries[channel]
	m.mu.RUnlock()
	if !ok || !m.now().Before(entry.expiresAt) {
		return nil, false
	}
	stats := entry.stats
	return &stats, true
}

// Set implements StatsCache
func (m *MemoryStatsCache) Set(_ context.Context, channel primitive.ObjectID, stats *models.ChannelStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
	m.entries[channel] = memoryEntry{stats: *stats, expiresAt: now.Add(m.ttl)}
	return nil
}
