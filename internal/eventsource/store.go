package eventsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"geowatch/internal/config"
	"geowatch/internal/event"
)

// ErrNoSnapshot is returned by Get when nothing fresh is stored.
var ErrNoSnapshot = errors.New("no events snapshot")

// Snapshot is one stored copy of the webhook's event list.
type Snapshot struct {
	Events    []event.Event `json:"events"`
	FetchedAt time.Time     `json:"fetchedAt"`
}

// Store keeps the latest snapshot.
type Store interface {
	Get(ctx context.Context) (Snapshot, error)
	Put(ctx context.Context, s Snapshot, ttl time.Duration) error
}

// MemoryStore keeps the snapshot in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot Snapshot
	expires  time.Time
	set      bool
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set || (!s.expires.IsZero() && !s.now().Before(s.expires)) {
		return Snapshot{}, ErrNoSnapshot
	}
	return s.snapshot, nil
}

// Put replaces the snapshot. A ttl of zero never expires.
func (s *MemoryStore) Put(_ context.Context, snap Snapshot, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.set = true
	s.expires = time.Time{}
	if ttl > 0 {
		s.expires = s.now().Add(ttl)
	}
	return nil
}

const snapshotKey = "events:snapshot"

// RedisStore keeps the snapshot as JSON in Redis so several instances can
// share it.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects and pings Redis.
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, key: keyPrefix + snapshotKey}
}

func (s *RedisStore) Get(ctx context.Context) (Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read events snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode events snapshot: %w", err)
	}
	return snap, nil
}

func (s *RedisStore) Put(ctx context.Context, snap Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode events snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("write events snapshot: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)

// NewStore returns a RedisStore when Redis is enabled and reachable, and a
// MemoryStore otherwise.
func NewStore(cfg config.RedisConfig, log *zap.Logger) Store {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Enabled {
		log.Info("using in-memory events snapshot")
		return NewMemoryStore()
	}
	store, err := NewRedisStore(cfg)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory events snapshot",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewMemoryStore()
	}
	log.Info("using Redis events snapshot", zap.String("addr", cfg.Addr()))
	return store
}
