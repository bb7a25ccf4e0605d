package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"mining-engine/backend-go/internal/config"
	"mining-engine/backend-go/internal/models"
)

// SnapshotStore holds at most one live snapshot plus its fetch time. The slot
// is replaced wholesale on Set and never expires on its own: freshness is the
// caller's decision, and a stale snapshot must stay readable so it can be
// served when every upstream call fails.
type SnapshotStore interface {
	Get(ctx context.Context) (models.LiveSnapshot, time.Time, bool)
	Set(ctx context.Context, snap models.LiveSnapshot, fetchedAt time.Time) error
	Clear(ctx context.Context) error
}

type MemoryStore struct {
	mu        sync.Mutex
	snap      models.LiveSnapshot
	fetchedAt time.Time
	ok        bool
}

type RedisStore struct {
	client *redis.Client
	key    string
}

type storedSnapshot struct {
	FetchedAt time.Time           `json:"fetched_at"`
	Snapshot  models.LiveSnapshot `json:"snapshot"`
}

// NewSnapshotStore returns a Redis-backed store when Redis is reachable and
// falls back to the in-memory store otherwise.
func NewSnapshotStore(cfg config.Config) SnapshotStore {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return NewMemoryStore()
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return NewMemoryStore()
	}
	return &RedisStore{client: client, key: "live:snapshot:v1"}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(_ context.Context) (models.LiveSnapshot, time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ok {
		return models.LiveSnapshot{}, time.Time{}, false
	}
	return m.snap, m.fetchedAt, true
}

func (m *MemoryStore) Set(_ context.Context, snap models.LiveSnapshot, fetchedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	m.fetchedAt = fetchedAt
	m.ok = true
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = models.LiveSnapshot{}
	m.fetchedAt = time.Time{}
	m.ok = false
	return nil
}

func (r *RedisStore) Get(ctx context.Context) (models.LiveSnapshot, time.Time, bool) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		return models.LiveSnapshot{}, time.Time{}, false
	}
	var stored storedSnapshot
	if err := json.Unmarshal(b, &stored); err != nil {
		return models.LiveSnapshot{}, time.Time{}, false
	}
	return stored.Snapshot, stored.FetchedAt, true
}

func (r *RedisStore) Set(ctx context.Context, snap models.LiveSnapshot, fetchedAt time.Time) error {
	b, err := json.Marshal(storedSnapshot{FetchedAt: fetchedAt, Snapshot: snap})
	if err != nil {
		return err
	}
	// No Redis TTL: the slot must outlive the freshness window.
	return r.client.Set(ctx, r.key, b, 0).Err()
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
