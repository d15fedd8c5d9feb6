package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"route-pipeline-adapter/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRunMetaPrefix = "rs3:run-meta:"

// RedisRunMetaStore keeps JSON snapshots of run metadata in Redis.
type RedisRunMetaStore struct {
	Client *redis.Client
	Prefix string
	// TTL of stored snapshots; zero keeps them until evicted.
	TTL time.Duration
}

func NewRedisRunMetaStore(client *redis.Client, ttl time.Duration) *RedisRunMetaStore {
	return &RedisRunMetaStore{Client: client, Prefix: defaultRunMetaPrefix, TTL: ttl}
}

func (s *RedisRunMetaStore) key(runID string) string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = defaultRunMetaPrefix
	}
	return prefix + runID
}

// Store a snapshot of meta under runID, replacing any previous snapshot.
func (s *RedisRunMetaStore) SaveMeta(ctx context.Context, runID string, meta map[string]any) (err error) {
	defer obs.Time(ctx, "run_meta.cache.SaveMeta")(&err)

	if s.Client == nil {
		return errors.New("run meta cache: client is nil")
	}

	if strings.TrimSpace(runID) == "" {
		return errors.New("save run meta: run id must not be empty")
	}

	b, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("save run meta: encode run_id=%s: %w", runID, err)
	}

	if err := s.Client.Set(ctx, s.key(runID), b, s.TTL).Err(); err != nil {
		return fmt.Errorf("save run meta: set run_id=%s: %w", runID, err)
	}

	return nil
}

// Fetch the snapshot stored under runID.
func (s *RedisRunMetaStore) LoadMeta(ctx context.Context, runID string) (_ map[string]any, _ bool, err error) {
	defer obs.Time(ctx, "run_meta.cache.LoadMeta")(&err)

	if s.Client == nil {
		return nil, false, errors.New("run meta cache: client is nil")
	}

	b, err := s.Client.Get(ctx, s.key(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load run meta: get run_id=%s: %w", runID, err)
	}

	var meta map[string]any
	if err := json.Unmarshal(b, &meta); err != nil {
		return nil, false, fmt.Errorf("load run meta: decode run_id=%s: %w", runID, err)
	}

	return meta, true, nil
}
