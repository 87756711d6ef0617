package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProjectListCache keeps each user's project list in redis for a short TTL.
// Every project write for that user invalidates the entry. A nil cache is
// valid and turns every call into a no-op, so the API runs without redis.
type ProjectListCache struct {
	rdb *redis.Client
	ttl time.Duration
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config, ttl time.Duration) *ProjectListCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &ProjectListCache{rdb: rdb, ttl: ttl}
}

// this ping function checks redis connectivity

func (c *ProjectListCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *ProjectListCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func listKey(ownerID string) string {
	return "projects:list:v1:owner=" + ownerID
}

// Get unmarshals the cached list into out. The bool reports a hit. Cache
// failures read as misses, the store stays the source of truth.
func (c *ProjectListCache) Get(ctx context.Context, ownerID string, out interface{}) bool {
	if c == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, listKey(ownerID)).Bytes()

	if err != nil {
		return false
	}

	if json.Unmarshal(raw, out) != nil {
		return false
	}

	return true
}

func (c *ProjectListCache) Set(ctx context.Context, ownerID string, val interface{}) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(val)

	if err != nil {
		return
	}

	_ = c.rdb.Set(ctx, listKey(ownerID), raw, c.ttl).Err()
}

func (c *ProjectListCache) Invalidate(ctx context.Context, ownerID string) {
	if c == nil {
		return
	}

	// best effort, the TTL bounds staleness anyway
	_ = c.rdb.Del(ctx, listKey(ownerID)).Err()
}
