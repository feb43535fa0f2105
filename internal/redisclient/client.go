package redisclient

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"store-admin/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

//go:embed scripts/release_lock.lua
var releaseLockScript string

// ErrLockNotHeld is returned when a lock is released by someone who does not own it.
var ErrLockNotHeld = errors.New("lock not held")

type Client struct {
	rdb           *redis.Client
	releaseScript *redis.Script
}

// NewClient creates a new Redis client and checks the connection
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewFromRedis(rdb), nil
}

// NewFromRedis wraps an existing go-redis client
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{
		rdb:           rdb,
		releaseScript: redis.NewScript(releaseLockScript),
	}
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// TokenDigest is the form under which a bot token appears in redis keys
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func botTokenKey(token string) string {
	return fmt.Sprintf("bot_token:%s", TokenDigest(token))
}

// CacheBotToken stores the token -> store mapping used by the webhook endpoint
func (c *Client) CacheBotToken(ctx context.Context, bt *models.BotToken, ttl time.Duration) error {
	data, err := json.Marshal(bt)
	if err != nil {
		return fmt.Errorf("failed to marshal bot token: %w", err)
	}
	return c.rdb.Set(ctx, botTokenKey(bt.TokenBot), data, ttl).Err()
}

// GetBotToken returns the cached mapping, or nil on a cache miss
func (c *Client) GetBotToken(ctx context.Context, token string) (*models.BotToken, error) {
	data, err := c.rdb.Get(ctx, botTokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var bt models.BotToken
	if err := json.Unmarshal(data, &bt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot token: %w", err)
	}
	return &bt, nil
}

// EvictBotToken drops a cached mapping
func (c *Client) EvictBotToken(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, botTokenKey(token)).Err()
}

func idempotencyKey(scope, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", scope, key)
}

// SetIdempotencyKey records the id a request produced, scoped to a tenant
func (c *Client) SetIdempotencyKey(ctx context.Context, scope, key string, id int64, ttl time.Duration) error {
	return c.rdb.Set(ctx, idempotencyKey(scope, key), id, ttl).Err()
}

// GetIdempotencyKey returns the id recorded for key and whether it exists
func (c *Client) GetIdempotencyKey(ctx context.Context, scope, key string) (int64, bool, error) {
	val, err := c.rdb.Get(ctx, idempotencyKey(scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt idempotency value %q: %w", val, err)
	}
	return id, true, nil
}

// Lock is a held distributed lock
type Lock struct {
	key   string
	owner string
}

// AcquireLock takes lockKey for ttl. It returns nil without error when someone else holds it.
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (*Lock, error) {
	lock := &Lock{key: fmt.Sprintf("lock:%s", lockKey), owner: uuid.New().String()}
	ok, err := c.rdb.SetNX(ctx, lock.key, lock.owner, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return lock, nil
}

// ReleaseLock releases a lock only if it is still owned by the caller
func (c *Client) ReleaseLock(ctx context.Context, lock *Lock) error {
	n, err := c.releaseScript.Run(ctx, c.rdb, []string{lock.key}, lock.owner).Int64()
	if err != nil {
		return fmt.Errorf("release lock script failed: %w", err)
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}
