package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "conceptcard:"

// Redis keeps the history in a Redis list so it survives restarts and is
// shared between server instances.
type Redis struct {
	client *redis.Client
	key    string
	size   int
	ttl    time.Duration
}

// RedisConfig holds configuration for the Redis history.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379/0")
	KeyPrefix string // Prefix for all keys (default: "conceptcard:")
	Size      int    // Concepts kept (default: DefaultSize)
	TTL       int    // Expiry of the list in seconds, refreshed on every Add (0 = none)
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &HistoryError{Op: "connect", Err: err}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &HistoryError{Op: "connect", Err: err}
	}

	r := NewRedisFromClient(client, cfg.KeyPrefix, cfg.Size)
	if cfg.TTL > 0 {
		r.ttl = time.Duration(cfg.TTL) * time.Second
	}
	return r, nil
}

// NewRedisFromClient creates a Redis history from an existing client.
func NewRedisFromClient(client *redis.Client, keyPrefix string, size int) *Redis {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &Redis{
		client: client,
		key:    keyPrefix + "history",
		size:   normalizeSize(size),
	}
}

// maxAddAttempts bounds how often Add retries after a concurrent writer
// touched the list between the read and the write.
const maxAddAttempts = 3

// Add records a concept. Blank concepts are ignored. The read of existing
// entries and the rewrite run under WATCH, so concurrent adds of case
// variants cannot both survive.
func (r *Redis) Add(ctx context.Context, concept string) error {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return nil
	}

	update := func(tx *redis.Tx) error {
		existing, err := tx.LRange(ctx, r.key, 0, -1).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, c := range existing {
				if strings.EqualFold(c, concept) {
					pipe.LRem(ctx, r.key, 0, c)
				}
			}
			pipe.LPush(ctx, r.key, concept)
			pipe.LTrim(ctx, r.key, 0, int64(r.size-1))
			if r.ttl > 0 {
				pipe.Expire(ctx, r.key, r.ttl)
			}
			return nil
		})
		return err
	}

	var err error
	for range maxAddAttempts {
		err = r.client.Watch(ctx, update, r.key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return &HistoryError{Op: "add", Err: err}
	}
	return nil
}

// List returns the recorded concepts, newest first.
func (r *Redis) List(ctx context.Context) ([]string, error) {
	items, err := r.client.LRange(ctx, r.key, 0, int64(r.size-1)).Result()
	if err == redis.Nil {
		return []string{}, nil
	}
	if err != nil {
		return nil, &HistoryError{Op: "list", Err: err}
	}
	return items, nil
}

// Clear removes all concepts.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return &HistoryError{Op: "clear", Err: err}
	}
	return nil
}

// Ping tests the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Store = (*Redis)(nil)
