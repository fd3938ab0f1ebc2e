// Package cache provides tag-scoped invalidation for the public menu pages.
//
// The web tier registers the cache keys it writes under tag sets
// (cache:tag:<tag>); invalidating a tag deletes those keys and the set, and
// path revalidations are published on a channel the web tier subscribes to.
// Both operations are idempotent and safe to call when nothing changed.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tagPrefix         = "cache:tag:"
	RevalidateChannel = "menucraft:revalidate"
)

// Tag builders shared by the service layer and the web tier.

func MenuTag(menuID string) string    { return "menu-" + menuID }
func MenusTag(orgID string) string    { return "menus-" + orgID }
func SubdomainTag(slug string) string { return "subdomain-" + slug }

type Invalidator interface {
	InvalidateTags(ctx context.Context, tags ...string) error
	RevalidatePath(ctx context.Context, path string) error
}

// RedisInvalidator implements Invalidator against Redis.
type RedisInvalidator struct {
	client *redis.Client
}

func NewRedisInvalidator(redisURL string) (*RedisInvalidator, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisInvalidator{client: client}, nil
}

// NewRedisInvalidatorWithClient wraps an existing client (tests).
func NewRedisInvalidatorWithClient(client *redis.Client) *RedisInvalidator {
	return &RedisInvalidator{client: client}
}

// InvalidateTags deletes every cache key registered under each tag, then the
// tag set itself. Unknown tags are a no-op.
func (r *RedisInvalidator) InvalidateTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		setKey := tagPrefix + tag
		keys, err := r.client.SMembers(ctx, setKey).Result()
		if err != nil {
			return fmt.Errorf("read tag %s: %w", tag, err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete keys for tag %s: %w", tag, err)
			}
		}
		if err := r.client.Del(ctx, setKey).Err(); err != nil {
			return fmt.Errorf("delete tag %s: %w", tag, err)
		}
	}
	return nil
}

// RevalidatePath tells the web tier to re-render a public path.
func (r *RedisInvalidator) RevalidatePath(ctx context.Context, path string) error {
	if err := r.client.Publish(ctx, RevalidateChannel, path).Err(); err != nil {
		return fmt.Errorf("publish revalidate %s: %w", path, err)
	}
	return nil
}

func (r *RedisInvalidator) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisInvalidator) Close() error {
	return r.client.Close()
}

// Noop backs redis-less deployments and tests.
type Noop struct{}

func (Noop) InvalidateTags(context.Context, ...string) error { return nil }
func (Noop) RevalidatePath(context.Context, string) error    { return nil }
