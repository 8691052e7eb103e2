// Package redisstore serves Redis string values as pages.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/djdv/go-pagecache"
)

type (
	// Client is the subset of [redis.Cmdable] used by [Store].
	Client interface {
		Get(ctx context.Context, key string) *redis.StringCmd
		Exists(ctx context.Context, keys ...string) *redis.IntCmd
	}

	// Store fetches pages stored under prefix+key.
	Store struct {
		client  Client
		prefix  string
		timeout time.Duration
	}
)

// DefaultTimeout bounds each command issued by a [Store].
const DefaultTimeout = 5 * time.Second

// New creates a [Store]. A non-positive timeout disables the deadline.
func New(client Client, prefix string, timeout time.Duration) (*Store, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &Store{
		client:  client,
		prefix:  prefix,
		timeout: timeout,
	}, nil
}

// Contains reports if the key exists.
// Any command failure is reported as absence.
func (s *Store) Contains(key string) bool {
	ctx, cancel := s.context()
	defer cancel()
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	return err == nil && n > 0
}

// Page returns the value stored for key.
func (s *Store) Page(key string) ([]byte, error) {
	ctx, cancel := s.context()
	defer cancel()
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, pagecache.NotFound(key)
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) context() (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), s.timeout)
}
