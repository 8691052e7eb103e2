package sim

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	"github.com/djdv/go-pagecache"
	"github.com/djdv/go-pagecache/store"
	"github.com/djdv/go-pagecache/store/filesystem"
	"github.com/djdv/go-pagecache/store/redisstore"
	"github.com/djdv/go-pagecache/store/s3store"
)

type (
	// Backing is the store every simulated cache reads from.
	Backing = pagecache.Store[int, []byte]

	// tracingStore logs each fetch at debug level.
	tracingStore[Key comparable, Page any] struct {
		pagecache.Store[Key, Page]
		logger *slog.Logger
	}
)

// OpenStore connects to the store described by config.
// The returned function releases any resources it holds
// and must be called once the store is no longer used.
func OpenStore(ctx context.Context, config StoreConfig, logger *slog.Logger) (Backing, func() error, error) {
	if err := config.validate(); err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var (
		backing Backing
		closer  func() error
	)
	rekey := func(inner pagecache.Store[string, []byte]) Backing {
		return store.Rekey[int, string, []byte]{
			Store:   inner,
			Convert: keyFormatter(config.KeyFormat),
		}
	}
	switch config.Kind {
	case StoreSynthetic:
		backing, closer = store.Synthetic{}, func() error { return nil }
	case StoreFilesystem:
		files, err := filesystem.Open(config.Root)
		if err != nil {
			return nil, nil, err
		}
		backing, closer = rekey(files), files.Close
	case StoreS3:
		awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		objects, err := s3store.New(
			s3.NewFromConfig(awsConfig), config.Bucket,
			s3store.WithPrefix(config.Prefix),
			s3store.WithTimeout(config.Timeout),
		)
		if err != nil {
			return nil, nil, err
		}
		backing, closer = rekey(objects), func() error { return nil }
	case StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: config.Address})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", config.Address, err)
		}
		values, err := redisstore.New(client, config.Prefix, config.Timeout)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		backing, closer = rekey(values), client.Close
	}
	if config.Latency > 0 {
		backing = store.Latency[int, []byte]{Store: backing, Delay: config.Latency}
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		backing = tracingStore[int, []byte]{Store: backing, logger: logger}
	}
	logger.InfoContext(ctx, "store opened",
		"kind", config.Kind,
		"latency", config.Latency)
	return backing, closer, nil
}

func keyFormatter(format string) func(int) string {
	return func(key int) string { return fmt.Sprintf(format, key) }
}

func (t tracingStore[Key, Page]) Page(key Key) (Page, error) {
	page, err := t.Store.Page(key)
	if err != nil {
		t.logger.Debug("page fetch failed", "key", key, "error", err)
		return page, err
	}
	t.logger.Debug("page fetched", "key", key)
	return page, nil
}
