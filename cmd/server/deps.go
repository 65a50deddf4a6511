package main

import (
	"context"

	"github.com/anonto42/yatube/pkg/cache"
	"github.com/anonto42/yatube/pkg/config"
	"github.com/anonto42/yatube/pkg/storage"
)

// openPageCache connects to the configured page cache backend
func openPageCache(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	if cfg.CacheBackend == config.CacheRedis {
		store, err := cache.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return cache.NewMemoryStore(cfg.IndexCacheTTL), func() {}, nil
}

// openMediaStorage returns the upload storage and, for local storage, the
// directory to serve media from
func openMediaStorage(ctx context.Context, cfg *config.Config) (storage.Storage, string, error) {
	if cfg.StorageBackend == config.StorageS3 {
		s, err := storage.NewS3Storage(ctx, storage.S3Options{
			Bucket:          cfg.AWSBucket,
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		return s, "", err
	}
	s, err := storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		return nil, "", err
	}
	return s, s.Root(), nil
}
