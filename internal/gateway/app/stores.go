package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"backforge/internal/gateway/config"
	"backforge/internal/gateway/repository"
	"backforge/internal/gateway/repository/blob"
)

// initStore picks Postgres when DATABASE_URL is set, otherwise the
// in-memory store. The returned closer releases database resources.
func initStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.Store, func() error, error) {
	dsn := strings.TrimSpace(cfg.DatabaseURL)
	if dsn == "" {
		log.Info().Msg("repository: in-memory store")
		return repository.NewMemoryStore(), nil, nil
	}

	client, err := repository.Open(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	store := repository.NewEntStore(client)
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info().Msg("repository: postgres store")
	return store, store.Close, nil
}

// initBlobStore builds the optional S3 artifact mirror behind an LRU
// cache. Returns nil when the mirror is disabled.
func initBlobStore(cfg *config.Config, log zerolog.Logger) (blob.Store, error) {
	if !cfg.Blob.Enabled {
		return nil, nil
	}

	s3Store, err := blob.NewS3Store(blob.S3Config{
		Endpoint:  cfg.Blob.Endpoint,
		Region:    cfg.Blob.Region,
		AccessKey: cfg.Blob.AccessKey,
		SecretKey: cfg.Blob.SecretKey,
		Bucket:    cfg.Blob.Bucket,
		UseSSL:    cfg.Blob.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact mirror: %w", err)
	}
	cached, err := blob.NewCachedStore(s3Store, 0)
	if err != nil {
		return nil, err
	}
	log.Info().Str("bucket", cfg.Blob.Bucket).Str("endpoint", cfg.Blob.Endpoint).Msg("artifact mirror: s3")
	return cached, nil
}
