package repository

import (
	"context"
	"fmt"

	"vocab-quiz/internal/adapter"
	"vocab-quiz/internal/cache"
	"vocab-quiz/internal/config"
	"vocab-quiz/internal/database"
	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/logger"

	"go.uber.org/zap"
)

const (
	BackendFile  = "file"
	BackendSQL   = "sql"
	BackendRedis = "redis"
)

// Stores bundles the persistence ports of one backend. Close releases the
// underlying connection, if any. Ping is nil for backends without one.
type Stores struct {
	Vocabulary domain.VocabularyStore
	Difficulty domain.DifficultyStore
	// Cache is set for the redis backend.
	Cache domain.Cache
	Ping  func(ctx context.Context) error
	Close func() error
}

// NewStores opens the backend selected by cfg.Backend. The SQL backend is
// migrated before use.
func NewStores(ctx context.Context, cfg config.StoreConfig, redisCfg config.RedisConfig) (*Stores, error) {
	l := logger.Get().With(zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case BackendFile:
		l.Info("Using file stores", zap.String("vocab_file", cfg.VocabFile), zap.String("difficulty_file", cfg.DifficultyFile))
		return &Stores{
			Vocabulary: NewFileVocabularyStore(cfg.VocabFile),
			Difficulty: NewFileDifficultyStore(cfg.DifficultyFile),
			Close:      func() error { return nil },
		}, nil

	case BackendSQL:
		db, err := database.NewSQLXDB(cfg.SQL)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db, cfg.SQL.Driver); err != nil {
			db.Close()
			return nil, err
		}
		l.Info("Using SQL stores", zap.String("driver", cfg.SQL.Driver))
		return &Stores{
			Vocabulary: NewSQLVocabularyStore(db),
			Difficulty: NewSQLDifficultyStore(db),
			Ping:       db.PingContext,
			Close:      db.Close,
		}, nil

	case BackendRedis:
		client, err := cache.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		c := adapter.NewRedisCacheAdapter(client)
		l.Info("Using Redis stores", zap.String("address", redisCfg.Address))
		return &Stores{
			Vocabulary: NewRedisVocabularyStore(c, cache.DefaultProfile),
			Difficulty: NewRedisDifficultyStore(c, cache.DefaultProfile),
			Cache:      c,
			Ping:       c.Ping,
			Close:      client.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported store backend: %q", cfg.Backend)
}
