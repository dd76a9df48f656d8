package repository

import (
	"context"
	"fmt"

	"vocab-quiz/internal/cache"
	"vocab-quiz/internal/domain"
)

// RedisVocabularyStore keeps the vocabulary in a Redis list.
type RedisVocabularyStore struct {
	cache domain.Cache
	key   string
}

var _ domain.VocabularyStore = (*RedisVocabularyStore)(nil)

func NewRedisVocabularyStore(c domain.Cache, profile string) *RedisVocabularyStore {
	return &RedisVocabularyStore{cache: c, key: cache.VocabularyKey(profile)}
}

func (s *RedisVocabularyStore) Load(ctx context.Context) ([]string, error) {
	words, err := s.cache.LRange(ctx, s.key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary from %s: %w", s.key, err)
	}
	if words == nil {
		words = []string{}
	}
	return words, nil
}

func (s *RedisVocabularyStore) Append(ctx context.Context, word string) error {
	if err := s.cache.RPush(ctx, s.key, word); err != nil {
		return fmt.Errorf("failed to append word %q to %s: %w", word, s.key, err)
	}
	return nil
}

// RedisDifficultyStore keeps the difficulty model in a Redis hash.
type RedisDifficultyStore struct {
	cache domain.Cache
	key   string
}

var _ domain.DifficultyStore = (*RedisDifficultyStore)(nil)

func NewRedisDifficultyStore(c domain.Cache, profile string) *RedisDifficultyStore {
	return &RedisDifficultyStore{cache: c, key: cache.DifficultyKey(profile)}
}

func (s *RedisDifficultyStore) Load(ctx context.Context) (domain.DifficultyModel, bool, error) {
	fields, err := s.cache.HGetAll(ctx, s.key)
	if err != nil {
		return domain.DifficultyModel{}, false, fmt.Errorf("failed to load difficulty from %s: %w", s.key, err)
	}
	if len(fields) == 0 {
		return domain.DifficultyModel{}, false, nil
	}
	model, err := decodeDifficulty(fields)
	if err != nil {
		return domain.DifficultyModel{}, false, fmt.Errorf("difficulty hash %s: %w", s.key, err)
	}
	return model, true, nil
}

func (s *RedisDifficultyStore) Save(ctx context.Context, model domain.DifficultyModel) error {
	fields := make(map[string]string, 2)
	for _, kv := range encodeDifficulty(model) {
		fields[kv[0]] = kv[1]
	}
	if err := s.cache.HSet(ctx, s.key, fields); err != nil {
		return fmt.Errorf("failed to save difficulty to %s: %w", s.key, err)
	}
	return nil
}
