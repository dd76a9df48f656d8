package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectPing().SetVal("PONG")
		err := adapter.Ping(ctx)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectPing().SetErr(redisErr)
		err := adapter.Ping(ctx)
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_HGetAll(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	key := "vocabquiz:difficulty:model:default"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectHGetAll(key).SetVal(map[string]string{"mean": "500", "variance": "1000"})
		val, err := adapter.HGetAll(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, map[string]string{"mean": "500", "variance": "1000"}, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingKey", func(t *testing.T) {
		mock.ExpectHGetAll(key).SetVal(map[string]string{})
		val, err := adapter.HGetAll(ctx, key)
		assert.NoError(t, err)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectHGetAll(key).SetErr(redisErr)
		_, err := adapter.HGetAll(ctx, key)
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_HSet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	key := "vocabquiz:difficulty:model:default"

	t.Run("SortedFields", func(t *testing.T) {
		mock.ExpectHSet(key, "mean", "600", "variance", "1000").SetVal(2)
		err := adapter.HSet(ctx, key, map[string]string{"variance": "1000", "mean": "600"})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyIsNoop", func(t *testing.T) {
		err := adapter.HSet(ctx, key, nil)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectHSet(key, "mean", "600").SetErr(redisErr)
		err := adapter.HSet(ctx, key, map[string]string{"mean": "600"})
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Lists(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	key := "vocabquiz:vocabulary:words:default"

	t.Run("RPush", func(t *testing.T) {
		mock.ExpectRPush(key, "猫", "犬").SetVal(2)
		err := adapter.RPush(ctx, key, "猫", "犬")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LRange", func(t *testing.T) {
		mock.ExpectLRange(key, 0, -1).SetVal([]string{"猫", "犬"})
		val, err := adapter.LRange(ctx, key, 0, -1)
		assert.NoError(t, err)
		assert.Equal(t, []string{"猫", "犬"}, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LRangeError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectLRange(key, 0, -1).SetErr(redisErr)
		_, err := adapter.LRange(ctx, key, 0, -1)
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
