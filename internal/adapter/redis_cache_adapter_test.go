package adapter

import (
	"context"
	"testing"
	"time"

	"quran-coach/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCacheAdapter_GetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectGet("key").SetVal("value")

	val, err := cache.Get(context.Background(), "key")

	assert.NoError(t, err)
	assert.Equal(t, "value", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_GetMissIsCacheMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectGet("absent").RedisNil()

	_, err := cache.Get(context.Background(), "absent")

	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectSet("key", "value", 5*time.Minute).SetVal("OK")

	err := cache.Set(context.Background(), "key", "value", 5*time.Minute)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectDel("key").SetVal(1)

	err := cache.Delete(context.Background(), "key")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
