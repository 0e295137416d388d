package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/restaurant/storage-tracker/internal/core/domain"
)

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

func TestKeyValueStore_ErrorsAreWrapped(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	s := NewKeyValueStore(client, "")
	assert.Equal(t, defaultPrefix, s.prefix)

	_, err := s.Get(context.Background(), "restaurant-user")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrKeyNotFound)
	assert.Error(t, s.Set(context.Background(), "restaurant-user", []byte("{}")))
	assert.Error(t, s.Ping(context.Background()))
}
