package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator отмечает обработанные callback query. Telegram может
// доставить одно нажатие повторно, и второе событие не должно менять состояние.
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a new Redis client
func New(addr, password string, db int, ttl time.Duration) *Deduplicator {
	return &Deduplicator{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			PoolSize:     20,
			MinIdleConns: 2,
		}),
		ttl: ttl,
	}
}

// Ping проверяет соединение
func (d *Deduplicator) Ping(ctx context.Context) error {
	if err := d.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// FirstSeen возвращает true, если callback с таким ID ещё не обрабатывался
func (d *Deduplicator) FirstSeen(ctx context.Context, callbackID string) (bool, error) {
	ok, err := d.client.SetNX(ctx, buildCallbackKey(callbackID), 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark callback %s: %w", callbackID, err)
	}
	return ok, nil
}

// Close closes the Redis connection
func (d *Deduplicator) Close() {
	if d.client != nil {
		_ = d.client.Close()
	}
}

func buildCallbackKey(callbackID string) string {
	return "callback:" + callbackID
}
