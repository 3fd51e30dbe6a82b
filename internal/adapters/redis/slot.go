package redisad

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"realty/internal/adapters/observability"
)

// Slot stores the catalog snapshot under a plain key with no expiry.
type Slot struct{ *Client }

func (r *Client) Slot() *Slot { return &Slot{r} }

func (r *Slot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveSlot("redis", "miss")
		return nil, false, nil
	}
	if err != nil {
		observability.ObserveSlot("redis", "error")
		return nil, false, err
	}
	observability.ObserveSlot("redis", "hit")
	return v, true, nil
}

func (r *Slot) Put(ctx context.Context, key string, val []byte) error {
	if err := r.c.Set(ctx, key, val, 0).Err(); err != nil {
		observability.ObserveSlot("redis", "error")
		return err
	}
	observability.ObserveSlot("redis", "put")
	return nil
}
