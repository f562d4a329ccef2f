package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
)

// Delivery is what travels between instances: a room plus an optional user whose
// current session should also receive Payload.
type Delivery struct {
	Room         string          `json:"room"`
	DirectUserID uint            `json:"direct_user_id,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

// Bus fans deliveries out to every API instance.
type Bus interface {
	Publish(ctx context.Context, d Delivery) error
	StartForwarder(ctx context.Context, onMsg func(Delivery)) error
	Close() error
}

type RedisBus struct {
	rdb     *goredis.Client
	channel string
}

// NewRedisBus connects to redisURL (redis://...) and verifies the connection.
func NewRedisBus(ctx context.Context, redisURL, channel string) (*RedisBus, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis bus: parse url: %w", err)
	}
	opt.DialTimeout = 5 * time.Second

	rdb := goredis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis bus: ping: %w", err)
	}
	return &RedisBus{rdb: rdb, channel: channel}, nil
}

func (b *RedisBus) Publish(ctx context.Context, d Delivery) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes and calls onMsg for every delivery until ctx is done.
func (b *RedisBus) StartForwarder(ctx context.Context, onMsg func(Delivery)) error {
	if onMsg == nil {
		return fmt.Errorf("redis bus: onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis bus: subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var d Delivery
				if err := json.Unmarshal([]byte(m.Payload), &d); err != nil {
					logger.Warn("bad realtime bus payload", "error", err)
					continue
				}
				onMsg(d)
			}
		}
	}()
	return nil
}

func (b *RedisBus) Close() error {
	return b.rdb.Close()
}
