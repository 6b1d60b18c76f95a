package logport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
	"github.com/NaveedAshraf1/admin-phone-secure/pkg/logger"
)

// RedisPort stores channel records in a Redis hash and signals
// mutations over pub/sub, so notifications reach subscribers in other
// processes too (the agent may write through a separate deployment).
type RedisPort struct {
	rdb *redis.Client
}

// NewRedisPort connects to Redis and verifies the connection.
func NewRedisPort(addr string, db int) (*RedisPort, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return &RedisPort{rdb: rdb}, nil
}

func recordsKey(channel string) string {
	return fmt.Sprintf("console:%s:records", channel)
}

func eventsKey(channel string) string {
	return fmt.Sprintf("console:%s:events", channel)
}

func (p *RedisPort) Close() error {
	if p == nil || p.rdb == nil {
		return errors.New("port is closed")
	}
	err := p.rdb.Close()
	p.rdb = nil
	return err
}

func (p *RedisPort) Append(ctx context.Context, channel string, rec models.Record) (string, error) {
	if p == nil || p.rdb == nil {
		return "", errors.New("port is closed")
	}

	key := uuid.NewString()
	rec.Key = key
	if err := p.store(ctx, channel, key, rec); err != nil {
		return "", err
	}
	return key, nil
}

func (p *RedisPort) Write(ctx context.Context, channel, key string, rec models.Record) error {
	if p == nil || p.rdb == nil {
		return errors.New("port is closed")
	}
	if key == "" {
		return ErrNotFound
	}

	exists, err := p.rdb.HExists(ctx, recordsKey(channel), key).Result()
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	if rec.Key == "" {
		rec.Key = key
	}
	return p.store(ctx, channel, key, rec)
}

func (p *RedisPort) store(ctx context.Context, channel, key string, rec models.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := p.rdb.HSet(ctx, recordsKey(channel), key, payload).Err(); err != nil {
		return err
	}
	// The published payload is only a wake-up; subscribers re-read the
	// full snapshot so they never act on a stale diff.
	return p.rdb.Publish(ctx, eventsKey(channel), key).Err()
}

func (p *RedisPort) Snapshot(ctx context.Context, channel string) (map[string]models.Record, error) {
	if p == nil || p.rdb == nil {
		return nil, errors.New("port is closed")
	}

	raw, err := p.rdb.HGetAll(ctx, recordsKey(channel)).Result()
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]models.Record, len(raw))
	for slot, payload := range raw {
		var rec models.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			logger.Warn("Skipping undecodable record",
				zap.String("channel", channel),
				zap.String("slot", slot),
				zap.Error(err),
			)
			continue
		}
		snapshot[slot] = rec
	}
	return snapshot, nil
}

// Subscribe delivers the current snapshot immediately, then re-reads
// and redelivers after every published mutation until unsubscribed.
func (p *RedisPort) Subscribe(channel string, onChange OnChange) (func(), error) {
	if p == nil || p.rdb == nil {
		return nil, errors.New("port is closed")
	}

	ctx, cancel := context.WithCancel(context.Background())

	snapshot, err := p.Snapshot(ctx, channel)
	if err != nil {
		cancel()
		return nil, err
	}

	pubsub := p.rdb.Subscribe(ctx, eventsKey(channel))
	onChange(snapshot)

	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				snap, err := p.Snapshot(ctx, channel)
				if err != nil {
					logger.Warn("Failed to refresh snapshot",
						zap.String("channel", channel),
						zap.Error(err),
					)
					continue
				}
				onChange(snap)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			if err := pubsub.Close(); err != nil {
				logger.Warn("Failed to close pubsub", zap.Error(err))
			}
		})
	}, nil
}
