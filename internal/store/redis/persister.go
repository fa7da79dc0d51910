// Package redis persists state records as JSON blobs in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Persister stores each record under curator:state:<key> without expiry.
type Persister struct {
	client *redis.Client
}

func NewPersister(client *redis.Client) *Persister {
	return &Persister{client: client}
}

func (p *Persister) Load(ctx context.Context, key string, v any) (bool, error) {
	data, err := p.client.Get(ctx, StateKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s record: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("failed to unmarshal %s record: %w", key, err)
	}
	return true, nil
}

func (p *Persister) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", key, err)
	}

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, StateKey(key), data, 0)
	pipe.SAdd(ctx, KeyAllStates, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save %s record: %w", key, err)
	}
	return nil
}

// Keys lists every record key saved so far.
func (p *Persister) Keys(ctx context.Context) ([]string, error) {
	keys, err := p.client.SMembers(ctx, KeyAllStates).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list state keys: %w", err)
	}
	return keys, nil
}

// Ping reports whether Redis answers.
func (p *Persister) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
