package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each record as a JSON string under prefix+"doc:"+id and
// tracks the IDs in the set prefix+"docs".
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisConfig holds the connection settings of a RedisStore.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// DefaultRedisPrefix namespaces keys when RedisConfig.Prefix is empty.
const DefaultRedisPrefix = "graphcanvas:"

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreWithClient(client, cfg.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(id string) string { return s.prefix + "doc:" + id }
func (s *RedisStore) index() string        { return s.prefix + "docs" }

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse document %s: %w", id, err)
	}
	return &rec, nil
}

func (s *RedisStore) Put(ctx context.Context, rec *Record) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}
	stamped := stamp(rec)
	data, err := json.Marshal(stamped)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(rec.ID), data, 0)
		pipe.SAdd(ctx, s.index(), rec.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put: %w", err)
	}
	rec.UpdatedAt = stamped.UpdatedAt
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.key(id))
		pipe.SRem(ctx, s.index(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	ids, err := s.client.SMembers(ctx, s.index()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	infos := make([]Info, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var rec Record
		if json.Unmarshal([]byte(str), &rec) != nil {
			continue
		}
		infos = append(infos, rec.info())
	}
	sortInfos(infos)
	return infos, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
