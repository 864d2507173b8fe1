// Package redis provides Redis-backed strain and preference stores for
// deployments that share a cache between scanner instances.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/store"
)

// Store implements store.StrainStore and store.PreferenceStore on Redis.
// Strains are stored as JSON strings, preferences as two sets.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Options configuration for the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "terpmatch:"
	TTL      time.Duration // Expiration for strain records, default 0 (no expiration)
}

var (
	_ store.StrainStore     = (*Store)(nil)
	_ store.PreferenceStore = (*Store)(nil)
)

// New creates a Redis store.
func New(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewFromClient(client, opts.Prefix, opts.TTL)
}

// NewFromClient wraps an existing Redis client. Useful for custom pool,
// cluster or sentinel configurations.
func NewFromClient(client *redis.Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "terpmatch:"
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) strainKey(name string) string {
	return fmt.Sprintf("%sstrain:%s", s.prefix, model.NormalizeName(name))
}

func (s *Store) indexKey() string { return s.prefix + "strains" }
func (s *Store) likedKey() string { return s.prefix + "liked" }
func (s *Store) dislikedKey() string {
	return s.prefix + "disliked"
}

func (s *Store) Get(ctx context.Context, name string) (*model.StrainData, error) {
	data, err := s.client.Get(ctx, s.strainKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load strain from redis: %w", err)
	}

	var strain model.StrainData
	if err := json.Unmarshal(data, &strain); err != nil {
		return nil, fmt.Errorf("failed to unmarshal strain: %w", err)
	}
	return &strain, nil
}

func (s *Store) Put(ctx context.Context, strain *model.StrainData) error {
	data, err := json.Marshal(strain)
	if err != nil {
		return fmt.Errorf("failed to marshal strain: %w", err)
	}

	key := model.NormalizeName(strain.Name)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.strainKey(key), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save strain to redis: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]model.StrainData, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list strains: %w", err)
	}
	if len(names) == 0 {
		return nil, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = s.strainKey(name)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch strains: %w", err)
	}

	strains := make([]model.StrainData, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // record expired, index entry is stale
		}
		var strain model.StrainData
		if err := json.Unmarshal([]byte(raw), &strain); err != nil {
			return nil, fmt.Errorf("failed to unmarshal strain: %w", err)
		}
		strains = append(strains, strain)
	}
	return strains, nil
}

func (s *Store) Like(ctx context.Context, name string) error {
	return s.move(ctx, name, s.dislikedKey(), s.likedKey())
}

func (s *Store) Dislike(ctx context.Context, name string) error {
	return s.move(ctx, name, s.likedKey(), s.dislikedKey())
}

func (s *Store) move(ctx context.Context, name, from, to string) error {
	key := model.NormalizeName(name)
	pipe := s.client.Pipeline()
	pipe.SRem(ctx, from, key)
	pipe.SAdd(ctx, to, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, name string) error {
	key := model.NormalizeName(name)
	pipe := s.client.Pipeline()
	pipe.SRem(ctx, s.likedKey(), key)
	pipe.SRem(ctx, s.dislikedKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear preference: %w", err)
	}
	return nil
}

func (s *Store) Liked(ctx context.Context) ([]string, error) {
	return s.members(ctx, s.likedKey())
}

func (s *Store) Disliked(ctx context.Context) ([]string, error) {
	return s.members(ctx, s.dislikedKey())
}

func (s *Store) members(ctx context.Context, key string) ([]string, error) {
	names, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	return names, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
