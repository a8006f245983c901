package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "stepwise:progress:"

// Store implements ports.ProgressStore using Redis.
// Records are JSON strings; a sorted set indexes profiles by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for progress records. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client, e.g. to build a Locker on it.
func (s *Store) Client() *backend.Client { return s.client }

// Prefix returns the key prefix in use.
func (s *Store) Prefix() string { return s.prefix }

func (s *Store) key(profile string) string {
	return s.prefix + profile
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the record and refreshes its index entry in one pipeline.
func (s *Store) Save(ctx context.Context, profile string, progress *domain.Progress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(profile), data, s.ttl)

	// Score = expiry time; records without TTL sort far in the future.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: profile,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the record and rehydrates the ID sets.
func (s *Store) Load(ctx context.Context, profile string) (*domain.Progress, error) {
	val, err := s.client.Get(ctx, s.key(profile)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	progress := domain.NewProgress()
	if err := json.Unmarshal([]byte(val), progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	progress.Normalize()
	return progress, nil
}

// Delete removes the record and its index entry.
func (s *Store) Delete(ctx context.Context, profile string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(profile))
	pipe.ZRem(ctx, s.indexKey(), profile)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List prunes expired index entries, then returns the remaining profiles.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired profiles: %w", err)
	}

	profiles, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
