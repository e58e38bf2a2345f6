// Package redisstore implements repository.Store on Redis.
//
// Key layout (all keys carry the configured prefix):
//
//	user:<id>                          hash of user fields
//	user:email:<email>                 user id (unique index)
//	user:username:<username>           user id (unique index)
//	contact:<id>                       JSON contact document
//	contacts:<owner>                   ZSET of contact ids scored by created_at (unix ms)
//	contacts:<owner>:status:<status>   SET of contact ids per status
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rolodex/rolodex/internal/repository"
)

// DefaultKeyPrefix namespaces every key written by the store.
const DefaultKeyPrefix = "rolodex:"

// maxTxRetries bounds optimistic-lock retries for read-modify-write updates.
const maxTxRetries = 5

// Store is a Redis-backed repository.Store.
type Store struct {
	client *redis.Client
	prefix string
}

var _ repository.Store = (*Store)(nil)

// New connects to redisURL and verifies the connection.
func New(ctx context.Context, redisURL, keyPrefix string) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewWithClient(client, keyPrefix), nil
}

// NewWithClient wraps an existing client. An empty prefix selects DefaultKeyPrefix.
func NewWithClient(client *redis.Client, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: keyPrefix}
}

// Ping checks Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) userKey(id string) string {
	return s.prefix + "user:" + id
}

func (s *Store) emailKey(email string) string {
	return s.prefix + "user:email:" + email
}

func (s *Store) usernameKey(username string) string {
	return s.prefix + "user:username:" + username
}

func (s *Store) contactKey(id string) string {
	return s.prefix + "contact:" + id
}

func (s *Store) ownerKey(ownerID string) string {
	return s.prefix + "contacts:" + ownerID
}

func (s *Store) statusKey(ownerID, status string) string {
	return s.prefix + "contacts:" + ownerID + ":status:" + status
}
