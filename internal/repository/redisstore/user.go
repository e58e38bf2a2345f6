package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rolodex/rolodex/internal/model"
	"github.com/rolodex/rolodex/internal/repository"
)

// CreateUser claims the email and username indexes with SETNX and then
// writes the user hash. A failed claim releases whatever was already taken.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	emailKey := s.emailKey(user.Email)
	usernameKey := s.usernameKey(user.Username)

	ok, err := s.client.SetNX(ctx, emailKey, user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve email: %w", err)
	}
	if !ok {
		return repository.ErrUserExists
	}

	ok, err = s.client.SetNX(ctx, usernameKey, user.ID, 0).Result()
	if err != nil || !ok {
		s.release(ctx, emailKey, user.ID)
		if err != nil {
			return fmt.Errorf("failed to reserve username: %w", err)
		}
		return repository.ErrUserExists
	}

	err = s.client.HSet(ctx, s.userKey(user.ID), map[string]any{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"created_at":    user.CreatedAt.UTC().Format(time.RFC3339Nano),
	}).Err()
	if err != nil {
		s.release(ctx, emailKey, user.ID)
		s.release(ctx, usernameKey, user.ID)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail resolves the email index and loads the user.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	id, err := s.client.Get(ctx, s.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return s.GetUserByID(ctx, id)
}

// GetUserByID loads a user hash.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	fields, err := s.client.HGetAll(ctx, s.userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	if len(fields) == 0 {
		return nil, repository.ErrUserNotFound
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse user created_at: %w", err)
	}

	return &model.User{
		ID:           fields["id"],
		Username:     fields["username"],
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		CreatedAt:    createdAt.UTC(),
	}, nil
}

// release deletes key only while it still points at id.
func (s *Store) release(ctx context.Context, key, id string) {
	_ = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Result()
		if err != nil || current != id {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
}
