// Package memory provides a process-local Store for development and tests.
// Data is lost when the process exits.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rolodex/rolodex/internal/model"
	"github.com/rolodex/rolodex/internal/repository"
)

// Store keeps users and contacts in maps guarded by a single RWMutex.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*model.User
	byEmail    map[string]string
	byUsername map[string]string
	contacts   map[string]*model.Contact
}

var _ repository.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:      make(map[string]*model.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
		contacts:   make(map[string]*model.Contact),
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return repository.ErrUserExists
	}
	if _, ok := s.byUsername[user.Username]; ok {
		return repository.ErrUserExists
	}

	u := *user
	s.users[u.ID] = &u
	s.byEmail[u.Email] = u.ID
	s.byUsername[u.Username] = u.ID
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) CreateContact(ctx context.Context, contact *model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contacts[contact.ID] = contact.Clone()
	return nil
}

func (s *Store) ListContactsByOwner(ctx context.Context, ownerID string) ([]*model.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Contact, 0)
	for _, c := range s.contacts {
		if c.OwnerID == ownerID {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) GetContact(ctx context.Context, id, ownerID string) (*model.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.owned(id, ownerID)
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	return c.Clone(), nil
}

func (s *Store) UpdateContact(ctx context.Context, id, ownerID string, patch model.ContactPatch, updatedAt time.Time) (*model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.owned(id, ownerID)
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	patch.Apply(c)
	c.UpdatedAt = repository.LaterOf(c.UpdatedAt, updatedAt)
	return c.Clone(), nil
}

func (s *Store) DeleteContact(ctx context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.owned(id, ownerID); !ok {
		return repository.ErrContactNotFound
	}
	delete(s.contacts, id)
	return nil
}

func (s *Store) CountContacts(ctx context.Context, ownerID string) (int64, error) {
	return s.count(ownerID, func(*model.Contact) bool { return true }), nil
}

func (s *Store) CountContactsByStatus(ctx context.Context, ownerID string, status model.ContactStatus) (int64, error) {
	return s.count(ownerID, func(c *model.Contact) bool { return c.Status == status }), nil
}

func (s *Store) count(ownerID string, match func(*model.Contact) bool) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, c := range s.contacts {
		if c.OwnerID == ownerID && match(c) {
			n++
		}
	}
	return n
}

// owned must be called with s.mu held.
func (s *Store) owned(id, ownerID string) (*model.Contact, bool) {
	c, ok := s.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return nil, false
	}
	return c, true
}
