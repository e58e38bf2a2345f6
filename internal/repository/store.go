package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rolodex/rolodex/internal/model"
)

// Common errors shared by every store implementation.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("username or email already exists")
	ErrContactNotFound = errors.New("contact not found")
)

// UserStore persists credentials. Username and email are each unique.
type UserStore interface {
	// CreateUser inserts user or returns ErrUserExists.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// ContactStore persists contacts. Every lookup and mutation is keyed by both
// contact id and owner id; a contact owned by someone else is reported as
// ErrContactNotFound.
type ContactStore interface {
	CreateContact(ctx context.Context, contact *model.Contact) error
	// ListContactsByOwner returns the owner's contacts, newest first.
	ListContactsByOwner(ctx context.Context, ownerID string) ([]*model.Contact, error)
	GetContact(ctx context.Context, id, ownerID string) (*model.Contact, error)
	// UpdateContact applies patch and moves updated_at forward to updatedAt
	// (never backwards), returning the stored result.
	UpdateContact(ctx context.Context, id, ownerID string, patch model.ContactPatch, updatedAt time.Time) (*model.Contact, error)
	DeleteContact(ctx context.Context, id, ownerID string) error
	CountContacts(ctx context.Context, ownerID string) (int64, error)
	CountContactsByStatus(ctx context.Context, ownerID string, status model.ContactStatus) (int64, error)
}

// Store is a complete persistence backend.
type Store interface {
	UserStore
	ContactStore
	Ping(ctx context.Context) error
	Close() error
}

// LaterOf returns the later of two timestamps. Stores use it so updated_at
// never moves backwards when clocks disagree.
func LaterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
