// Package testutil holds helpers shared by unit and integration tests.
package testutil

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rolodex/rolodex/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

var seq atomic.Uint64

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return UniqueID(prefix) + "@example.com"
}

// Now returns the current UTC time at millisecond precision, which every
// store backend round-trips exactly.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB) *model.User {
	t.Helper()
	return &model.User{
		ID:           ulid.Make().String(),
		Username:     UniqueID("user"),
		Email:        UniqueEmail("user"),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuuZ8Zl2mQm2oTQ4dG8cQn6a1Y8fPZq6yK",
		CreatedAt:    Now(),
	}
}

// NewTestContact creates a Lead contact owned by ownerID.
func NewTestContact(t testing.TB, ownerID string) *model.Contact {
	t.Helper()
	now := Now()
	return &model.Contact{
		ID:        ulid.Make().String(),
		Name:      "Test Contact",
		Email:     UniqueEmail("contact"),
		Phone:     "+1-555-0100",
		Status:    model.ContactStatusLead,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestContactWithStatus creates a test contact with a specific status.
func NewTestContactWithStatus(t testing.TB, ownerID string, status model.ContactStatus) *model.Contact {
	t.Helper()
	c := NewTestContact(t, ownerID)
	c.Status = status
	return c
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
