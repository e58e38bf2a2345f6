// Package repotest is a behavioural test suite every repository.Store
// implementation must pass.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolodex/rolodex/internal/model"
	"github.com/rolodex/rolodex/internal/repository"
	"github.com/rolodex/rolodex/internal/testutil"
)

// Factory returns an empty store for a single subtest.
type Factory func(t *testing.T) repository.Store

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s repository.Store)
	}{
		{"UserUniqueness", testUserUniqueness},
		{"UserLookup", testUserLookup},
		{"ContactRoundTrip", testContactRoundTrip},
		{"ListNewestFirst", testListNewestFirst},
		{"OwnerIsolation", testOwnerIsolation},
		{"PartialUpdate", testPartialUpdate},
		{"UpdatedAtNeverMovesBackwards", testUpdatedAtMonotonic},
		{"Delete", testDelete},
		{"Counts", testCounts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

func mustCreateUser(t *testing.T, s repository.Store) *model.User {
	t.Helper()
	u := testutil.NewTestUser(t)
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func mustCreateContact(t *testing.T, s repository.Store, c *model.Contact) {
	t.Helper()
	require.NoError(t, s.CreateContact(context.Background(), c))
}

func testUserUniqueness(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s)

	sameEmail := testutil.NewTestUser(t)
	sameEmail.Email = u.Email
	assert.ErrorIs(t, s.CreateUser(ctx, sameEmail), repository.ErrUserExists)

	sameName := testutil.NewTestUser(t)
	sameName.Username = u.Username
	assert.ErrorIs(t, s.CreateUser(ctx, sameName), repository.ErrUserExists)

	// A rejected registration must not reserve its other identifier.
	retry := testutil.NewTestUser(t)
	retry.Email = sameName.Email
	assert.NoError(t, s.CreateUser(ctx, retry))
}

func testUserLookup(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s)

	byEmail, err := s.GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, u.Username, byEmail.Username)
	assert.Equal(t, u.PasswordHash, byEmail.PasswordHash)
	assert.True(t, u.CreatedAt.Equal(byEmail.CreatedAt))

	byID, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = s.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func testContactRoundTrip(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s)

	full := testutil.NewTestContactWithStatus(t, u.ID, model.ContactStatusCustomer)
	full.Company = testutil.Ptr("Acme")
	full.Position = testutil.Ptr("CTO")
	full.Notes = testutil.Ptr("prefers email")
	mustCreateContact(t, s, full)

	got, err := s.GetContact(ctx, full.ID, u.ID)
	require.NoError(t, err)
	assertContactEqual(t, full, got)

	bare := testutil.NewTestContact(t, u.ID)
	mustCreateContact(t, s, bare)

	got, err = s.GetContact(ctx, bare.ID, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Company)
	assert.Nil(t, got.Position)
	assert.Nil(t, got.Notes)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
}

func testListNewestFirst(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s)

	base := testutil.Now()
	var ids []string
	for i := 0; i < 3; i++ {
		c := testutil.NewTestContact(t, u.ID)
		c.CreatedAt = base.Add(time.Duration(i) * time.Second)
		c.UpdatedAt = c.CreatedAt
		mustCreateContact(t, s, c)
		ids = append(ids, c.ID)
	}

	list, err := s.ListContactsByOwner(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[1], list[1].ID)
	assert.Equal(t, ids[0], list[2].ID)

	empty, err := s.ListContactsByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func testOwnerIsolation(t *testing.T, s repository.Store) {
	ctx := context.Background()
	owner := mustCreateUser(t, s)
	other := mustCreateUser(t, s)

	c := testutil.NewTestContact(t, owner.ID)
	mustCreateContact(t, s, c)

	_, err := s.GetContact(ctx, c.ID, other.ID)
	assert.ErrorIs(t, err, repository.ErrContactNotFound)

	_, err = s.UpdateContact(ctx, c.ID, other.ID, model.ContactPatch{Name: testutil.Ptr("hijacked")}, testutil.Now())
	assert.ErrorIs(t, err, repository.ErrContactNotFound)

	assert.ErrorIs(t, s.DeleteContact(ctx, c.ID, other.ID), repository.ErrContactNotFound)

	list, err := s.ListContactsByOwner(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err := s.CountContacts(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	// The owner's record is untouched.
	got, err := s.GetContact(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, got.Name)
}

func testPartialUpdate(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s)

	c := testutil.NewTestContact(t, u.ID)
	c.Company = testutil.Ptr("Acme")
	mustCreateContact(t, s, c)

	later := c.UpdatedAt.Add(5 * time.Second)
	partner := model.ContactStatusPartner
	updated, err := s.UpdateContact(ctx, c.ID, u.ID, model.ContactPatch{
		Name:   testutil.Ptr("Renamed"),
		Status: &partner,
		Notes:  testutil.Ptr("new note"),
	}, later)
	require.NoError(t, err)

	assert.Equal(t, c.ID, updated.ID)
	assert.Equal(t, u.ID, updated.OwnerID)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, model.ContactStatusPartner, updated.Status)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "new note", *updated.Notes)
	assert.Equal(t, c.Email, updated.Email)
	assert.Equal(t, c.Phone, updated.Phone)
	require.NotNil(t, updated.Company)
	assert.Equal(t, "Acme", *updated.Company)
	assert.True(t, c.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, later.Equal(updated.UpdatedAt))

	got, err := s.GetContact(ctx, c.ID, u.ID)
	require.NoError(t, err)
	assertContactEqual(t, updated, got)

	_, err = s.UpdateContact(ctx, "missing", u.ID, model.ContactPatch{}, later)
	assert.ErrorIs(t, err, repository.ErrContactNotFound)
}

func testUpdatedAtMonotonic(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s)

	c := testutil.NewTestContact(t, u.ID)
	mustCreateContact(t, s, c)

	earlier := c.UpdatedAt.Add(-time.Hour)
	updated, err := s.UpdateContact(ctx, c.ID, u.ID, model.ContactPatch{Phone: testutil.Ptr("+1-555-0199")}, earlier)
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.Equal(c.UpdatedAt), "updatedAt moved backwards to %s", updated.UpdatedAt)
	assert.Equal(t, "+1-555-0199", updated.Phone)
}

func testDelete(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s)

	c := testutil.NewTestContact(t, u.ID)
	mustCreateContact(t, s, c)

	require.NoError(t, s.DeleteContact(ctx, c.ID, u.ID))

	_, err := s.GetContact(ctx, c.ID, u.ID)
	assert.ErrorIs(t, err, repository.ErrContactNotFound)
	assert.ErrorIs(t, s.DeleteContact(ctx, c.ID, u.ID), repository.ErrContactNotFound)

	n, err := s.CountContactsByStatus(ctx, u.ID, model.ContactStatusLead)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testCounts(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := mustCreateUser(t, s)
	other := mustCreateUser(t, s)

	for _, st := range []model.ContactStatus{
		model.ContactStatusLead,
		model.ContactStatusLead,
		model.ContactStatusCustomer,
		model.ContactStatusPartner,
	} {
		mustCreateContact(t, s, testutil.NewTestContactWithStatus(t, u.ID, st))
	}

	total, err := s.CountContacts(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)

	want := map[model.ContactStatus]int64{
		model.ContactStatusLead:     2,
		model.ContactStatusCustomer: 1,
		model.ContactStatusPartner:  1,
	}
	for st, n := range want {
		got, err := s.CountContactsByStatus(ctx, u.ID, st)
		require.NoError(t, err)
		assert.Equal(t, n, got, "status %s", st)
	}

	// Status changes move the contact between buckets.
	list, err := s.ListContactsByOwner(ctx, u.ID)
	require.NoError(t, err)
	var lead *model.Contact
	for _, c := range list {
		if c.Status == model.ContactStatusLead {
			lead = c
			break
		}
	}
	require.NotNil(t, lead)
	customer := model.ContactStatusCustomer
	_, err = s.UpdateContact(ctx, lead.ID, u.ID, model.ContactPatch{Status: &customer}, testutil.Now())
	require.NoError(t, err)

	leads, err := s.CountContactsByStatus(ctx, u.ID, model.ContactStatusLead)
	require.NoError(t, err)
	assert.EqualValues(t, 1, leads)
	customers, err := s.CountContactsByStatus(ctx, u.ID, model.ContactStatusCustomer)
	require.NoError(t, err)
	assert.EqualValues(t, 2, customers)

	otherTotal, err := s.CountContacts(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, otherTotal)
}

func assertContactEqual(t *testing.T, want, got *model.Contact) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.OwnerID, got.OwnerID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.Phone, got.Phone)
	assert.Equal(t, want.Company, got.Company)
	assert.Equal(t, want.Position, got.Position)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.Notes, got.Notes)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt: want %s got %s", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updatedAt: want %s got %s", want.UpdatedAt, got.UpdatedAt)
}
