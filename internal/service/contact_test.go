package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolodex/rolodex/internal/metrics"
	"github.com/rolodex/rolodex/internal/model"
	"github.com/rolodex/rolodex/internal/repository"
	"github.com/rolodex/rolodex/internal/repository/memory"
	"github.com/rolodex/rolodex/internal/testutil"
)

func newTestContactService(t *testing.T) (*ContactService, *metrics.InMemoryRecorder) {
	t.Helper()
	recorder := metrics.NewInMemory()
	return NewContactService(memory.New(), recorder), recorder
}

// fixedClock returns a clock that reports the times in order, then repeats the last.
func fixedClock(times ...time.Time) Clock {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func validInput() CreateContactInput {
	return CreateContactInput{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Phone:    "+44 20 7946 0000",
		Company:  testutil.Ptr("Analytical Engines"),
		Position: testutil.Ptr("Engineer"),
		Status:   model.ContactStatusCustomer,
		Notes:    testutil.Ptr("met at the salon"),
	}
}

func TestCreateThenGetRoundTrips(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, recorder := newTestContactService(t)

	created, err := svc.CreateContact(ctx, "owner-1", validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "owner-1", created.OwnerID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.GetContact(ctx, "owner-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "Analytical Engines", *got.Company)
	assert.Equal(t, "Engineer", *got.Position)
	assert.Equal(t, "met at the salon", *got.Notes)
	assert.Equal(t, model.ContactStatusCustomer, got.Status)
	assert.EqualValues(t, 1, recorder.Snapshot().ContactsCreated)
}

func TestCreateDefaultsStatusToLead(t *testing.T) {
	t.Parallel()
	svc, _ := newTestContactService(t)

	input := validInput()
	input.Status = ""
	created, err := svc.CreateContact(context.Background(), "owner-1", input)
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusLead, created.Status)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	svc, recorder := newTestContactService(t)

	tests := []struct {
		name   string
		mutate func(*CreateContactInput)
	}{
		{"missing_name", func(in *CreateContactInput) { in.Name = "" }},
		{"blank_email", func(in *CreateContactInput) { in.Email = "   " }},
		{"missing_phone", func(in *CreateContactInput) { in.Phone = "" }},
		{"bad_status", func(in *CreateContactInput) { in.Status = "Prospect" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			_, err := svc.CreateContact(context.Background(), "owner-1", input)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
	assert.Zero(t, recorder.Snapshot().ContactsCreated)
}

func TestOwnerIsolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestContactService(t)

	created, err := svc.CreateContact(ctx, "owner-1", validInput())
	require.NoError(t, err)

	list, err := svc.ListContacts(ctx, "owner-2")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = svc.GetContact(ctx, "owner-2", created.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)

	_, err = svc.UpdateContact(ctx, "owner-2", created.ID, model.ContactPatch{Name: testutil.Ptr("Mallory")})
	assert.ErrorIs(t, err, ErrContactNotFound)

	err = svc.DeleteContact(ctx, "owner-2", created.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)

	got, err := svc.GetContact(ctx, "owner-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestContactService(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.clock = fixedClock(base, base.Add(time.Minute), base.Add(2*time.Minute))

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		input := validInput()
		input.Name = name
		c, err := svc.CreateContact(ctx, "owner-1", input)
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	list, err := svc.ListContacts(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[1], list[1].ID)
	assert.Equal(t, ids[0], list[2].ID)
}

func TestUpdateChangesOnlyGivenFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, recorder := newTestContactService(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.clock = fixedClock(created, created.Add(time.Hour))

	c, err := svc.CreateContact(ctx, "owner-1", validInput())
	require.NoError(t, err)

	status := model.ContactStatusPartner
	updated, err := svc.UpdateContact(ctx, "owner-1", c.ID, model.ContactPatch{
		Phone:  testutil.Ptr("  +1 555 0199 "),
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, c.ID, updated.ID)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "+1 555 0199", updated.Phone)
	assert.Equal(t, model.ContactStatusPartner, updated.Status)
	assert.Equal(t, c.Name, updated.Name)
	assert.Equal(t, c.Email, updated.Email)
	assert.Equal(t, *c.Company, *updated.Company)
	assert.Equal(t, created.Add(time.Hour), updated.UpdatedAt)
	assert.EqualValues(t, 1, recorder.Snapshot().ContactsUpdated)
}

func TestUpdatedAtNeverMovesBackwards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestContactService(t)
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.clock = fixedClock(created, created.Add(-time.Hour))

	c, err := svc.CreateContact(ctx, "owner-1", validInput())
	require.NoError(t, err)

	updated, err := svc.UpdateContact(ctx, "owner-1", c.ID, model.ContactPatch{Notes: testutil.Ptr("later")})
	require.NoError(t, err)
	assert.Equal(t, c.UpdatedAt, updated.UpdatedAt)
	assert.Equal(t, "later", *updated.Notes)
}

func TestUpdateValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestContactService(t)

	c, err := svc.CreateContact(ctx, "owner-1", validInput())
	require.NoError(t, err)

	bad := model.ContactStatus("Friend")
	tests := []struct {
		name  string
		patch model.ContactPatch
	}{
		{"empty_name", model.ContactPatch{Name: testutil.Ptr("")}},
		{"blank_email", model.ContactPatch{Email: testutil.Ptr(" ")}},
		{"empty_phone", model.ContactPatch{Phone: testutil.Ptr("")}},
		{"bad_status", model.ContactPatch{Status: &bad}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateContact(ctx, "owner-1", c.ID, tt.patch)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}

	got, err := svc.GetContact(ctx, "owner-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestUpdateMissingContact(t *testing.T) {
	t.Parallel()
	svc, _ := newTestContactService(t)

	_, err := svc.UpdateContact(context.Background(), "owner-1", "not-an-id", model.ContactPatch{Name: testutil.Ptr("x")})
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestDeleteThenGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, recorder := newTestContactService(t)

	c, err := svc.CreateContact(ctx, "owner-1", validInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteContact(ctx, "owner-1", c.ID))

	_, err = svc.GetContact(ctx, "owner-1", c.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)
	assert.ErrorIs(t, svc.DeleteContact(ctx, "owner-1", c.ID), ErrContactNotFound)
	assert.EqualValues(t, 1, recorder.Snapshot().ContactsDeleted)
}

func TestDashboardStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestContactService(t)

	for _, status := range []model.ContactStatus{
		model.ContactStatusLead,
		model.ContactStatusLead,
		model.ContactStatusCustomer,
		model.ContactStatusPartner,
	} {
		input := validInput()
		input.Status = status
		_, err := svc.CreateContact(ctx, "owner-1", input)
		require.NoError(t, err)
	}

	stats, err := svc.DashboardStats(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, model.DashboardStats{TotalContacts: 4, Leads: 2, Customers: 1, Partners: 1}, *stats)

	empty, err := svc.DashboardStats(ctx, "owner-2")
	require.NoError(t, err)
	assert.Equal(t, model.DashboardStats{}, *empty)
}

type failingStore struct {
	repository.ContactStore
	err error
}

func (f failingStore) ListContactsByOwner(context.Context, string) ([]*model.Contact, error) {
	return nil, f.err
}

func (f failingStore) CountContacts(context.Context, string) (int64, error) {
	return 0, f.err
}

func (f failingStore) DeleteContact(context.Context, string, string) error {
	return f.err
}

func TestStoreErrorsPropagate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("connection refused")
	svc := NewContactService(failingStore{err: boom}, nil)

	_, err := svc.ListContacts(ctx, "owner-1")
	assert.ErrorIs(t, err, boom)

	_, err = svc.DashboardStats(ctx, "owner-1")
	assert.ErrorIs(t, err, boom)

	err = svc.DeleteContact(ctx, "owner-1", "id")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrContactNotFound)
}
