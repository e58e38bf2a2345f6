package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rolodex/rolodex/internal/metrics"
	"github.com/rolodex/rolodex/internal/model"
	"github.com/rolodex/rolodex/internal/repository"
)

// ContactService handles contact business logic. Every call is scoped to
// the owner passed in; foreign contacts look exactly like missing ones.
type ContactService struct {
	store   repository.ContactStore
	metrics metrics.Recorder
	clock   Clock
}

// NewContactService creates a new ContactService.
func NewContactService(store repository.ContactStore, recorder metrics.Recorder) *ContactService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ContactService{
		store:   store,
		metrics: recorder,
		clock:   time.Now,
	}
}

// CreateContactInput defines input for creating a contact.
type CreateContactInput struct {
	Name     string
	Email    string
	Phone    string
	Company  *string
	Position *string
	Status   model.ContactStatus
	Notes    *string
}

// ListContacts returns the owner's contacts, newest first.
func (s *ContactService) ListContacts(ctx context.Context, ownerID string) ([]*model.Contact, error) {
	contacts, err := s.store.ListContactsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	if contacts == nil {
		contacts = []*model.Contact{}
	}
	return contacts, nil
}

// GetContact retrieves one of the owner's contacts.
func (s *ContactService) GetContact(ctx context.Context, ownerID, id string) (*model.Contact, error) {
	contact, err := s.store.GetContact(ctx, id, ownerID)
	if err != nil {
		return nil, mapContactError(err)
	}
	return contact, nil
}

// CreateContact validates input and stores a new contact for ownerID.
func (s *ContactService) CreateContact(ctx context.Context, ownerID string, input CreateContactInput) (*model.Contact, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)

	if err := requireFields(name, email, phone); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.DefaultContactStatus
	}
	if !status.IsValid() {
		return nil, validationError("status must be one of Lead, Customer, Partner")
	}

	now := s.clock.now()
	contact := &model.Contact{
		ID:        generateULID(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Company:   input.Company,
		Position:  input.Position,
		Status:    status,
		Notes:     input.Notes,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.metrics.IncContactCreated()

	return contact, nil
}

// UpdateContact replaces the fields present in patch. updatedAt moves to
// now, or stays put if the stored value is already later.
func (s *ContactService) UpdateContact(ctx context.Context, ownerID, id string, patch model.ContactPatch) (*model.Contact, error) {
	for _, f := range []struct {
		name  string
		value **string
	}{
		{"name", &patch.Name},
		{"email", &patch.Email},
		{"phone", &patch.Phone},
	} {
		if *f.value == nil {
			continue
		}
		trimmed := strings.TrimSpace(**f.value)
		if trimmed == "" {
			return nil, validationError("%s cannot be empty", f.name)
		}
		*f.value = &trimmed
	}

	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, validationError("status must be one of Lead, Customer, Partner")
	}

	contact, err := s.store.UpdateContact(ctx, id, ownerID, patch, s.clock.now())
	if err != nil {
		return nil, mapContactError(err)
	}

	s.metrics.IncContactUpdated()

	return contact, nil
}

// DeleteContact removes one of the owner's contacts.
func (s *ContactService) DeleteContact(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeleteContact(ctx, id, ownerID); err != nil {
		return mapContactError(err)
	}

	s.metrics.IncContactDeleted()

	return nil
}

// DashboardStats counts the owner's contacts in total and per status.
// The counts are taken one after another and are not a consistent snapshot.
func (s *ContactService) DashboardStats(ctx context.Context, ownerID string) (*model.DashboardStats, error) {
	total, err := s.store.CountContacts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}

	stats := &model.DashboardStats{TotalContacts: total}
	for _, target := range []struct {
		status model.ContactStatus
		dst    *int64
	}{
		{model.ContactStatusLead, &stats.Leads},
		{model.ContactStatusCustomer, &stats.Customers},
		{model.ContactStatusPartner, &stats.Partners},
	} {
		n, err := s.store.CountContactsByStatus(ctx, ownerID, target.status)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s contacts: %w", target.status, err)
		}
		*target.dst = n
	}

	return stats, nil
}

func requireFields(name, email, phone string) error {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return validationError("%s required", strings.Join(missing, ", "))
	}
	return nil
}

func mapContactError(err error) error {
	if errors.Is(err, repository.ErrContactNotFound) {
		return ErrContactNotFound
	}
	return err
}
