package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rolodex/rolodex/internal/model"
	"github.com/rolodex/rolodex/internal/repository"
)

// contactDoc is the stored JSON form of a contact.
type contactDoc struct {
	ID        string  `json:"id"`
	OwnerID   string  `json:"owner_id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Company   *string `json:"company,omitempty"`
	Position  *string `json:"position,omitempty"`
	Status    string  `json:"status"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt int64   `json:"created_at"` // unix nanoseconds
	UpdatedAt int64   `json:"updated_at"`
}

func toDoc(c *model.Contact) contactDoc {
	return contactDoc{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Position:  c.Position,
		Status:    string(c.Status),
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt.UnixNano(),
		UpdatedAt: c.UpdatedAt.UnixNano(),
	}
}

func (d contactDoc) toModel() *model.Contact {
	return &model.Contact{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Company:   d.Company,
		Position:  d.Position,
		Status:    model.ContactStatus(d.Status),
		Notes:     d.Notes,
		CreatedAt: time.Unix(0, d.CreatedAt).UTC(),
		UpdatedAt: time.Unix(0, d.UpdatedAt).UTC(),
	}
}

// CreateContact writes the document and its owner and status indexes atomically.
func (s *Store) CreateContact(ctx context.Context, c *model.Contact) error {
	doc := toDoc(c)
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode contact: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.contactKey(c.ID), payload, 0)
		pipe.ZAdd(ctx, s.ownerKey(c.OwnerID), redis.Z{Score: float64(c.CreatedAt.UnixMilli()), Member: c.ID})
		pipe.SAdd(ctx, s.statusKey(c.OwnerID, doc.Status), c.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// ListContactsByOwner reads the owner index newest first and loads the documents.
func (s *Store) ListContactsByOwner(ctx context.Context, ownerID string) ([]*model.Contact, error) {
	ids, err := s.client.ZRevRange(ctx, s.ownerKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts := make([]*model.Contact, 0, len(ids))
	if len(ids) == 0 {
		return contacts, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.contactKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// deleted between ZREVRANGE and MGET
			continue
		}
		var doc contactDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode contact: %w", err)
		}
		if doc.OwnerID != ownerID {
			continue
		}
		contacts = append(contacts, doc.toModel())
	}

	return contacts, nil
}

// GetContact loads a contact and hides it unless ownerID owns it.
func (s *Store) GetContact(ctx context.Context, id, ownerID string) (*model.Contact, error) {
	doc, err := s.load(ctx, s.client, id, ownerID)
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// UpdateContact performs an optimistic read-modify-write under WATCH so the
// status indexes always match the stored document.
func (s *Store) UpdateContact(ctx context.Context, id, ownerID string, patch model.ContactPatch, updatedAt time.Time) (*model.Contact, error) {
	key := s.contactKey(id)
	var result *model.Contact

	txf := func(tx *redis.Tx) error {
		doc, err := s.load(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		c := doc.toModel()
		oldStatus := string(c.Status)
		patch.Apply(c)
		c.UpdatedAt = repository.LaterOf(c.UpdatedAt, updatedAt)

		next := toDoc(c)
		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode contact: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			if next.Status != oldStatus {
				pipe.SRem(ctx, s.statusKey(ownerID, oldStatus), id)
				pipe.SAdd(ctx, s.statusKey(ownerID, next.Status), id)
			}
			return nil
		})
		if err != nil {
			return err
		}
		result = c
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return nil, fmt.Errorf("failed to update contact: %w", redis.TxFailedErr)
}

// DeleteContact removes the document and its index entries.
func (s *Store) DeleteContact(ctx context.Context, id, ownerID string) error {
	key := s.contactKey(id)

	txf := func(tx *redis.Tx) error {
		doc, err := s.load(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, s.ownerKey(ownerID), id)
			pipe.SRem(ctx, s.statusKey(ownerID, doc.Status), id)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, repository.ErrContactNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return fmt.Errorf("failed to delete contact: %w", redis.TxFailedErr)
}

// CountContacts returns the size of the owner index.
func (s *Store) CountContacts(ctx context.Context, ownerID string) (int64, error) {
	n, err := s.client.ZCard(ctx, s.ownerKey(ownerID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return n, nil
}

// CountContactsByStatus returns the size of the owner's status set.
func (s *Store) CountContactsByStatus(ctx context.Context, ownerID string, status model.ContactStatus) (int64, error) {
	n, err := s.client.SCard(ctx, s.statusKey(ownerID, string(status))).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts by status: %w", err)
	}
	return n, nil
}

// load reads a contact document through c and enforces ownership.
func (s *Store) load(ctx context.Context, c redis.Cmdable, id, ownerID string) (*contactDoc, error) {
	raw, err := c.Get(ctx, s.contactKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	var doc contactDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode contact: %w", err)
	}
	if doc.OwnerID != ownerID {
		return nil, repository.ErrContactNotFound
	}
	return &doc, nil
}
