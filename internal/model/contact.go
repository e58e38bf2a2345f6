package model

import "time"

// ContactStatus is the relationship stage of a contact.
// Any status may be changed to any other; there is no workflow.
type ContactStatus string

const (
	ContactStatusLead     ContactStatus = "Lead"
	ContactStatusCustomer ContactStatus = "Customer"
	ContactStatusPartner  ContactStatus = "Partner"
)

// DefaultContactStatus is applied when a contact is created without a status.
const DefaultContactStatus = ContactStatusLead

// ContactStatuses lists every valid status in display order.
var ContactStatuses = []ContactStatus{
	ContactStatusLead,
	ContactStatusCustomer,
	ContactStatusPartner,
}

// IsValid reports whether s is one of the known statuses.
func (s ContactStatus) IsValid() bool {
	switch s {
	case ContactStatusLead, ContactStatusCustomer, ContactStatusPartner:
		return true
	}
	return false
}

// Contact is a person tracked by a single owning user.
type Contact struct {
	ID        string        `json:"_id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Company   *string       `json:"company,omitempty"`
	Position  *string       `json:"position,omitempty"`
	Status    ContactStatus `json:"status"`
	Notes     *string       `json:"notes,omitempty"`
	OwnerID   string        `json:"userId"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Clone returns a deep copy of the contact.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Company = cloneString(c.Company)
	cp.Position = cloneString(c.Position)
	cp.Notes = cloneString(c.Notes)
	return &cp
}

// ContactPatch carries the fields of an update. Nil fields are left unchanged.
type ContactPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Company  *string
	Position *string
	Status   *ContactStatus
	Notes    *string
}

// Apply copies every non-nil field of the patch onto c.
// Identity, ownership and timestamps are never touched.
func (p ContactPatch) Apply(c *Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Company != nil {
		c.Company = cloneString(p.Company)
	}
	if p.Position != nil {
		c.Position = cloneString(p.Position)
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Notes != nil {
		c.Notes = cloneString(p.Notes)
	}
}

// DashboardStats holds per-owner contact counts.
type DashboardStats struct {
	TotalContacts int64 `json:"totalContacts"`
	Leads         int64 `json:"leads"`
	Customers     int64 `json:"customers"`
	Partners      int64 `json:"partners"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
