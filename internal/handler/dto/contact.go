package dto

import (
	"github.com/rolodex/rolodex/internal/model"
	"github.com/rolodex/rolodex/internal/service"
)

// ContactRequest is the body of both create and update. Fields left out of
// an update keep their stored values. There are no id, owner or timestamp
// fields: clients cannot set them.
type ContactRequest struct {
	Name     *string              `json:"name"`
	Email    *string              `json:"email"`
	Phone    *string              `json:"phone"`
	Company  *string              `json:"company"`
	Position *string              `json:"position"`
	Status   *model.ContactStatus `json:"status"`
	Notes    *string              `json:"notes"`
}

// ToCreateInput converts the request into service input for a new contact.
func (r ContactRequest) ToCreateInput() service.CreateContactInput {
	input := service.CreateContactInput{
		Company:  r.Company,
		Position: r.Position,
		Notes:    r.Notes,
	}
	if r.Name != nil {
		input.Name = *r.Name
	}
	if r.Email != nil {
		input.Email = *r.Email
	}
	if r.Phone != nil {
		input.Phone = *r.Phone
	}
	if r.Status != nil {
		input.Status = *r.Status
	}
	return input
}

// ToPatch converts the request into a partial update.
func (r ContactRequest) ToPatch() model.ContactPatch {
	return model.ContactPatch{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Company:  r.Company,
		Position: r.Position,
		Status:   r.Status,
		Notes:    r.Notes,
	}
}
