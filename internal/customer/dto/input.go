package dto

import "github.com/fekuna/orderflow-service/internal/model"

type CreateCustomerInput struct {
	Name       string  `json:"name" validate:"required"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Country    string  `json:"country,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (in *CreateCustomerInput) ApplyDefaults() {
	if in.Country == "" {
		in.Country = "France"
	}
	if in.IsActive == nil {
		t := true
		in.IsActive = &t
	}
}

type UpdateCustomerInput struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Country    *string `json:"country,omitempty" validate:"omitempty,min=1"`
	Notes      *string `json:"notes,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (in *UpdateCustomerInput) Apply(c *model.Customer) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Email != nil {
		c.Email = in.Email
	}
	if in.Phone != nil {
		c.Phone = in.Phone
	}
	if in.Address != nil {
		c.Address = in.Address
	}
	if in.City != nil {
		c.City = in.City
	}
	if in.PostalCode != nil {
		c.PostalCode = in.PostalCode
	}
	if in.Country != nil {
		c.Country = *in.Country
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}
