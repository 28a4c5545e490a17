package dto

import "github.com/fekuna/orderflow-service/internal/model"

type CompanyInput struct {
	Name                string  `json:"name" validate:"required"`
	Email               *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone               *string `json:"phone,omitempty"`
	Address             *string `json:"address,omitempty"`
	BusinessType        string  `json:"business_type,omitempty" validate:"oneof=custom_orders wholesale"`
	InventoryManagement *bool   `json:"inventory_management,omitempty"`
	InventoryType       string  `json:"inventory_type,omitempty" validate:"oneof=finished_products raw_materials"`
	Currency            string  `json:"currency,omitempty"`
	Timezone            string  `json:"timezone,omitempty"`
}

func (in *CompanyInput) ApplyDefaults() {
	if in.BusinessType == "" {
		in.BusinessType = model.BusinessTypeCustomOrders
	}
	if in.InventoryManagement == nil {
		f := false
		in.InventoryManagement = &f
	}
	if in.InventoryType == "" {
		in.InventoryType = model.InventoryTypeFinishedProducts
	}
	if in.Currency == "" {
		in.Currency = "EUR"
	}
	if in.Timezone == "" {
		in.Timezone = "Europe/Paris"
	}
}

type UpdateCompanyInput struct {
	Name                *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email               *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone               *string `json:"phone,omitempty"`
	Address             *string `json:"address,omitempty"`
	BusinessType        *string `json:"business_type,omitempty" validate:"omitempty,oneof=custom_orders wholesale"`
	InventoryManagement *bool   `json:"inventory_management,omitempty"`
	InventoryType       *string `json:"inventory_type,omitempty" validate:"omitempty,oneof=finished_products raw_materials"`
	Currency            *string `json:"currency,omitempty" validate:"omitempty,min=1"`
	Timezone            *string `json:"timezone,omitempty" validate:"omitempty,min=1"`
}

// Apply copies the provided fields onto c.
func (in *UpdateCompanyInput) Apply(c *model.Company) {
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
	if in.BusinessType != nil {
		c.BusinessType = *in.BusinessType
	}
	if in.InventoryManagement != nil {
		c.InventoryManagement = *in.InventoryManagement
	}
	if in.InventoryType != nil {
		c.InventoryType = *in.InventoryType
	}
	if in.Currency != nil {
		c.Currency = *in.Currency
	}
	if in.Timezone != nil {
		c.Timezone = *in.Timezone
	}
}
