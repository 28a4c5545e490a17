package dto

import (
	companydto "github.com/fekuna/orderflow-service/internal/company/dto"
)

type SignupInput struct {
	Email               string  `json:"email" validate:"required,email"`
	Password            string  `json:"password" validate:"required,min=6"`
	CompanyName         string  `json:"company_name" validate:"required"`
	CompanyEmail        *string `json:"company_email,omitempty"`
	CompanyPhone        *string `json:"company_phone,omitempty"`
	CompanyAddress      *string `json:"company_address,omitempty"`
	BusinessType        string  `json:"business_type,omitempty"`
	InventoryManagement *bool   `json:"inventory_management,omitempty"`
	InventoryType       string  `json:"inventory_type,omitempty"`
}

// Company maps the signup fields onto the company payload.
func (in *SignupInput) Company() *companydto.CompanyInput {
	return &companydto.CompanyInput{
		Name:                in.CompanyName,
		Email:               in.CompanyEmail,
		Phone:               in.CompanyPhone,
		Address:             in.CompanyAddress,
		BusinessType:        in.BusinessType,
		InventoryManagement: in.InventoryManagement,
		InventoryType:       in.InventoryType,
	}
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
