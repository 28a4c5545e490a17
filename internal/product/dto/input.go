package dto

import (
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"github.com/fekuna/orderflow-service/internal/model"
)

type CreateProductInput struct {
	Name           string           `json:"name" validate:"required"`
	Description    string           `json:"description,omitempty"`
	Price          *decimal.Decimal `json:"price" validate:"required,gte=0"`
	SKU            *string          `json:"sku,omitempty"`
	Unit           string           `json:"unit,omitempty"`
	Category       string           `json:"category,omitempty"`
	Attributes     json.RawMessage  `json:"attributes,omitempty"`
	TrackInventory *bool            `json:"track_inventory,omitempty"`
	StockQuantity  *int             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	MinStockLevel  *int             `json:"min_stock_level,omitempty" validate:"omitempty,gte=0"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

func (in *CreateProductInput) ApplyDefaults() {
	if in.Unit == "" {
		in.Unit = "pièce"
	}
	if in.Category == "" {
		in.Category = "general"
	}
	if len(in.Attributes) == 0 || string(in.Attributes) == "null" {
		in.Attributes = json.RawMessage(`{}`)
	}
	if in.TrackInventory == nil {
		f := false
		in.TrackInventory = &f
	}
	if in.StockQuantity == nil {
		zero := 0
		in.StockQuantity = &zero
	}
	if in.MinStockLevel == nil {
		zero := 0
		in.MinStockLevel = &zero
	}
	if in.IsActive == nil {
		t := true
		in.IsActive = &t
	}
}

type UpdateProductInput struct {
	Name           *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Description    *string          `json:"description,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	SKU            *string          `json:"sku,omitempty"`
	Unit           *string          `json:"unit,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Attributes     json.RawMessage  `json:"attributes,omitempty"`
	TrackInventory *bool            `json:"track_inventory,omitempty"`
	StockQuantity  *int             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	MinStockLevel  *int             `json:"min_stock_level,omitempty" validate:"omitempty,gte=0"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

func (in *UpdateProductInput) Apply(p *model.Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.SKU != nil {
		p.SKU = in.SKU
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if len(in.Attributes) > 0 && string(in.Attributes) != "null" {
		p.Attributes = types.JSONText(in.Attributes)
	}
	if in.TrackInventory != nil {
		p.TrackInventory = *in.TrackInventory
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	if in.MinStockLevel != nil {
		p.MinStockLevel = *in.MinStockLevel
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}
