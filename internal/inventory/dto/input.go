package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/validation"
)

type CreateInventoryInput struct {
	ProductID     *string             `json:"product_id,omitempty" validate:"omitempty,uuid"`
	Name          string              `json:"name" validate:"required"`
	Type          string              `json:"type" validate:"required,oneof=finished_product raw_material"`
	Unit          string              `json:"unit,omitempty"`
	CurrentStock  decimal.Decimal     `json:"current_stock,omitempty" validate:"gte=0"`
	MinStockLevel decimal.Decimal     `json:"min_stock_level,omitempty" validate:"gte=0"`
	MaxStockLevel decimal.NullDecimal `json:"max_stock_level,omitempty" validate:"omitempty,gte=0"`
	CostPerUnit   decimal.Decimal     `json:"cost_per_unit,omitempty" validate:"gte=0"`
	Supplier      *string             `json:"supplier,omitempty"`
	Location      *string             `json:"location,omitempty"`
	IsActive      *bool               `json:"is_active,omitempty"`
}

func (in *CreateInventoryInput) ApplyDefaults() {
	if in.Unit == "" {
		in.Unit = "pièce"
	}
	if in.IsActive == nil {
		t := true
		in.IsActive = &t
	}
}

// UpdateInventoryInput has no current_stock: the counter only moves through movements.
// An explicit null max_stock_level clears the ceiling.
type UpdateInventoryInput struct {
	ProductID     *string                    `json:"product_id,omitempty" validate:"omitempty,uuid"`
	Name          *string                    `json:"name,omitempty" validate:"omitempty,min=1"`
	Type          *string                    `json:"type,omitempty" validate:"omitempty,oneof=finished_product raw_material"`
	Unit          *string                    `json:"unit,omitempty" validate:"omitempty,min=1"`
	MinStockLevel *decimal.Decimal           `json:"min_stock_level,omitempty" validate:"omitempty,gte=0"`
	MaxStockLevel validation.OptionalDecimal `json:"max_stock_level,omitempty" validate:"omitempty,gte=0"`
	CostPerUnit   *decimal.Decimal           `json:"cost_per_unit,omitempty" validate:"omitempty,gte=0"`
	Supplier      *string                    `json:"supplier,omitempty"`
	Location      *string                    `json:"location,omitempty"`
	IsActive      *bool                      `json:"is_active,omitempty"`
}

func (in *UpdateInventoryInput) Apply(inv *model.Inventory) {
	if in.ProductID != nil {
		inv.ProductID = in.ProductID
	}
	if in.Name != nil {
		inv.Name = *in.Name
	}
	if in.Type != nil {
		inv.Type = *in.Type
	}
	if in.Unit != nil {
		inv.Unit = *in.Unit
	}
	if in.MinStockLevel != nil {
		inv.MinStockLevel = *in.MinStockLevel
	}
	if in.MaxStockLevel.Set {
		inv.MaxStockLevel = in.MaxStockLevel.Value
	}
	if in.CostPerUnit != nil {
		inv.CostPerUnit = *in.CostPerUnit
	}
	if in.Supplier != nil {
		inv.Supplier = in.Supplier
	}
	if in.Location != nil {
		inv.Location = in.Location
	}
	if in.IsActive != nil {
		inv.IsActive = *in.IsActive
	}
}

type MovementInput struct {
	Type      string              `json:"type" validate:"required,oneof=in out adjustment"`
	Quantity  *decimal.Decimal    `json:"quantity" validate:"required,gte=0"`
	OrderID   *string             `json:"order_id,omitempty" validate:"omitempty,uuid"`
	UnitCost  decimal.NullDecimal `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
	Reference *string             `json:"reference,omitempty"`
	Reason    *string             `json:"reason,omitempty"`
	Notes     string              `json:"notes,omitempty"`
}
