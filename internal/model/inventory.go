package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fekuna/orderflow-service/internal/apperror"
)

const (
	InventoryKindFinishedProduct = "finished_product"
	InventoryKindRawMaterial     = "raw_material"
)

type Inventory struct {
	BaseModel
	CompanyID     string              `db:"company_id" json:"company_id"`
	ProductID     *string             `db:"product_id" json:"product_id"`
	Name          string              `db:"name" json:"name"`
	Type          string              `db:"type" json:"type"`
	Unit          string              `db:"unit" json:"unit"`
	CurrentStock  decimal.Decimal     `db:"current_stock" json:"current_stock"`
	MinStockLevel decimal.Decimal     `db:"min_stock_level" json:"min_stock_level"`
	MaxStockLevel decimal.NullDecimal `db:"max_stock_level" json:"max_stock_level"`
	CostPerUnit   decimal.Decimal     `db:"cost_per_unit" json:"cost_per_unit"`
	Supplier      *string             `db:"supplier" json:"supplier"`
	Location      *string             `db:"location" json:"location"`
	IsActive      bool                `db:"is_active" json:"is_active"`

	Product *ProductRef `db:"-" json:"product,omitempty"`
}

// LowStock is true when the counter dropped strictly below the threshold.
func (i *Inventory) LowStock() bool {
	return i.CurrentStock.LessThan(i.MinStockLevel)
}

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut || t == MovementAdjustment
}

// StockMovement is append-only. QuantityBefore/After snapshot the counter around it.
type StockMovement struct {
	ID             string              `db:"id" json:"id"`
	CompanyID      string              `db:"company_id" json:"company_id"`
	InventoryID    string              `db:"inventory_id" json:"inventory_id"`
	OrderID        *string             `db:"order_id" json:"order_id"`
	Type           MovementType        `db:"type" json:"type"`
	Quantity       decimal.Decimal     `db:"quantity" json:"quantity"`
	QuantityBefore decimal.Decimal     `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  decimal.Decimal     `db:"quantity_after" json:"quantity_after"`
	UnitCost       decimal.NullDecimal `db:"unit_cost" json:"unit_cost"`
	Reference      *string             `db:"reference" json:"reference"`
	Reason         *string             `db:"reason" json:"reason"`
	Notes          string              `db:"notes" json:"notes"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`

	Order *OrderRef `db:"-" json:"orders"`
}

// NextStock applies a movement to the current counter.
// in adds, out subtracts and fails when it would overdraw, adjustment replaces the value.
func NextStock(t MovementType, current, quantity decimal.Decimal) (decimal.Decimal, error) {
	switch t {
	case MovementIn:
		return current.Add(quantity), nil
	case MovementOut:
		if quantity.GreaterThan(current) {
			return current, apperror.ErrInsufficientStock
		}
		return current.Sub(quantity), nil
	case MovementAdjustment:
		return quantity, nil
	default:
		return current, apperror.Validation("Invalid data: type: must be one of in, out, adjustment")
	}
}
