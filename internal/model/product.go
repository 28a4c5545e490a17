package model

import (
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	CompanyID      string          `db:"company_id" json:"company_id"`
	Name           string          `db:"name" json:"name"`
	Description    string          `db:"description" json:"description"`
	Price          decimal.Decimal `db:"price" json:"price"`
	SKU            *string         `db:"sku" json:"sku"`
	Unit           string          `db:"unit" json:"unit"`
	Category       string          `db:"category" json:"category"`
	Attributes     types.JSONText  `db:"attributes" json:"attributes"`
	TrackInventory bool            `db:"track_inventory" json:"track_inventory"`
	StockQuantity  int             `db:"stock_quantity" json:"stock_quantity"`
	MinStockLevel  int             `db:"min_stock_level" json:"min_stock_level"`
	IsActive       bool            `db:"is_active" json:"is_active"`
}

func (p *Product) Ref() ProductRef {
	return ProductRef{ID: p.ID, Name: p.Name, Price: p.Price, Unit: p.Unit}
}
