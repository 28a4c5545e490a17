package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are emitted as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type BaseModel struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProductRef is the compact product shape embedded in orders and inventory rows.
type ProductRef struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit,omitempty"`
}

type CustomerRef struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type OrderRef struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
}
