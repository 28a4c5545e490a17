package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	BaseModel
	CompanyID  string  `db:"company_id" json:"company_id"`
	Name       string  `db:"name" json:"name"`
	Email      *string `db:"email" json:"email"`
	Phone      *string `db:"phone" json:"phone"`
	Address    *string `db:"address" json:"address"`
	City       *string `db:"city" json:"city"`
	PostalCode *string `db:"postal_code" json:"postal_code"`
	Country    string  `db:"country" json:"country"`
	Notes      string  `db:"notes" json:"notes"`
	IsActive   bool    `db:"is_active" json:"is_active"`

	Orders []CustomerOrder `db:"-" json:"orders,omitempty"`
}

// CustomerOrder is the order summary listed on a customer detail.
type CustomerOrder struct {
	ID          string          `db:"id" json:"id"`
	OrderNumber string          `db:"order_number" json:"order_number"`
	Status      OrderStatus     `db:"status" json:"status"`
	OrderDate   time.Time       `db:"order_date" json:"order_date"`
	Total       decimal.Decimal `db:"total" json:"total"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
