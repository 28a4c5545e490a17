package model

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusDraft        OrderStatus = "draft"
	OrderStatusPending      OrderStatus = "pending"
	OrderStatusConfirmed    OrderStatus = "confirmed"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusReady        OrderStatus = "ready"
	OrderStatusDelivered    OrderStatus = "delivered"
	OrderStatusCompleted    OrderStatus = "completed"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

var AllOrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusInProduction,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:        {OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusPending:      {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:    {OrderStatusInProduction, OrderStatusReady, OrderStatusCancelled},
	OrderStatusInProduction: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:        {OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusDelivered:    {OrderStatusCompleted},
}

func (s OrderStatus) Valid() bool {
	for _, st := range AllOrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether next is a legal edge from s. Re-setting the same status is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return next.Valid()
	}
	for _, st := range orderTransitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// Deletable is false once the goods have left: delivered or completed orders are kept.
func (s OrderStatus) Deletable() bool {
	return s != OrderStatusCompleted && s != OrderStatusDelivered
}

// Revenue statuses count towards sales figures.
func (s OrderStatus) Revenue() bool {
	return s == OrderStatusCompleted || s == OrderStatusDelivered
}

const (
	DeliveryMethodDelivery = "delivery"
	DeliveryMethodPickup   = "pickup"
)

type Order struct {
	BaseModel
	CompanyID           string          `db:"company_id" json:"company_id"`
	CustomerID          string          `db:"customer_id" json:"customer_id"`
	OrderNumber         string          `db:"order_number" json:"order_number"`
	Status              OrderStatus     `db:"status" json:"status"`
	OrderDate           time.Time       `db:"order_date" json:"order_date"`
	DueDate             *time.Time      `db:"due_date" json:"due_date"`
	DeliveryDate        *time.Time      `db:"delivery_date" json:"delivery_date"`
	DeliveryAddress     *string         `db:"delivery_address" json:"delivery_address"`
	DeliveryMethod      string          `db:"delivery_method" json:"delivery_method"`
	Subtotal            decimal.Decimal `db:"subtotal" json:"subtotal"`
	Discount            decimal.Decimal `db:"discount" json:"discount"`
	TaxRate             decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	TaxAmount           decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	Total               decimal.Decimal `db:"total" json:"total"`
	Notes               string          `db:"notes" json:"notes"`
	SpecialInstructions string          `db:"special_instructions" json:"special_instructions"`

	Customer *CustomerRef `db:"-" json:"customer,omitempty"`
	Items    []OrderItem  `db:"-" json:"order_items,omitempty"`
}

type OrderItem struct {
	ID             string          `db:"id" json:"id"`
	OrderID        string          `db:"order_id" json:"order_id"`
	ProductID      string          `db:"product_id" json:"product_id"`
	Quantity       int             `db:"quantity" json:"quantity"`
	UnitPrice      decimal.Decimal `db:"unit_price" json:"unit_price"`
	Discount       decimal.Decimal `db:"discount" json:"discount"`
	LineTotal      decimal.Decimal `db:"line_total" json:"line_total"`
	Customizations types.JSONText  `db:"customizations" json:"customizations"`
	Notes          string          `db:"notes" json:"notes"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`

	Product *ProductRef `db:"-" json:"product,omitempty"`
}

// LineTotal is unit_price * quantity - discount, stored on the item at insert time.
func LineTotal(unitPrice decimal.Decimal, quantity int, discount decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Sub(discount)
}

const orderNumberAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewOrderNumber returns ORD-<unix millis>-<5 random base36 chars>.
func NewOrderNumber(now time.Time) string {
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.IntN(len(orderNumberAlphabet))]
	}
	return "ORD-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + string(suffix)
}
