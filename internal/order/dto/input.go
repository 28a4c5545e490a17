package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/validation"
)

type OrderItemInput struct {
	ProductID      string           `json:"product_id" validate:"required,uuid"`
	Quantity       int              `json:"quantity" validate:"gte=1"`
	UnitPrice      *decimal.Decimal `json:"unit_price" validate:"required,gte=0"`
	Discount       decimal.Decimal  `json:"discount,omitempty" validate:"gte=0"`
	Customizations json.RawMessage  `json:"customizations,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

type CreateOrderInput struct {
	CustomerID          string           `json:"customer_id" validate:"required,uuid"`
	OrderDate           *string          `json:"order_date,omitempty" validate:"omitempty,isodate"`
	DueDate             *string          `json:"due_date,omitempty" validate:"omitempty,isodate"`
	DeliveryDate        *string          `json:"delivery_date,omitempty" validate:"omitempty,isodate"`
	DeliveryAddress     *string          `json:"delivery_address,omitempty"`
	DeliveryMethod      string           `json:"delivery_method,omitempty" validate:"oneof=delivery pickup"`
	Discount            decimal.Decimal  `json:"discount,omitempty" validate:"gte=0"`
	TaxRate             decimal.Decimal  `json:"tax_rate,omitempty" validate:"gte=0,lte=100"`
	Notes               string           `json:"notes,omitempty"`
	SpecialInstructions string           `json:"special_instructions,omitempty"`
	Items               []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

func (in *CreateOrderInput) ApplyDefaults() {
	if in.DeliveryMethod == "" {
		in.DeliveryMethod = model.DeliveryMethodPickup
	}
	for i := range in.Items {
		if len(in.Items[i].Customizations) == 0 || string(in.Items[i].Customizations) == "null" {
			in.Items[i].Customizations = json.RawMessage(`{}`)
		}
	}
}

// ProductIDs returns the distinct products referenced by the items.
func (in *CreateOrderInput) ProductIDs() []string {
	seen := make(map[string]struct{}, len(in.Items))
	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

type UpdateOrderInput struct {
	CustomerID          *string          `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	Status              *string          `json:"status,omitempty" validate:"omitempty,oneof=draft pending confirmed in_production ready delivered completed cancelled"`
	OrderDate           *string          `json:"order_date,omitempty" validate:"omitempty,isodate"`
	DueDate             *string          `json:"due_date,omitempty" validate:"omitempty,isodate"`
	DeliveryDate        *string          `json:"delivery_date,omitempty" validate:"omitempty,isodate"`
	DeliveryAddress     *string          `json:"delivery_address,omitempty"`
	DeliveryMethod      *string          `json:"delivery_method,omitempty" validate:"omitempty,oneof=delivery pickup"`
	Discount            *decimal.Decimal `json:"discount,omitempty" validate:"omitempty,gte=0"`
	TaxRate             *decimal.Decimal `json:"tax_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes               *string          `json:"notes,omitempty"`
	SpecialInstructions *string          `json:"special_instructions,omitempty"`
}

// Apply copies every provided field except status onto o. The customer must
// already be checked against the caller's company.
func (in *UpdateOrderInput) Apply(o *model.Order) {
	if in.CustomerID != nil {
		o.CustomerID = *in.CustomerID
	}
	if t := ParseOptionalDate(in.OrderDate); t != nil {
		o.OrderDate = *t
	}
	if t := ParseOptionalDate(in.DueDate); t != nil {
		o.DueDate = t
	}
	if t := ParseOptionalDate(in.DeliveryDate); t != nil {
		o.DeliveryDate = t
	}
	if in.DeliveryAddress != nil {
		o.DeliveryAddress = in.DeliveryAddress
	}
	if in.DeliveryMethod != nil {
		o.DeliveryMethod = *in.DeliveryMethod
	}
	if in.Discount != nil {
		o.Discount = *in.Discount
	}
	if in.TaxRate != nil {
		o.TaxRate = *in.TaxRate
	}
	if in.Notes != nil {
		o.Notes = *in.Notes
	}
	if in.SpecialInstructions != nil {
		o.SpecialInstructions = *in.SpecialInstructions
	}
}

// ParseOptionalDate parses a date already accepted by the isodate rule.
func ParseOptionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := validation.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &t
}
