// Package events defines the domain events emitted to Kafka and their envelope.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/orderflow-service/pkg/logger"
)

const (
	TypeOrderCreated          = "OrderCreated"
	TypeOrderStatusChanged    = "OrderStatusChanged"
	TypeStockMovementRecorded = "StockMovementRecorded"
)

type Envelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	CompanyID string          `json:"company_id"`
	Key       string          `json:"-"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func New(eventType, companyID, key string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		CompanyID: companyID,
		Key:       key,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
	}, nil
}

type OrderItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type OrderPayload struct {
	ID             string             `json:"id"`
	OrderNumber    string             `json:"order_number"`
	CustomerID     string             `json:"customer_id"`
	Status         string             `json:"status"`
	PreviousStatus string             `json:"previous_status,omitempty"`
	Total          decimal.Decimal    `json:"total"`
	Items          []OrderItemPayload `json:"items"`
}

type StockMovementPayload struct {
	MovementID     string          `json:"movement_id"`
	InventoryID    string          `json:"inventory_id"`
	OrderID        *string         `json:"order_id,omitempty"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
}

type Publisher interface {
	Publish(ctx context.Context, e Envelope) error
}

// Publish builds an envelope and hands it to p, logging instead of failing:
// the database write the event describes has already committed.
func Publish(ctx context.Context, p Publisher, log logger.ZapLogger, eventType, companyID, key string, payload interface{}) {
	e, err := New(eventType, companyID, key, payload)
	if err != nil {
		log.Error("failed to encode event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("event_id", e.EventID),
			zap.Error(err),
		)
	}
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Envelope) error { return nil }
