package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Producer is satisfied by broker.KafkaProducer.
type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// KafkaPublisher routes order events and stock events to their own topics.
type KafkaPublisher struct {
	orders Producer
	stock  Producer
}

func NewKafkaPublisher(orders, stock Producer) *KafkaPublisher {
	return &KafkaPublisher{orders: orders, stock: stock}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Envelope) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}

	var target Producer
	switch e.EventType {
	case TypeOrderCreated, TypeOrderStatusChanged:
		target = p.orders
	case TypeStockMovementRecorded:
		target = p.stock
	default:
		return fmt.Errorf("no topic for event type %q", e.EventType)
	}

	key := e.Key
	if key == "" {
		key = e.CompanyID
	}
	return target.Publish(ctx, key, value)
}
