package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fekuna/orderflow-service/internal/events"
	"github.com/fekuna/orderflow-service/internal/inventory"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

// MessageReader is satisfied by broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// InventoryListener deducts stock when an order is confirmed.
type InventoryListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting inventory order listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping inventory order listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var envelope events.Envelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	if envelope.EventType != events.TypeOrderStatusChanged {
		return
	}

	var order events.OrderPayload
	if err := json.Unmarshal(envelope.Payload, &order); err != nil {
		l.logger.Error("Failed to unmarshal order payload", zap.String("event_id", envelope.EventID), zap.Error(err))
		return
	}
	if order.Status != string(model.OrderStatusConfirmed) {
		return
	}

	l.logger.Info("Deducting stock for confirmed order",
		zap.String("order_id", order.ID),
		zap.String("company_id", envelope.CompanyID),
	)
	// Failures are logged per row by the use case and not retried.
	_ = l.uc.DeductForOrder(ctx, envelope.CompanyID, order)
}
