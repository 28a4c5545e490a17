package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fekuna/orderflow-service/pkg/logger"
)

type recordingProducer struct {
	keys   []string
	values [][]byte
	err    error
}

func (r *recordingProducer) Publish(_ context.Context, key string, value []byte) error {
	r.keys = append(r.keys, key)
	r.values = append(r.values, value)
	return r.err
}

func TestKafkaPublisherRoutesByType(t *testing.T) {
	orders, stock := &recordingProducer{}, &recordingProducer{}
	p := NewKafkaPublisher(orders, stock)
	ctx := context.Background()

	e, err := New(TypeOrderStatusChanged, "c-1", "o-1", OrderPayload{ID: "o-1", Status: "confirmed"})
	require.NoError(t, err)
	require.NoError(t, p.Publish(ctx, e))

	e, err = New(TypeStockMovementRecorded, "c-1", "", StockMovementPayload{InventoryID: "i-1", Quantity: decimal.NewFromInt(3)})
	require.NoError(t, err)
	require.NoError(t, p.Publish(ctx, e))

	require.Len(t, orders.values, 1)
	require.Len(t, stock.values, 1)
	assert.Equal(t, "o-1", orders.keys[0])
	assert.Equal(t, "c-1", stock.keys[0], "company id is the fallback key")

	var decoded Envelope
	require.NoError(t, json.Unmarshal(orders.values[0], &decoded))
	assert.Equal(t, TypeOrderStatusChanged, decoded.EventType)
	var payload OrderPayload
	require.NoError(t, json.Unmarshal(decoded.Payload, &payload))
	assert.Equal(t, "confirmed", payload.Status)
}

func TestKafkaPublisherUnknownType(t *testing.T) {
	p := NewKafkaPublisher(&recordingProducer{}, &recordingProducer{})
	assert.Error(t, p.Publish(context.Background(), Envelope{EventType: "Mystery"}))
}

func TestPublishLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	orders := &recordingProducer{err: errors.New("broker down")}

	Publish(context.Background(), NewKafkaPublisher(orders, orders), logger.FromZap(zap.New(core)),
		TypeOrderCreated, "c-1", "o-1", OrderPayload{ID: "o-1"})

	assert.Len(t, orders.values, 1)
	assert.Equal(t, 1, logs.FilterMessage("failed to publish event").Len())
}
